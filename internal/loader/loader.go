package loader

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gridiron-chat/internal/metrics"
)

// DefaultSources is the load order used when no sources are configured.
// Later files win on field collisions, so the order is part of the contract.
var DefaultSources = []string{
	"Power 5 Offense Grades.csv",
	"Power 5 Defense Grades.csv",
	"Power 5 ST Grades.csv",
	"pff-data.csv",
	"Group 5 Offense Grades.csv",
	"Group 5 Defense Grades.csv",
	"Group 5 ST Grades.csv",
}

// Source is where raw source files come from. *store.CSVStore satisfies it.
type Source interface {
	Exists(rel string) bool
	ReadRaw(rel string) ([]byte, error)
}

type Status string

const (
	StatusLoaded    Status = "loaded"
	StatusMissing   Status = "missing"
	StatusMalformed Status = "malformed"
)

type SourceResult struct {
	Source string
	Status Status
	Rows   int
	Err    error
}

type Report struct {
	Sources []SourceResult
}

func (r Report) Loaded() int {
	n := 0
	for _, s := range r.Sources {
		if s.Status == StatusLoaded {
			n++
		}
	}
	return n
}

func (r Report) Errors() []error {
	var errs []error
	for _, s := range r.Sources {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errs
}

type Loader struct {
	Source  Source
	Log     *zap.Logger
	Workers int
}

func New(src Source, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Source: src, Log: log, Workers: 4}
}

// Load reads every source and returns their records in source order, then row
// order. Files are parsed concurrently but each lands in its own slot, so the
// output order never depends on scheduling. Missing or malformed sources are
// reported and skipped; the only error returned is context cancellation.
func (l *Loader) Load(ctx context.Context, sources []string) ([]Record, Report, error) {
	results := make([]SourceResult, len(sources))
	parsed := make([][]Record, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	if l.Workers > 0 {
		g.SetLimit(l.Workers)
	}
	for i, name := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i], results[i] = l.loadOne(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, fmt.Errorf("load sources: %w", err)
	}

	var out []Record
	for i, res := range results {
		metrics.SourcesTotal.WithLabelValues(string(res.Status)).Inc()
		switch res.Status {
		case StatusMissing:
			l.Log.Warn("source not found", zap.String("source", res.Source))
		case StatusMalformed:
			l.Log.Error("source failed to parse", zap.String("source", res.Source), zap.Error(res.Err))
		default:
			l.Log.Debug("source loaded", zap.String("source", res.Source), zap.Int("rows", res.Rows))
		}
		out = append(out, parsed[i]...)
	}
	return out, Report{Sources: results}, nil
}

func (l *Loader) loadOne(name string) ([]Record, SourceResult) {
	if !l.Source.Exists(name) {
		return nil, SourceResult{
			Source: name,
			Status: StatusMissing,
			Err:    &SourceError{Source: name, Err: ErrSourceUnavailable},
		}
	}
	raw, err := l.Source.ReadRaw(name)
	if err != nil {
		return nil, SourceResult{
			Source: name,
			Status: StatusMissing,
			Err:    &SourceError{Source: name, Err: fmt.Errorf("%w: %v", ErrSourceUnavailable, err)},
		}
	}
	recs, err := Parse(name, raw)
	if err != nil {
		return nil, SourceResult{
			Source: name,
			Status: StatusMalformed,
			Err:    &SourceError{Source: name, Err: fmt.Errorf("%w: %v", ErrSourceMalformed, err)},
		}
	}
	return recs, SourceResult{Source: name, Status: StatusLoaded, Rows: len(recs)}
}
