package chat

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gridiron-chat/internal/category"
	"gridiron-chat/internal/loader"
	"gridiron-chat/internal/metrics"
	"gridiron-chat/internal/render"
	"gridiron-chat/internal/resolve"
	"gridiron-chat/internal/roster"
)

type Kind string

const (
	KindOK            Kind = "ok"
	KindEmptyQuery    Kind = "empty_query"
	KindNoMatch       Kind = "no_match"
	KindNoCategory    Kind = "no_category"
	KindEmptyCategory Kind = "empty_category"
)

const (
	MsgEmptyQuery    = "Please provide a player name."
	MsgNoCategory    = "Please specify a valid category (offense, defense, special, penalties, or all)."
	MsgEmptyCategory = "No players found in the specified category."
)

func NoMatchMessage(term string) string {
	return fmt.Sprintf("I couldn't find any players with \"%s\" in their name. Try another name!", term)
}

// Answer is the outcome of one query. Every outcome carries user-facing text;
// Kind tells adapters which one it was.
type Answer struct {
	Kind    Kind   `json:"kind"`
	Text    string `json:"response"`
	Matches int    `json:"matches"`
}

// Loading holds what is needed to build the roster. Load turns it into a Ready.
type Loading struct {
	Loader  *loader.Loader
	Sources []string
	Matcher resolve.Matcher
	Log     *zap.Logger
}

// Load reads and merges every source. Missing or malformed sources only show
// up in the report; an empty roster is still a usable Ready.
func (l *Loading) Load(ctx context.Context) (*Ready, loader.Report, error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	sources := l.Sources
	if len(sources) == 0 {
		sources = loader.DefaultSources
	}
	recs, rep, err := l.Loader.Load(ctx, sources)
	if err != nil {
		return nil, rep, err
	}
	set := roster.Merge(recs)
	metrics.Players.Set(float64(set.Len()))
	log.Info("loaded unique players from CSV files",
		zap.Int("players", set.Len()),
		zap.Int("sources_loaded", rep.Loaded()),
		zap.Int("sources_total", len(sources)))
	if set.Len() == 0 {
		log.Warn("roster is empty; every query will report no matches")
	}
	return NewReady(set, l.Matcher, log), rep, nil
}

// Ready answers queries against a roster that never changes. It is safe for
// concurrent use.
type Ready struct {
	set     *roster.Set
	players []*roster.Player
	matcher resolve.Matcher
	log     *zap.Logger
}

func NewReady(set *roster.Set, matcher resolve.Matcher, log *zap.Logger) *Ready {
	if matcher == nil {
		matcher = resolve.Fuzzy{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ready{set: set, players: set.Players(), matcher: matcher, log: log}
}

func (r *Ready) Len() int { return r.set.Len() }

// Search returns the players matching term, best match first.
func (r *Ready) Search(term string) []*roster.Player {
	if term == "" {
		return nil
	}
	return r.matcher.Match(r.players, term)
}

func (r *Ready) Answer(raw string) Answer {
	start := time.Now()
	a := r.answer(raw)
	metrics.QueriesTotal.WithLabelValues(string(a.Kind)).Inc()
	metrics.QueryDurationSeconds.Observe(time.Since(start).Seconds())
	r.log.Debug("answered query",
		zap.String("query", raw),
		zap.String("kind", string(a.Kind)),
		zap.Int("matches", a.Matches))
	return a
}

func (r *Ready) answer(raw string) Answer {
	q, ok := ParseQuery(raw)
	if !ok {
		return Answer{Kind: KindEmptyQuery, Text: MsgEmptyQuery}
	}

	found := r.Search(q.SearchTerm)
	if len(found) == 0 {
		return Answer{Kind: KindNoMatch, Text: NoMatchMessage(q.SearchTerm)}
	}

	selected := category.Select(q.Keywords)
	if selected.Empty() {
		return Answer{Kind: KindNoCategory, Text: MsgNoCategory, Matches: len(found)}
	}

	text, ok := render.Render(found, selected)
	if !ok {
		return Answer{Kind: KindEmptyCategory, Text: MsgEmptyCategory, Matches: len(found)}
	}
	return Answer{Kind: KindOK, Text: text, Matches: len(found)}
}
