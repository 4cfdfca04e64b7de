// Package resolve finds the players whose names match a search term.
//
// Two matchers are provided. Substring keeps every player whose lower-cased
// name contains the term, in roster order. Fuzzy ranks subsequence matches by
// score and always includes substring hits, so it never returns fewer players
// than Substring for the same term.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"gridiron-chat/internal/roster"
)

const (
	KindSubstring = "substring"
	KindFuzzy     = "fuzzy"
)

// Matcher returns the players matching term, best match first. Callers must
// not pass an empty term.
type Matcher interface {
	Match(players []*roster.Player, term string) []*roster.Player
}

func New(kind string) (Matcher, error) {
	switch kind {
	case KindSubstring:
		return Substring{}, nil
	case KindFuzzy, "":
		return Fuzzy{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher %q", kind)
	}
}

type Substring struct{}

func (Substring) Match(players []*roster.Player, term string) []*roster.Player {
	term = strings.ToLower(term)
	var out []*roster.Player
	for _, p := range players {
		if strings.Contains(p.Key(), term) {
			out = append(out, p)
		}
	}
	return out
}

type Fuzzy struct{}

type keySource []*roster.Player

func (k keySource) String(i int) string { return k[i].Key() }
func (k keySource) Len() int            { return len(k) }

func (Fuzzy) Match(players []*roster.Player, term string) []*roster.Player {
	term = strings.ToLower(term)

	type hit struct {
		index     int
		substring bool
		score     int
	}
	hits := make(map[int]*hit)
	for _, m := range fuzzy.FindFrom(term, keySource(players)) {
		hits[m.Index] = &hit{index: m.Index, score: m.Score}
	}
	for i, p := range players {
		if !strings.Contains(p.Key(), term) {
			continue
		}
		if h, ok := hits[i]; ok {
			h.substring = true
		} else {
			hits[i] = &hit{index: i, substring: true}
		}
	}

	ranked := make([]*hit, 0, len(hits))
	for _, h := range hits {
		ranked = append(ranked, h)
	}
	sort.Slice(ranked, func(a, b int) bool {
		ha, hb := ranked[a], ranked[b]
		if ha.substring != hb.substring {
			return ha.substring
		}
		if ha.score != hb.score {
			return ha.score > hb.score
		}
		return ha.index < hb.index
	})

	out := make([]*roster.Player, len(ranked))
	for i, h := range ranked {
		out[i] = players[h.index]
	}
	return out
}
