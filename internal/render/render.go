package render

import (
	"fmt"
	"sort"
	"strings"

	"gridiron-chat/internal/category"
	"gridiron-chat/internal/roster"
)

const Placeholder = "N/A"

var identityFields = map[string]bool{
	roster.FieldName:     true,
	roster.FieldTeam:     true,
	roster.FieldNumber:   true,
	roster.FieldPosition: true,
}

// Render writes one section per selected category that has at least one
// eligible player, in category order, players in roster order. Empty fields
// are never printed. ok is false when no section was written.
func Render(players []*roster.Player, selected category.Set) (text string, ok bool) {
	ordered := make([]*roster.Player, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq() < ordered[j].Seq() })

	var sections []string
	for _, c := range selected.List() {
		var eligible []*roster.Player
		for _, p := range ordered {
			if category.Of(p).Has(c) {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) == 0 {
			continue
		}
		sections = append(sections, section(c, eligible))
	}
	if len(sections) == 0 {
		return "", false
	}
	return strings.Join(sections, "\n\n"), true
}

func section(c category.Category, players []*roster.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):", c.Title(), len(players))
	for _, p := range players {
		fmt.Fprintf(&b, "\n- %s (%s, #%s, %s):",
			p.Name(), orPlaceholder(p.Team()), orPlaceholder(p.Number()), orPlaceholder(p.Position()))
		fmt.Fprintf(&b, "\n  %s: %s", c.GradeLabel(), p.Get(c.GradeField()))
		for _, f := range p.Fields() {
			if identityFields[f.Name] || f.Name == c.GradeField() || f.Value == "" {
				continue
			}
			fmt.Fprintf(&b, "\n  %s: %s", f.Name, f.Value)
		}
	}
	return b.String()
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
