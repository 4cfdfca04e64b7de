package category

import (
	"strings"

	"gridiron-chat/internal/roster"
)

type Category int

const (
	Offense Category = iota
	Defense
	SpecialTeams
	Penalties
)

// All lists the categories in render order.
var All = []Category{Offense, Defense, SpecialTeams, Penalties}

// AllKeyword selects every category when it appears as a whole keyword.
const AllKeyword = "all"

type info struct {
	name       string
	trigger    string
	gradeField string
	title      string
	gradeLabel string
}

var infos = [...]info{
	Offense:      {"offense", "offense", roster.FieldOffenseGrade, "Offense Players", "Overall Grade"},
	Defense:      {"defense", "defense", roster.FieldDefenseGrade, "Defense Players", "Overall Grade"},
	SpecialTeams: {"special_teams", "special", roster.FieldSpecialTeamsGrade, "Special Teams Players", "Overall Grade"},
	Penalties:    {"penalties", "penalties", roster.FieldPenalties, "Players with Penalties", "Penalties"},
}

func (c Category) String() string { return infos[c].name }

// Trigger is the keyword substring that selects c.
func (c Category) Trigger() string { return infos[c].trigger }

// GradeField is the signature column: a player belongs to c iff it is non-empty.
func (c Category) GradeField() string { return infos[c].gradeField }

func (c Category) Title() string      { return infos[c].title }
func (c Category) GradeLabel() string { return infos[c].gradeLabel }

// Set is a bit set of categories.
type Set uint8

func SetOf(cs ...Category) Set {
	var s Set
	for _, c := range cs {
		s |= 1 << c
	}
	return s
}

func (s Set) Has(c Category) bool { return s&(1<<c) != 0 }
func (s Set) Empty() bool         { return s == 0 }

func (s Set) List() []Category {
	var out []Category
	for _, c := range All {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Of derives a player's categories from which grade fields it carries.
func Of(p *roster.Player) Set {
	var s Set
	for _, c := range All {
		if p.Has(c.GradeField()) {
			s |= SetOf(c)
		}
	}
	return s
}

// Select maps query keywords to the categories to display. No keywords, or the
// keyword "all", selects everything. Otherwise a category is selected when any
// keyword contains its trigger. The result may be empty.
func Select(keywords []string) Set {
	if len(keywords) == 0 {
		return SetOf(All...)
	}
	for _, k := range keywords {
		if strings.ToLower(k) == AllKeyword {
			return SetOf(All...)
		}
	}
	var s Set
	for _, c := range All {
		for _, k := range keywords {
			if strings.Contains(strings.ToLower(k), c.Trigger()) {
				s |= SetOf(c)
				break
			}
		}
	}
	return s
}
