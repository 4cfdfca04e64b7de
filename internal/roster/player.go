package roster

import (
	"strings"

	"gridiron-chat/internal/loader"
)

// Identity and grade columns the renderer and classifier depend on by name.
const (
	FieldName     = "Name"
	FieldTeam     = "Team"
	FieldNumber   = "#"
	FieldPosition = "POS"

	FieldOffenseGrade      = "OFF GRD"
	FieldDefenseGrade      = "DEF GRD"
	FieldSpecialTeamsGrade = "ST GRD"
	FieldPenalties         = "PEN"
)

// Player is the merged view of every row that shares a join key. Fields keep
// the order in which they were first merged; values follow last-write-wins.
type Player struct {
	seq    int
	key    string
	fields []loader.Field
	index  map[string]int
}

func newPlayer(seq int, key, name string) *Player {
	p := &Player{seq: seq, key: key, index: make(map[string]int)}
	p.set(FieldName, name)
	return p
}

func (p *Player) set(name, value string) {
	if i, ok := p.index[name]; ok {
		p.fields[i].Value = value
		return
	}
	p.index[name] = len(p.fields)
	p.fields = append(p.fields, loader.Field{Name: name, Value: value})
}

// Key is the lower-cased name used to join rows across sources.
func (p *Player) Key() string { return p.key }

// Seq is the player's position in first-seen order within its Set.
func (p *Player) Seq() int { return p.seq }

func (p *Player) Name() string     { return p.Get(FieldName) }
func (p *Player) Team() string     { return p.Get(FieldTeam) }
func (p *Player) Number() string   { return p.Get(FieldNumber) }
func (p *Player) Position() string { return p.Get(FieldPosition) }

// Get returns the field value, or "" when the field was never merged.
func (p *Player) Get(name string) string {
	if i, ok := p.index[name]; ok {
		return p.fields[i].Value
	}
	return ""
}

// Has reports whether the field is present with a non-empty value.
func (p *Player) Has(name string) bool {
	return p.Get(name) != ""
}

func (p *Player) Fields() []loader.Field {
	out := make([]loader.Field, len(p.fields))
	copy(out, p.fields)
	return out
}

func joinKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
