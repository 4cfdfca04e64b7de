package chat

import "strings"

// Query is the parsed form of one chat message: the first word is the name to
// search for, the remaining words are category keywords.
type Query struct {
	SearchTerm string
	Keywords   []string
}

// ParseQuery lower-cases raw and splits it on whitespace. ok is false when raw
// holds no words at all.
func ParseQuery(raw string) (q Query, ok bool) {
	words := strings.Fields(strings.ToLower(raw))
	if len(words) == 0 {
		return Query{}, false
	}
	return Query{SearchTerm: words[0], Keywords: words[1:]}, true
}
