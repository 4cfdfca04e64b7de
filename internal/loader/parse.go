package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gridiron-chat/internal/store"
)

type Field struct {
	Name  string
	Value string
}

// Record is one data row of one source, fields in header order.
type Record struct {
	Source string
	Fields []Field
}

func (r Record) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Parse turns CSV bytes into records. The first row names the fields; every
// header and value is whitespace-trimmed and blank lines are skipped. A header
// that appears twice keeps its first position but takes the value of its last
// column. Leading space before a quoted field and stray quotes are tolerated; any other
// structural error (ragged rows) fails the whole file.
func Parse(source string, data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(store.StripBOM(data)))
	// Exports put a space after the delimiter, also before quoted fields.
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	names := make([]string, 0, len(header))
	lastCol := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, seen := lastCol[h]; !seen {
			names = append(names, h)
		}
		lastCol[h] = i
	}

	var out []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		fields := make([]Field, len(names))
		for i, name := range names {
			fields[i] = Field{Name: name, Value: strings.TrimSpace(row[lastCol[name]])}
		}
		out = append(out, Record{Source: source, Fields: fields})
	}
	return out, nil
}
