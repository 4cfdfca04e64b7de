package store

import (
	"bytes"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type CSVStore struct {
	Root string // e.g. "data"
}

func NewCSVStore(root string) *CSVStore {
	return &CSVStore{Root: root}
}

func (s *CSVStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *CSVStore) Exists(rel string) bool {
	info, err := os.Stat(s.Path(rel))
	return err == nil && !info.IsDir()
}

// ReadRaw returns the file contents with a leading UTF-8 byte-order mark removed.
// Spreadsheet exports routinely carry one, and it would otherwise end up glued
// to the first header name.
func (s *CSVStore) ReadRaw(rel string) ([]byte, error) {
	b, err := os.ReadFile(s.Path(rel))
	if err != nil {
		return nil, err
	}
	return StripBOM(b), nil
}

func (s *CSVStore) WriteRaw(rel string, body []byte) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func StripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, utf8BOM)
}
