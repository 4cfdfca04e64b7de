package loader

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSourceMalformed   = errors.New("source malformed")
)

// SourceError ties a per-source failure to the file it came from. Err always
// wraps one of the sentinel errors above.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
