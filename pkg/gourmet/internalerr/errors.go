package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for stage-level failures. Any of these aborts a pipeline run.
var (
	ErrMissingInput  = errors.New("missing input artifact")
	ErrFetch         = errors.New("fetch dataset")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrEmptyCorpus   = errors.New("empty corpus")
)

// RowParseError describes one malformed record. Readers skip and count these;
// they never abort a run.
type RowParseError struct {
	Line int
	Err  error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }

// MissingInput wraps ErrMissingInput with the artifact path.
func MissingInput(path string) error {
	return fmt.Errorf("%w: %s (run the earlier stage first)", ErrMissingInput, path)
}
