package poseseq

import (
	"errors"
	"fmt"

	"github.com/hupe1980/poseseq/similarity"
)

var (
	// ErrInvalidQuery is matched by every *InvalidQueryError.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNotFound is returned by SearchBuilder.First when nothing matches.
	ErrNotFound = errors.New("no match found")
)

// InvalidQueryError indicates a query that cannot be executed.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type InvalidQueryError struct {
	Reason string
	cause  error
}

func (e *InvalidQueryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid query: %s: %v", e.Reason, e.cause)
	}
	return "invalid query: " + e.Reason
}

func (e *InvalidQueryError) Unwrap() error { return e.cause }

// Is reports whether target is ErrInvalidQuery.
func (e *InvalidQueryError) Is(target error) bool { return target == ErrInvalidQuery }

func invalidQuery(format string, args ...any) error {
	return &InvalidQueryError{Reason: fmt.Sprintf(format, args...)}
}

// translateError lifts lower-level errors raised while preparing a query
// into the root error vocabulary.
func translateError(reason string, err error) error {
	if err == nil {
		return nil
	}

	var de *similarity.DomainError
	if errors.As(err, &de) {
		return &InvalidQueryError{Reason: reason, cause: err}
	}

	return err
}
