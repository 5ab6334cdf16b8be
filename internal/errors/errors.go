package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used to mark error categories. Callers match on these
// with errors.Is via the predicate helpers below.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrHTTPClient = errors.New("upstream http error")
	ErrInternal   = errors.New("internal error")
)

// ErrorBuilder builds an error with optional hints and reportable details.
// Terminate the chain with Mark to attach a sentinel category.
type ErrorBuilder struct {
	err error
}

// NewError starts a builder from a new error message
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

// WithError starts a builder wrapping an existing error
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &ErrorBuilder{err: err}
}

// WithHint attaches a user-facing hint to the error
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

// WithHintf attaches a formatted user-facing hint to the error
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches structured key value details for logs and
// error reports
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	for k, v := range details {
		b.err = errors.WithDetail(b.err, fmt.Sprintf("%s=%v", k, v))
	}
	return b
}

// Mark finalizes the builder and marks the error with the given sentinel
func (b *ErrorBuilder) Mark(mark error) error {
	return errors.Mark(b.err, mark)
}

// Err finalizes the builder without a category mark
func (b *ErrorBuilder) Err() error {
	return b.err
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// Hint returns the first hint attached to the error, if any
func Hint(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}
