package framework

import (
	"fmt"
	"strings"
)

// AggregatedError collects the errors of one iteration or of a Runner.
type AggregatedError struct {
	Errors []error
}

// Add appends errs, skipping nil and flattening nested
// AggregatedErrors.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if agg, ok := err.(*AggregatedError); ok {
			e.Errors = append(e.Errors, agg.Errors...)
			continue
		}
		e.Errors = append(e.Errors, err)
	}
	return e
}

// Aggregate returns nil when nothing was added, and the only error
// when one was added.
func (e *AggregatedError) Aggregate() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}

func (e *AggregatedError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is and errors.As look through the aggregate.
func (e *AggregatedError) Unwrap() []error {
	return e.Errors
}
