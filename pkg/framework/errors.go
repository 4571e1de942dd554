package framework

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// AggregatedError collects the errors of runners and the resources
// they own, e.g. a run error and the error closing its port.
type AggregatedError struct {
	Errors []error
}

// Error implements error
func (e *AggregatedError) Error() string {
	msgs := make([]string, len(e.Errors))
	for n, err := range e.Errors {
		msgs[n] = err.Error()
	}
	return strconv.Itoa(len(e.Errors)) + " errors: " + strings.Join(msgs, "; ")
}

// Add adds errors to be aggregated. nil will be skipped.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Aggregate returns nil if nothing is collected, the error itself if
// there's only one, or the AggregatedError.
func (e *AggregatedError) Aggregate() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}

// Is reports whether any collected error matches target.
func (e *AggregatedError) Is(target error) bool {
	for _, err := range e.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// As finds the first collected error matching target.
func (e *AggregatedError) As(target interface{}) bool {
	for _, err := range e.Errors {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}

// dropCanceled strips cancellation, which is how runners normally stop.
func dropCanceled(err error) error {
	if agg, ok := err.(*AggregatedError); ok {
		var rest AggregatedError
		for _, e := range agg.Errors {
			rest.Add(dropCanceled(e))
		}
		return rest.Aggregate()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
