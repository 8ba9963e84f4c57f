package schema

import "fmt"

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all validation errors if err is an AggregateError,
// or the error itself as a single-element slice if it is a ValidationError.
func ValidationErrors(err error) []error {
	switch e := err.(type) {
	case *AggregateError:
		return e.Errors
	case *ValidationError:
		return []error{e}
	}
	return nil
}

// ViolatedFields returns the field names involved in the validation failure,
// in the order they were reported.
func ViolatedFields(err error) []string {
	var keys []string
	for _, e := range ValidationErrors(err) {
		if ve, ok := e.(*ValidationError); ok {
			keys = append(keys, ve.Key)
		}
	}
	return keys
}
