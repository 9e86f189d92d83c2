// Package models defines the output rows of the model database and the
// errors shared by the layers that produce and serve them.
package models

import "fmt"

// ValidationError reports an input value that cannot be used.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s=%q: %s", e.Field, e.Value, e.Message)
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}
