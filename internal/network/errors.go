package network

import "fmt"

// ValidationError reports structurally invalid input data, such as an
// exposure naming an unknown bank or a duplicated edge.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid network: " + e.Reason
}

func validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
