package config

import (
	"fmt"
	"strings"
)

// ConfigError wraps a configuration failure: a bad flag, a missing plan
// file, or a malformed value. These are always fatal before execution
// begins.
type ConfigError struct {
	Reason     string
	Underlying error
}

func (e *ConfigError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("config: %s: %v", e.Reason, e.Underlying)
	}
	return fmt.Sprintf("config: %s", e.Reason)
}

// Unwrap returns the underlying error for errors.Is and errors.As support.
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// ValidationErrors accumulates independent validation failures so the
// caller sees every problem with a Config in a single pass instead of
// stopping at the first one.
type ValidationErrors struct {
	Errors []string
}

// Add appends a new error message to the list.
func (ve *ValidationErrors) Add(format string, args ...interface{}) {
	ve.Errors = append(ve.Errors, fmt.Sprintf(format, args...))
}

// IsEmpty reports whether any validation errors were recorded.
func (ve *ValidationErrors) IsEmpty() bool {
	return len(ve.Errors) == 0
}

// Error returns a string representation of all validation errors.
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "no validation errors"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0]
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors occurred:", len(ve.Errors)))
	for _, e := range ve.Errors {
		sb.WriteString(fmt.Sprintf("\n\t* %s", e))
	}
	return sb.String()
}
