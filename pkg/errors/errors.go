package errors

import (
	"errors"
	"sort"
	"strings"
)

// ErrStorageLocked the store stayed locked for every retry attempt.
var ErrStorageLocked = errors.New("storage is locked, retries exhausted")

// NonFieldKey collects errors that belong to the form as a whole.
const NonFieldKey = "__all__"

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field has at least one message.
func (e *ValidationError) Has(field string) bool {
	return e != nil && len(e.Fields[field]) > 0
}

// HasErrors reports whether any message was added.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns e when it holds messages, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
