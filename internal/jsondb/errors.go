package jsondb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/r3labs/diff"
)

// ErrConflict is returned when an existing record differs from the record
// this tool would generate for the same key.
var ErrConflict = errors.New("jsondb: existing record differs from generated record")

// ConflictError describes a divergent record.
// It unwraps to ErrConflict.
type ConflictError struct {
	Store string
	Key   string

	// Changes lists the differences from the stored record to the
	// generated one. It is empty when the records could not be compared
	// field by field (for example a string where an object was expected).
	Changes diff.Changelog
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("jsondb: %s record %q differs from generated record", e.Store, e.Key)
	if len(e.Changes) == 0 {
		return msg
	}

	parts := make([]string, 0, len(e.Changes))
	for _, c := range e.Changes {
		parts = append(parts, fmt.Sprintf("%s %s: %v -> %v", c.Type, strings.Join(c.Path, "."), c.From, c.To))
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap lets errors.Is match ErrConflict.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
