package todo

import (
	"fmt"

	"github.com/amonks/td/internal/ids"
)

// MinIDLength is the shortest identifier accepted from external sources.
const MinIDLength = 8

// ID uniquely identifies a todo within a backend's dataset.
type ID string

// NewID generates a fresh 12-character lowercase alphanumeric ID.
func NewID() ID {
	return ID(ids.MustGenerate(ids.DefaultLength))
}

// ParseID validates an untrusted string as an ID.
func ParseID(value string) (ID, error) {
	if value == "" {
		return "", &ValidationError{Field: "id", Reason: "ID cannot be empty"}
	}
	if len(value) < MinIDLength || !ids.IsAlphanumeric(value) {
		return "", &ValidationError{
			Field:  "id",
			Reason: fmt.Sprintf("%q is not an alphanumeric string of at least %d characters", value, MinIDLength),
		}
	}
	return ID(value), nil
}

// String returns the ID as a plain string.
func (id ID) String() string {
	return string(id)
}
