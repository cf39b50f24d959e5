// Package validation formats enum values for error messages.
package validation

import (
	"fmt"
	"strings"
)

// FormatValidValues joins string-like values for error messages.
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// UnknownValueReason describes an input that is not one of values, e.g.
// `unknown priority "urgent" (valid: low, medium, high)`.
func UnknownValueReason[T ~string](noun string, value string, values []T) string {
	return fmt.Sprintf("unknown %s %q (valid: %s)", noun, value, FormatValidValues(values))
}
