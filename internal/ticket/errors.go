package ticket

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrMissingAPIKey is returned when the model-backed extractor is
	// constructed without an API key in the environment.
	ErrMissingAPIKey = errors.New("missing model API key: set OPENROUTER_API_KEY or OPENAI_API_KEY environment variable")

	// ErrEmptyText is returned when an extractor is given empty input text.
	ErrEmptyText = errors.New("no text to extract ticket details from")

	// ErrNoJSONObject is returned when the model response contains no
	// recognizable JSON object after fence stripping.
	ErrNoJSONObject = errors.New("no JSON braces found in model response")
)

// StructuredExtractionError is returned when the model response could not be
// parsed as JSON after fence-stripping and brace-slicing. It is not retried
// here; retry policy belongs to the caller.
type StructuredExtractionError struct {
	// Err is the underlying error (repair or JSON decode failure).
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *StructuredExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("invalid JSON format returned from model: %s: %v", e.Details, e.Err)
	}
	return fmt.Sprintf("invalid JSON format returned from model: %v", e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StructuredExtractionError) Unwrap() error {
	return e.Err
}

// SchemaViolationError is returned when parsed data does not satisfy the
// invoice shape: a required top-level field is missing, flights is not a
// sequence, or a flight element is not an object. Leaf-field type mismatches
// never raise this error; they are coerced instead.
type SchemaViolationError struct {
	// Field names the offending location when known (e.g. "flights").
	Field string

	// Message describes the violation. Flight element messages carry the
	// 1-based index of the offending element.
	Message string
}

// Error implements the error interface.
func (e *SchemaViolationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema violation at %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema violation: %s", e.Message)
}
