package ticket

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema is the shape contract a model response must satisfy before
// it reaches the normalizer. It is deliberately permissive: only the three
// required fields and the sequence type of flights are enforced, leaf value
// types are left to the coercion rules.
const responseSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["bookingReference", "passengerName", "flights"],
	"properties": {
		"flights": {"type": "array"}
	}
}`

var compiledResponseSchema = jsonschema.MustCompileString("ticket-response.json", responseSchema)

// validateResponseShape checks a decoded model response against the minimal
// response contract. Violations are reported as *SchemaViolationError so the
// caller can distinguish a malformed model answer from transport failures.
func validateResponseShape(doc map[string]any) error {
	err := compiledResponseSchema.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &SchemaViolationError{Message: err.Error()}
	}

	leaf := leafValidationError(ve)
	return &SchemaViolationError{
		Field:   strings.TrimPrefix(leaf.InstanceLocation, "/"),
		Message: leaf.Message,
	}
}

// leafValidationError walks to the deepest cause, which names the concrete
// offending location instead of the generic root message.
func leafValidationError(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
