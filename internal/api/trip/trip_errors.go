package trip

import (
	"errors"
	"fmt"
	"strings"
)

// Terminal per-request failures. Nothing here is retried; the handler
// maps each to an HTTP status and a client-safe message.
var (
	// ErrAPIKeyMissing short-circuits the request before any network I/O
	// when the generation credential is absent from the environment.
	ErrAPIKeyMissing = errors.New("generation API key is not configured")

	// ErrEmptyResponse marks an upstream reply with no usable content.
	ErrEmptyResponse = errors.New("no response content from model")
)

// MissingFieldsError enumerates the required request fields that were
// absent. It is raised before the prompt is built, so no upstream call
// is ever attempted for an incomplete request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ParseError wraps a JSON decode failure of the raw model text. Kept
// distinct from ShapeError so a syntactically broken reply is never
// reported as a structural one.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse AI response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError reports a parsed reply that violates the plan schema,
// naming the first invariant that failed.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "invalid response structure: " + e.Reason
}
