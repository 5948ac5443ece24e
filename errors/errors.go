// Package errors defines the error model shared by the decoder, the
// resolver, and the encoder.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeXMLSyntax             = "xml_syntax"
	CodeUnrecognizedTag       = "unrecognized_tag"
	CodeBadReference          = "bad_reference"
	CodeBadURN                = "bad_urn"
	CodeUnresolvableReference = "unresolvable_reference"
	CodeUncollectedItems      = "uncollected_items"
	CodeMissingStructure      = "missing_structure"
	CodeStructureMismatch     = "structure_mismatch"
	CodeUnknownGroup          = "unknown_group"
	CodeNotImplemented        = "not_implemented"
)

// Error is a single decode or encode failure, tagged with a stable code
// and the element path at which it occurred.
type Error struct {
	Code    string // One of the codes listed above.
	Path    string // Slash-joined element path (for example: /Structure/Structures/Codelists).
	Message string
	Cause   error // Optional: underlying error.
}

func (e *Error) Error() string {
	s := e.Code
	if e.Path != "" {
		s += " at " + e.Path
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error with a formatted message.
func New(code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and path to an underlying error.
func Wrap(code, path string, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Code: code, Path: path, Message: msg, Cause: cause}
}

// AsError extracts an *Error from an error chain using errors.As
// internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its
// chain.
func HasCode(err error, code string) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}
