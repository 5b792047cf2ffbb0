package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Load failure kinds. A *LoadError always unwraps to exactly one of these.
var (
	ErrSourceUnavailable = errors.New("wrong file or file path")
	ErrMalformedDocument = errors.New("wrong document format")
	ErrMissingField      = errors.New("invalid document key")
	ErrInvalidIdentifier = errors.New("invalid CIF")
)

var ErrRecordNotFound = errors.New("could not find enterprise with this CIF")

// LoadError describes why a record could not be loaded from a source.
type LoadError struct {
	Kind   error
	Source string
	Field  string
	Err    error
}

func NewLoadError(kind error, source string, cause error) *LoadError {
	return &LoadError{Kind: kind, Source: source, Err: cause}
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Source != "" {
		fmt.Fprintf(&b, " in '%s'", e.Source)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %q)", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName maps an error to a stable label for logs and metrics.
func KindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrMalformedDocument):
		return "malformed_document"
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidIdentifier):
		return "invalid_identifier"
	default:
		return "unknown"
	}
}
