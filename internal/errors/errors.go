// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure fluxcell surfaces carries a machine-readable Kind so the command
// layer can decide whether to print a hint and carry on or abort the command.
//
// Configuration and not-found errors are recoverable at the prompt; query errors
// are passed through from the InfluxDB client untouched and only wrapped so the
// caller can tell them apart.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Configuration indicates a missing or unresolvable url, token or org.
	Configuration Kind = "configuration_error"
	// NotFound indicates a connection descriptor that matches no registered connection.
	NotFound Kind = "not_found"
	// Query wraps whatever the InfluxDB query API returned.
	Query Kind = "query_error"
	// Persist indicates a persist request that cannot be carried out.
	Persist Kind = "persist_error"
	// Network indicates the server could not be reached or refused the health check.
	Network Kind = "network_error"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E of the same kind with no message set,
// which lets callers write errors.Is(err, errors.New(errors.NotFound, "")).
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Newf is New with fmt formatting.
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *E of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
