// Package errkind is the structured error system used across the engine,
// trimmed from the teacher's internal/errors package down to the seven
// error kinds spec.md §7 defines: no source-location tracking, no
// suggestion/example/doc-link registry, just a Kind, a message, and an
// optional wrapped cause.
package errkind

import "fmt"

// Kind is one of the seven error categories spec.md §7 names.
type Kind string

const (
	HookOutOfContext   Kind = "hook_out_of_context"
	HookOrderViolation Kind = "hook_order_violation"
	RenderFailure      Kind = "render_failure"
	EventHandlerFailure Kind = "event_handler_failure"
	ImportSourceFailure Kind = "import_source_failure"
	ProtocolFailure     Kind = "protocol_failure"
	ClientDisconnected  Kind = "client_disconnected"
)

// Error is a structured error carrying a Kind for callers that need to
// branch on error category (e.g. the renderer deciding whether a failure
// is fatal to the connection or just to one component).
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New builds an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Wrapped: cause}
}

// Is reports whether err is an *Error of the given kind, unwrapping once.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		if u, isWrapper := err.(interface{ Unwrap() error }); isWrapper {
			e, ok = u.Unwrap().(*Error)
		}
	}
	return ok && e.Kind == kind
}
