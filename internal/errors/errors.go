package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind categorizes failures so the CLI boundary can decide what aborts
// a repository's analysis, what aborts the whole run, and what only
// degrades coverage.
type Kind int

const (
	// KindMalformedInput - the user-supplied URL could not be parsed.
	KindMalformedInput Kind = iota
	// KindUpstreamUnavailable - non-success status or transport failure
	// from the host API at metadata or tree-listing granularity.
	KindUpstreamUnavailable
	// KindPartialContentLoss - one or more blob fetches failed; analysis
	// proceeds with whatever content was obtained.
	KindPartialContentLoss
	// KindConfigurationMissing - rule table absent or unparsable; fatal
	// for the run.
	KindConfigurationMissing
)

func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed_input"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindPartialContentLoss:
		return "partial_content_loss"
	case KindConfigurationMissing:
		return "configuration_missing"
	default:
		return "unknown"
	}
}

// Error is a categorized error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so callers can use errors.Is with a sentinel
// constructed via New(kind, "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an existing error. Returns nil for
// a nil cause so call sites can wrap unconditionally.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, kind Kind, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// KindOf extracts the Kind from an error chain; untyped errors report as
// KindUpstreamUnavailable since transport failures are the common case.
func KindOf(err error) Kind {
	if err == nil {
		return KindUpstreamUnavailable
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUpstreamUnavailable
}

// Convenience constructors for the four categories.

func MalformedInputf(format string, args ...any) *Error {
	return Newf(KindMalformedInput, format, args...)
}

func UpstreamUnavailablef(format string, args ...any) *Error {
	return Newf(KindUpstreamUnavailable, format, args...)
}

func PartialContentLossf(format string, args ...any) *Error {
	return Newf(KindPartialContentLoss, format, args...)
}

func ConfigurationMissing(err error, message string) *Error {
	if err == nil {
		return New(KindConfigurationMissing, message)
	}
	return Wrap(err, KindConfigurationMissing, message)
}
