package library

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
)

// Kind classifies a failure so callers can decide how to react without
// inspecting messages.
type Kind int

const (
	KindRuntime Kind = iota
	KindNotFound
	KindDuplicateKey
	KindValidation
	KindAccessDenied
	KindNotGranted
	KindDatabase
	KindCurrentlyUnavailable
	KindSerialization
)

var kindNames = map[Kind]string{
	KindRuntime:              "runtime",
	KindNotFound:             "not_found",
	KindDuplicateKey:         "duplicate_key",
	KindValidation:           "validation",
	KindAccessDenied:         "access_denied",
	KindNotGranted:           "not_granted",
	KindDatabase:             "database",
	KindCurrentlyUnavailable: "currently_unavailable",
	KindSerialization:        "serialization",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ReasonVersionConflict marks a rejected conditional update.
const ReasonVersionConflict = "version_conflict"

// Error is the single error type returned across the library core.
type Error struct {
	Kind       Kind
	Message    string
	ReasonCode string
	Retryable  bool
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if e.ReasonCode != "" {
		msg += " (" + e.ReasonCode + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func DuplicateKey(format string, args ...any) *Error {
	return &Error{Kind: KindDuplicateKey, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a rejected request. Business-rule rejections carry
// reason code "400".
func Validation(reason, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), ReasonCode: reason}
}

func AccessDenied(format string, args ...any) *Error {
	return &Error{Kind: KindAccessDenied, Message: fmt.Sprintf(format, args...)}
}

func NotGranted(format string, args ...any) *Error {
	return &Error{Kind: KindNotGranted, Message: fmt.Sprintf(format, args...)}
}

func Database(err error, retryable bool, format string, args ...any) *Error {
	return &Error{Kind: KindDatabase, Message: fmt.Sprintf(format, args...), Retryable: retryable, Err: err}
}

func Unavailable(reason string, retryable bool, format string, args ...any) *Error {
	return &Error{Kind: KindCurrentlyUnavailable, Message: fmt.Sprintf(format, args...), ReasonCode: reason, Retryable: retryable}
}

// VersionConflict is returned when a conditional update loses against a
// concurrent writer.
func VersionConflict(table, id string, expected int64) *Error {
	return Unavailable(ReasonVersionConflict, false, "%s %s changed since version %d", table, id, expected)
}

func Serialization(err error, format string, args ...any) *Error {
	return &Error{Kind: KindSerialization, Message: fmt.Sprintf(format, args...), Err: err}
}

func Runtime(err error, format string, args ...any) *Error {
	return &Error{Kind: KindRuntime, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in the chain, or KindRuntime
// for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRuntime
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// IsVersionConflict reports whether err is a lost optimistic update.
func IsVersionConflict(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindCurrentlyUnavailable && e.ReasonCode == ReasonVersionConflict
}

// FromStatus converts a transport status code into the taxonomy.
func FromStatus(code int, msg string) *Error {
	reason := strconv.Itoa(code)
	switch {
	case code == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: msg, ReasonCode: reason}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &Error{Kind: KindAccessDenied, Message: msg, ReasonCode: reason}
	case code == http.StatusConflict:
		return Unavailable(reason, false, "%s", msg)
	case code == http.StatusTooManyRequests:
		return Unavailable(reason, true, "%s", msg)
	case code >= 400 && code < 500:
		return Validation(reason, "%s", msg)
	default:
		return &Error{Kind: KindDatabase, Message: msg, ReasonCode: reason, Retryable: true}
	}
}

// FromTransport classifies a failure to reach a dependency at all.
func FromTransport(err error, format string, args ...any) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindCurrentlyUnavailable, Message: fmt.Sprintf(format, args...), ReasonCode: "timeout", Retryable: true, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return Runtime(err, format, args...)
	}
	return &Error{Kind: KindCurrentlyUnavailable, Message: fmt.Sprintf(format, args...), ReasonCode: "dispatch", Retryable: true, Err: err}
}
