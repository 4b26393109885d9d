package provider

import "fmt"

// Kind classifies provider errors.
type Kind int

// Error kinds.
const (
	KindUnknown    Kind = iota
	KindAuth            // Authentication or authorization failed.
	KindNotFound        // The resource does not exist.
	KindValidation      // The request was rejected as invalid.
	KindThrottling      // The request was throttled.
	KindTransient       // A temporary failure on the provider side.
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindThrottling:
		return "throttling"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// An Error is returned when the provider rejects a request.
type Error struct {
	Kind    Kind
	Op      string // Operation that failed, for example CreateApplication.
	Code    string // Provider error code, if any.
	Message string // Message as reported by the provider.
	Err     error  // Underlying error, if any.
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error. errors.Cause stops at *Error.
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a provider error. KindUnknown is returned for
// errors that did not originate from the provider.
func KindOf(err error) Kind {
	for err != nil {
		if perr, ok := err.(*Error); ok {
			return perr.Kind
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		next := c.Cause()
		if next == err {
			break
		}
		err = next
	}
	return KindUnknown
}

// IsNotFound returns true if the error reports a missing resource.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsRetryable returns true if the error is temporary and the same request may
// succeed later.
func IsRetryable(err error) bool {
	k := KindOf(err)
	return k == KindThrottling || k == KindTransient
}

// NotFound creates a not found error.
func NotFound(op, format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Invalid creates a validation error.
func Invalid(op, format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}
