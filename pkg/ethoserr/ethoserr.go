// Package ethoserr defines the SDK's error taxonomy: a single exported
// error type carrying one of a fixed set of Kinds plus kind-specific
// fields, so callers can branch with errors.As/errors.Is instead of
// string-matching messages.
package ethoserr

import (
	"errors"
	"fmt"
)

// Kind enumerates the error categories in spec.md §7.
type Kind int

const (
	// InvalidArgument: a documented input constraint was violated
	// (null/blank required field, bad API key shape, out-of-range
	// expiry or limit, empty builder field).
	InvalidArgument Kind = iota
	// Transport: connection refused, DNS failure, timeout, TLS
	// handshake failure, or I/O error on the stream.
	Transport
	// HTTPResponse: a non-2xx status, carrying status code and body.
	HTTPResponse
	// ResourceNotFound: the requested resource is absent from the catalog.
	ResourceNotFound
	// UnsupportedVersion: the requested version isn't supported by the resource.
	UnsupportedVersion
	// Decode: the response body failed to parse against the expected shape.
	Decode
	// Subscription: an aggregated failure from the notification poll engine.
	Subscription
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case Transport:
		return "transport"
	case HTTPResponse:
		return "http_response"
	case ResourceNotFound:
		return "resource_not_found"
	case UnsupportedVersion:
		return "unsupported_version"
	case Decode:
		return "decode"
	case Subscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// Error is the SDK's single exported error type. Every field beyond
// Kind and Message is optional and only populated for the kinds that
// document it.
type Error struct {
	Kind    Kind
	Message string

	// HTTPResponse
	StatusCode int
	Body       string

	// ResourceNotFound / UnsupportedVersion
	Resource string
	Version  string

	// Field / class, for InvalidArgument from the filter builder.
	Field string
	Class string

	// Cause wraps the underlying error (transport failure, decode
	// failure, subscriber panic-equivalent).
	Cause error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap lets errors.Is/errors.As see through to Cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports equality by Kind, so callers can write
// errors.Is(err, ethoserr.New(ethoserr.Transport, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New constructs a plain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// InvalidArg builds an InvalidArgument error naming the offending
// field and the target class, matching spec.md §4.4's validation
// failure contract for the filter builder.
func InvalidArg(class, field, message string) *Error {
	return &Error{Kind: InvalidArgument, Message: message, Field: field, Class: class}
}

// NotFound builds a ResourceNotFound error for the named resource.
func NotFound(resource string) *Error {
	return &Error{
		Kind:     ResourceNotFound,
		Message:  fmt.Sprintf("resource %q not found in catalog", resource),
		Resource: resource,
	}
}

// Unsupported builds an UnsupportedVersion error for the named
// resource and requested version string.
func Unsupported(resource, version string) *Error {
	return &Error{
		Kind:     UnsupportedVersion,
		Message:  fmt.Sprintf("resource %q does not support version %q", resource, version),
		Resource: resource,
		Version:  version,
	}
}

// HTTPStatus builds an HTTPResponse error from a non-2xx response.
func HTTPStatus(status int, body string) *Error {
	if body == "" {
		body = httpReason(status)
	}
	return &Error{Kind: HTTPResponse, Message: "gateway returned a non-success status", StatusCode: status, Body: body}
}

func httpReason(status int) string {
	switch status {
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	case 502:
		return "Bad Gateway"
	case 503:
		return "Service Unavailable"
	default:
		return "Unknown Error"
	}
}
