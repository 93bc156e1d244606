package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/wesleyorama2/apibench/pkg/jsonpath"
)

var (
	// ErrCanceled is returned by cancellation-aware strategies when the
	// caller's context is done before or during the call.
	ErrCanceled = errors.New("call canceled")

	// ErrUnsuccessfulStatus is returned when a response status is outside
	// the 2xx range. It carries no body detail.
	ErrUnsuccessfulStatus = errors.New("response status code does not indicate success")
)

// APIError is returned when the server answered with a non-success status.
// It keeps the raw body so callers can inspect server-provided detail.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, detail)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Detail returns the human readable message of a JSON error body
// (message, error, title or detail), or the raw body when it is not JSON.
func (e *APIError) Detail() string {
	if msg, ok := jsonpath.FirstString([]byte(e.Body), "$.message", "$.error", "$.title", "$.detail"); ok {
		return msg
	}
	return e.Body
}

func unsuccessfulStatus(code int) error {
	return fmt.Errorf("%w: %d", ErrUnsuccessfulStatus, code)
}

// Kind tags the failure mode of a strategy call.
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindCancellation
	KindUnsuccessfulStatus
	KindStructuredAPI
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindCancellation:
		return "cancellation"
	case KindUnsuccessfulStatus:
		return "unsuccessful-status"
	case KindStructuredAPI:
		return "structured-api"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf classifies an error returned by any strategy.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var apiErr *APIError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &apiErr):
		return KindStructuredAPI
	case errors.Is(err, ErrUnsuccessfulStatus):
		return KindUnsuccessfulStatus
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancellation
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return KindDecode
	default:
		return KindTransport
	}
}

// Outcome pairs the value of a call with its classified fault, for callers
// that prefer branching on a tag over inspecting the error chain.
type Outcome[T any] struct {
	Value T
	Err   error
	Kind  Kind
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Capture runs call and wraps its result in an Outcome.
func Capture[T any](ctx context.Context, call func(context.Context) (T, error)) Outcome[T] {
	value, err := call(ctx)
	if err != nil {
		var zero T
		return Outcome[T]{Value: zero, Err: err, Kind: KindOf(err)}
	}
	return Outcome[T]{Value: value}
}
