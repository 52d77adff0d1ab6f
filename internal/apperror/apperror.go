// Package apperror defines the failure kinds surfaced by the route planner and
// their mapping onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags a failure so handlers can choose a response without string matching.
type Kind int

const (
	UnexpectedError Kind = iota
	MissingParameter
	InvalidCoordinateFormat
	PlaceNotFound
	GeocodingServiceUnavailable
	NoRouteFound
	RoutingServiceUnavailable
	PersistenceUnavailable
	PersistenceWriteFailed
)

var kindNames = map[Kind]string{
	UnexpectedError:             "UnexpectedError",
	MissingParameter:            "MissingParameter",
	InvalidCoordinateFormat:     "InvalidCoordinateFormat",
	PlaceNotFound:               "PlaceNotFound",
	GeocodingServiceUnavailable: "GeocodingServiceUnavailable",
	NoRouteFound:                "NoRouteFound",
	RoutingServiceUnavailable:   "RoutingServiceUnavailable",
	PersistenceUnavailable:      "PersistenceUnavailable",
	PersistenceWriteFailed:      "PersistenceWriteFailed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HTTPStatus is the response status used for a failure of this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case MissingParameter, InvalidCoordinateFormat, PlaceNotFound, PersistenceUnavailable:
		return http.StatusBadRequest
	case NoRouteFound:
		return http.StatusNotFound
	case GeocodingServiceUnavailable, RoutingServiceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged failure. Message is safe to return to API clients; Err
// carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a tagged failure without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a tagged failure around err.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err. Untagged errors are UnexpectedError.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return UnexpectedError
}

// Is reports whether err is tagged with kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
