package notion

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is returned when adding an item already present in a multi-valued property.
	ErrDuplicate = errors.New("duplicate item")
	// ErrNotFound is returned when removing an item absent from a multi-valued property.
	ErrNotFound = errors.New("no such item")
	// ErrReadOnly is returned when composing a value for a kind computed by the server.
	ErrReadOnly = errors.New("property is read-only")
	// ErrNoValue is returned when a numeric operation involves an empty number.
	ErrNoValue = errors.New("number has no value")
	// ErrDivisionByZero is returned by Number.Div.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNotFinite is returned when a number is NaN or infinite.
	ErrNotFinite = errors.New("number is not finite")
	// ErrNotRange is returned by Date.Contains when the date has no end.
	ErrNotRange = errors.New("date is not a range")
	// ErrInvalidID is returned when a reference cannot be resolved to an object ID.
	ErrInvalidID = errors.New("invalid object ID")
)

// APIError represents a Notion API error response.
type APIError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// SessionError reports a transport-level failure talking to the Notion API.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return "notion session: " + e.Op + ": " + e.Err.Error()
}

func (e *SessionError) Unwrap() error {
	return e.Err
}
