package event

import "errors"

var ErrNotFound = errors.New("event not found")

// ValidationError is returned before any write when input is rejected.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
