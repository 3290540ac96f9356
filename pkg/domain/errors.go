package domain

import (
	"errors"
	"fmt"
)

// ErrSessionTerminated is returned when navigating a session that already quit.
var ErrSessionTerminated = errors.New("session terminated")

// ErrInvalidSelection is the sentinel wrapped by every ValidationError.
var ErrInvalidSelection = errors.New("invalid selection")

// ServiceError reports a failure of an external collaborator
// (generator, critic, embedder, index, catalog, locker).
// It is fatal for the session.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ValidationError reports malformed user input for a selection prompt.
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s selection %q: %s", e.Field, e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSelection }
