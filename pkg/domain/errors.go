package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateDeclaration is returned when an action name is declared twice.
var ErrDuplicateDeclaration = errors.New("duplicate declaration")

// ErrUndeclaredAction is returned when an action name was never declared.
var ErrUndeclaredAction = errors.New("undeclared action")

// ErrMalformedEffect is returned by Effect.Perform for descriptors missing their function.
var ErrMalformedEffect = errors.New("malformed effect")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// DeclarationError names the action behind a registry failure.
type DeclarationError struct {
	Name string
	Err  error
}

func (e *DeclarationError) Error() string {
	if errors.Is(e.Err, ErrDuplicateDeclaration) {
		return fmt.Sprintf("cannot redeclare action %q", e.Name)
	}
	if errors.Is(e.Err, ErrUndeclaredAction) {
		return fmt.Sprintf("cannot find action %q, it was not declared", e.Name)
	}
	return fmt.Sprintf("action %q: %v", e.Name, e.Err)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}
