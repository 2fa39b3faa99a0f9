package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrIntegrity reports a broken parent chain: a row whose parent is
	// missing. It is a data-corruption signal, never an authorization result.
	ErrIntegrity = errors.New("integrity violation")
)

// NotFoundError reports an absent row. Parent is set when the row was the
// requested parent of a create.
type NotFoundError struct {
	Entity string
	ID     int64
	Parent bool
}

func (e *NotFoundError) Error() string {
	if e.Parent {
		return fmt.Sprintf("parent %s %d not found", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NotFound(kind Kind, id int64) error {
	return &NotFoundError{Entity: kind.String(), ID: id}
}

func ParentNotFound(kind Kind, id int64) error {
	return &NotFoundError{Entity: kind.String(), ID: id, Parent: true}
}

// HasDependents is the guard's refusal to orphan children.
func HasDependents(children string) error {
	return &ConflictError{Reason: "has dependents: " + children}
}

// IsParentNotFound reports whether err is a NotFound for the parent of a
// create rather than for the target itself.
func IsParentNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Parent
}
