package repository

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
	ErrUnexpected = errors.New("unexpected")
)

// NotFoundError reports a missing todo, or a missing label referenced by a todo.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found, id is %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateError reports a label name collision. ID is the existing label.
type DuplicateError struct {
	ID int64
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate data, id is %d", e.ID)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// UnexpectedError wraps any backend failure outside the modeled cases.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

func (e *UnexpectedError) Is(target error) bool {
	return target == ErrUnexpected
}

func NotFound(id int64) error {
	return &NotFoundError{ID: id}
}

func Duplicate(id int64) error {
	return &DuplicateError{ID: id}
}

// Unexpected wraps err unless it is already one of the typed repository errors.
func Unexpected(err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	var dup *DuplicateError
	var unexpected *UnexpectedError
	if errors.As(err, &nf) || errors.As(err, &dup) || errors.As(err, &unexpected) {
		return err
	}
	return &UnexpectedError{Err: err}
}
