package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type errorKind int

const (
	kindInternal errorKind = iota
	kindNotFound
	kindConflict
	kindUnavailable
)

// storeError categorises persistence failures for the service layer.
type storeError struct {
	kind errorKind
	err  error
}

func (e *storeError) Error() string       { return e.err.Error() }
func (e *storeError) Unwrap() error       { return e.err }
func (e *storeError) IsNotFound() bool    { return e.kind == kindNotFound }
func (e *storeError) IsConflict() bool    { return e.kind == kindConflict }
func (e *storeError) IsUnavailable() bool { return e.kind == kindUnavailable }

func notFoundError(format string, args ...any) error {
	return &storeError{kind: kindNotFound, err: fmt.Errorf(format, args...)}
}

func conflictError(format string, args ...any) error {
	return &storeError{kind: kindConflict, err: fmt.Errorf(format, args...)}
}

// wrapError maps gorm errors onto categorised store errors.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &storeError{kind: kindNotFound, err: fmt.Errorf("%s: %w", op, err)}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &storeError{kind: kindConflict, err: fmt.Errorf("%s: %w", op, err)}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &storeError{kind: kindUnavailable, err: fmt.Errorf("%s: %w", op, err)}
	default:
		return &storeError{kind: kindInternal, err: fmt.Errorf("%s: %w", op, err)}
	}
}
