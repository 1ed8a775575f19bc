package domain

import (
	"errors"
	"fmt"
)

type ModelErrorKind string

const (
	ModelErrorNetwork     ModelErrorKind = "network"
	ModelErrorRateLimit   ModelErrorKind = "rate_limit"
	ModelErrorSafetyBlock ModelErrorKind = "safety_block"
	ModelErrorUnknown     ModelErrorKind = "unknown"
)

// ModelError is returned by ChatModel and ChatHandle implementations.
type ModelError struct {
	Kind ModelErrorKind
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("model error (%s)", e.Kind)
	}
	return fmt.Sprintf("model error (%s): %v", e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

func NewModelError(kind ModelErrorKind, err error) *ModelError {
	return &ModelError{Kind: kind, Err: err}
}

// ModelErrorKindOf returns the kind of a model failure, or ModelErrorUnknown
// when err does not carry one.
func ModelErrorKindOf(err error) ModelErrorKind {
	var me *ModelError
	if errors.As(err, &me) {
		return me.Kind
	}
	return ModelErrorUnknown
}
