package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/iamNilotpal/hashflow/internal/core/domain"
)

// EngineError records where an engine failure happened and how to classify it.
// It unwraps to the underlying error, so errors.Is works with the domain sentinels.
type EngineError struct {
	Err       error
	Operation string
	Timestamp time.Time
	Kind      domain.ErrorKind
}

// NewEngineError wraps err for operation and classifies it.
// A nil err yields nil.
func NewEngineError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var ee *EngineError
	if errors.As(err, &ee) {
		return err
	}

	return &EngineError{
		Err:       err,
		Operation: operation,
		Timestamp: time.Now(),
		Kind:      domain.KindOf(err),
	}
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("[%v] %s: %v", e.Kind, e.Operation, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsRetryAble returns whether the user can retry the failed operation.
func (e *EngineError) IsRetryAble() bool {
	return e.Kind.IsRetryable()
}

// AsEngineError extracts an EngineError from err, or nil.
func AsEngineError(err error) *EngineError {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee
	}
	return nil
}
