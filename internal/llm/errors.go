package llm

import (
	"errors"
	"fmt"
	"time"
)

// GenerationError indicates the upstream generation capability failed.
type GenerationError struct {
	Model   string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed (%s): %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Model, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates a generation call exceeded its configured timeout.
type TimeoutError struct {
	Model   string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation timed out after %s (%s)", e.Timeout, e.Model)
}

// IsTimeout reports whether err is (or wraps) a generation timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
