package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when no cloud account is signed in
	ErrNotAuthenticated = errors.New("not authenticated against the cloud account")

	// ErrApplicationNotFound is returned when the target application does not exist
	ErrApplicationNotFound = errors.New("target application not found")

	// ErrInvalidRequest is returned for malformed provisioning input
	ErrInvalidRequest = errors.New("invalid provisioning request")

	// ErrUnsupportedRegion is returned for unknown region codes
	ErrUnsupportedRegion = errors.New("unsupported region code")

	// ErrEmptyIdentifier is returned when a create-or-fetch call yields no usable ID
	ErrEmptyIdentifier = errors.New("provider returned an empty resource identifier")

	// ErrRunNotFound is returned when a run ID is not found
	ErrRunNotFound = errors.New("provisioning run not found")
)

// StepError ties a failure to the workflow step that produced it
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError wraps err with the failing step
func NewStepError(step Step, err error) *StepError {
	return &StepError{Step: step, Err: err}
}
