package generator

import "errors"

// ErrCancelled is returned when the user cancels during review.
var ErrCancelled = errors.New("cancelled by user")

// StepError attaches the intent of a failed step to its cause.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}
