package domain

import "errors"

var (
	// ErrInvalidInput is returned before any upstream call when a request is
	// missing required fields or carries a value that cannot be normalized.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSearchCreationFailed means the upstream did not hand back a search job.
	ErrSearchCreationFailed = errors.New("search creation failed")

	// ErrDetailsRequestFailed means the upstream did not hand back a trip-details job.
	ErrDetailsRequestFailed = errors.New("details request failed")

	// ErrUpstreamJobFailed means a polled job reported a terminal error state.
	ErrUpstreamJobFailed = errors.New("upstream job failed")

	// ErrPollTimeout means a polled job did not finish within the attempt budget.
	ErrPollTimeout = errors.New("poll timeout")
)

// ValidationError carries a user-facing message for a rejected input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return ErrInvalidInput.Error() + ": " + e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
