package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedKind indicates an unknown assistant kind.
	ErrUnsupportedKind = errors.New("unsupported assistant kind")

	// Authentication Errors.

	// ErrAuthRequired indicates a protected operation was attempted without a token.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the backend rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Backend Errors.

	// ErrBackend indicates the backend answered with a non-success status.
	ErrBackend = errors.New("backend error")

	// ErrRateLimited indicates the local request budget was exhausted.
	ErrRateLimited = errors.New("rate limited")

	// Audio Errors.

	// ErrNoAudio indicates an audio operation had no audio to work with.
	ErrNoAudio = errors.New("no audio attached")

	// ErrInvalidDataURL indicates a stored audio payload could not be decoded.
	ErrInvalidDataURL = errors.New("invalid base64 data url")

	// ErrRecorderUnavailable indicates no audio capture tool could be found.
	ErrRecorderUnavailable = errors.New("audio recorder unavailable")

	// ErrNotRecording indicates Stop was called on an idle recorder.
	ErrNotRecording = errors.New("recorder is not recording")

	// ErrPlayerUnavailable indicates no audio playback tool could be found.
	ErrPlayerUnavailable = errors.New("audio player unavailable")
)

// ErrMissingFields is returned when a form is submitted with blank fields.
var ErrMissingFields = fmt.Errorf("%w: please fill in all fields", ErrInvalidInput)

// BackendError carries the message the backend returned with a failure.
// Its text is shown to the user as is.
type BackendError struct {
	// Status is the HTTP status code.
	Status int

	// Message is the backend's error text, or a generic status line.
	Message string
}

// Error returns the backend message.
func (e *BackendError) Error() string {
	return e.Message
}

// Is matches ErrBackend, and ErrAuthInvalid for 401 responses.
func (e *BackendError) Is(target error) bool {
	if target == ErrBackend {
		return true
	}
	return target == ErrAuthInvalid && e.Status == 401
}
