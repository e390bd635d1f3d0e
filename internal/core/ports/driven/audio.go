package driven

import "context"

// BlobStore turns audio bytes into local playback URLs.
// URLs are ephemeral: they are valid for the life of the process or until
// revoked, and are never persisted.
type BlobStore interface {
	// CreateURL stores the bytes and returns a playback URL for them.
	CreateURL(data []byte, mimeType string) (string, error)

	// Revoke releases a URL previously returned by CreateURL.
	// Unknown URLs are ignored.
	Revoke(url string) error

	// Retain releases every URL not in keep.
	Retain(keep []string) error
}

// Recorder captures audio from the default input device.
type Recorder interface {
	// Start begins capturing. Returns domain.ErrRecorderUnavailable if no
	// capture backend exists and domain.ErrInvalidInput if already recording.
	Start(ctx context.Context) error

	// Stop ends the capture and returns the recorded audio as WAV.
	// Returns domain.ErrNotRecording if Start was not called.
	Stop() ([]byte, error)

	// Recording reports whether a capture is in progress.
	Recording() bool
}

// Player plays an audio URL on the local output device.
type Player interface {
	// Play blocks until playback completes or ctx is cancelled.
	Play(ctx context.Context, url string) error
}

// Watcher reports changes to persisted data made by other processes.
type Watcher interface {
	// Events delivers one value per detected change burst.
	Events() <-chan struct{}

	// Close stops watching and closes the events channel.
	Close() error
}
