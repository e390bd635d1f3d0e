package driving

import "context"

// PlaybackService plays message audio on the local output device.
type PlaybackService interface {
	// Play blocks until the audio at url finishes or ctx is cancelled.
	Play(ctx context.Context, url string) error
}
