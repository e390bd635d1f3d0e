package services

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
)

// Ensure PlaybackService implements the interface.
var _ driving.PlaybackService = (*PlaybackService)(nil)

// PlaybackService plays audio through a driven player.
type PlaybackService struct {
	player driven.Player
}

// NewPlaybackService creates a playback service. player may be nil.
func NewPlaybackService(player driven.Player) *PlaybackService {
	return &PlaybackService{player: player}
}

// Play plays the audio at url.
func (s *PlaybackService) Play(ctx context.Context, url string) error {
	if s.player == nil {
		return domain.ErrPlayerUnavailable
	}
	if url == "" {
		return domain.ErrNoAudio
	}
	return s.player.Play(ctx, url)
}
