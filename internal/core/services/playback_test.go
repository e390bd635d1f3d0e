package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

type mockPlayer struct {
	played []string
	err    error
}

func (m *mockPlayer) Play(_ context.Context, url string) error {
	m.played = append(m.played, url)
	return m.err
}

func TestPlaybackService_Play(t *testing.T) {
	player := &mockPlayer{}
	svc := NewPlaybackService(player)

	assert.NoError(t, svc.Play(context.Background(), "file:///tmp/a.wav"))
	assert.Equal(t, []string{"file:///tmp/a.wav"}, player.played)
}

func TestPlaybackService_Errors(t *testing.T) {
	assert.ErrorIs(t, NewPlaybackService(nil).Play(context.Background(), "x"), domain.ErrPlayerUnavailable)

	player := &mockPlayer{}
	assert.ErrorIs(t, NewPlaybackService(player).Play(context.Background(), ""), domain.ErrNoAudio)
	assert.Empty(t, player.played)

	failing := &mockPlayer{err: errors.New("boom")}
	assert.EqualError(t, NewPlaybackService(failing).Play(context.Background(), "x"), "boom")
}
