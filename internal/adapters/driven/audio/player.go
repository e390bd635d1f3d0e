package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// Ensure Player implements the interface.
var _ driven.Player = (*Player)(nil)

// DefaultPlayers returns playback tools in preference order.
// Each takes the file path or URL as its final argument.
func DefaultPlayers() []Tool {
	tools := []Tool{
		{Name: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
		{Name: "mpv", Args: []string{"--no-video", "--really-quiet"}},
	}
	if runtime.GOOS == "darwin" {
		return append(tools, Tool{Name: "afplay"})
	}
	return append(tools, Tool{Name: "paplay"})
}

// localOnly lists players that cannot stream remote URLs.
var localOnly = map[string]bool{
	"paplay": true,
	"afplay": true,
	"aplay":  true,
}

// PlayerConfig configures a Player.
type PlayerConfig struct {
	// Command overrides tool detection (e.g. "mpv --no-video").
	Command string
}

// Player plays audio through an external tool.
type Player struct {
	tools    []Tool
	lookPath lookPathFunc
}

// NewPlayer creates a player.
func NewPlayer(cfg PlayerConfig) *Player {
	return &Player{
		tools:    withOverride(cfg.Command, DefaultPlayers()),
		lookPath: exec.LookPath,
	}
}

// Play runs the first available tool on url and waits for it to finish.
// file:// URLs are passed as paths; http(s) URLs are streamed by tools that
// support it.
func (p *Player) Play(ctx context.Context, url string) error {
	if url == "" {
		return domain.ErrNoAudio
	}

	target, remote := playTarget(url)
	tools := p.tools
	if remote {
		tools = streamingTools(tools)
	}

	tool, path, ok := resolve(tools, p.lookPath)
	if !ok {
		return domain.ErrPlayerUnavailable
	}

	args := append(append([]string{}, tool.Args...), target)
	logger.Debug("playing %s with %s", target, tool.Name)
	if err := exec.CommandContext(ctx, path, args...).Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("play with %s: %w", tool.Name, err)
	}
	return nil
}

// playTarget converts a URL to a tool argument and reports whether it is
// remote.
func playTarget(url string) (string, bool) {
	if path, ok := FilePath(url); ok {
		return path, false
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url, true
	}
	return url, false
}

func streamingTools(tools []Tool) []Tool {
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		if !localOnly[t.Name] {
			out = append(out, t)
		}
	}
	return out
}
