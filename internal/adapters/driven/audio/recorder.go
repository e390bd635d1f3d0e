package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// Ensure Recorder implements the interface.
var _ driven.Recorder = (*Recorder)(nil)

// DefaultStopTimeout bounds how long Stop waits for the tool to exit.
const DefaultStopTimeout = 3 * time.Second

// DefaultRecorders returns capture tools in preference order.
// Each writes a WAV stream to stdout until interrupted.
func DefaultRecorders() []Tool {
	ffmpegInput := []string{"-f", "pulse", "-i", "default"}
	if runtime.GOOS == "darwin" {
		ffmpegInput = []string{"-f", "avfoundation", "-i", ":0"}
	}
	ffmpeg := append([]string{"-loglevel", "quiet"}, ffmpegInput...)
	ffmpeg = append(ffmpeg, "-f", "wav", "-")

	return []Tool{
		{Name: "arecord", Args: []string{"-q", "-f", "cd", "-t", "wav", "-"}},
		{Name: "rec", Args: []string{"-q", "-t", "wav", "-"}},
		{Name: "ffmpeg", Args: ffmpeg},
	}
}

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// Command overrides tool detection (e.g. "arecord -f S16_LE -t wav -").
	Command string

	// StopTimeout bounds how long Stop waits before killing the tool.
	StopTimeout time.Duration
}

// Recorder captures audio by running an external tool and collecting its
// stdout.
type Recorder struct {
	tools       []Tool
	lookPath    lookPathFunc
	stopTimeout time.Duration

	mu   sync.Mutex
	cmd  *exec.Cmd
	buf  *syncBuffer
	done chan error
}

// NewRecorder creates a recorder.
func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultStopTimeout
	}
	return &Recorder{
		tools:       withOverride(cfg.Command, DefaultRecorders()),
		lookPath:    exec.LookPath,
		stopTimeout: cfg.StopTimeout,
	}
}

// Available reports whether any capture tool is installed.
func (r *Recorder) Available() bool {
	_, _, ok := resolve(r.tools, r.lookPath)
	return ok
}

// Start launches the capture tool.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return fmt.Errorf("%w: already recording", domain.ErrInvalidInput)
	}

	tool, path, ok := resolve(r.tools, r.lookPath)
	if !ok {
		return domain.ErrRecorderUnavailable
	}

	buf := &syncBuffer{}
	cmd := exec.CommandContext(ctx, path, tool.Args...)
	cmd.Stdout = buf
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", tool.Name, err)
	}
	logger.Debug("recording with %s (pid %d)", tool.Name, cmd.Process.Pid)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	r.cmd = cmd
	r.buf = buf
	r.done = done
	return nil
}

// Stop interrupts the capture tool and returns everything it wrote.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	cmd, buf, done := r.cmd, r.buf, r.done
	r.cmd, r.buf, r.done = nil, nil, nil
	r.mu.Unlock()

	if cmd == nil {
		return nil, domain.ErrNotRecording
	}

	// Capture tools finalise their output on SIGINT.
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		logger.Debug("interrupt recorder: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			logger.Debug("recorder exited: %v", err)
		}
	case <-time.After(r.stopTimeout):
		logger.Warn("recorder did not exit after %s, killing", r.stopTimeout)
		_ = cmd.Process.Kill()
		<-done
	}

	data := buf.Bytes()
	if len(data) == 0 {
		return nil, domain.ErrNoAudio
	}
	return data, nil
}

// Recording reports whether a capture is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// syncBuffer accumulates chunks written by the capture process.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Bytes returns a copy of the accumulated data.
func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}
