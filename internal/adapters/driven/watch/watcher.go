// Package watch reports changes to the vfw data directory made by other
// processes, so long-running views can refresh.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.Watcher = (*Watcher)(nil)

// DefaultDebounce coalesces bursts such as a SQLite transaction commit.
const DefaultDebounce = 250 * time.Millisecond

// ErrClosed is returned when watching a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Config configures a Watcher.
type Config struct {
	// Dirs are the directories to watch. Each must exist.
	Dirs []string

	// Suffixes limits events to files with these suffixes. Empty means all.
	Suffixes []string

	// Debounce is the quiet period before an event is delivered.
	Debounce time.Duration
}

// Watcher delivers one event per burst of file changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	suffixes []string
	debounce time.Duration
	events   chan struct{}

	closeOnce sync.Once
	fsOnce    sync.Once
	fsErr     error
	done      chan struct{}
	stopped   chan struct{}
}

// New starts watching. The watcher stops when ctx is cancelled or Close is
// called; either releases the fsnotify watcher and closes the Events channel.
func New(ctx context.Context, cfg Config) (*Watcher, error) {
	if len(cfg.Dirs) == 0 {
		return nil, errors.New("watch: no directories")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for _, dir := range cfg.Dirs {
		info, err := os.Stat(dir)
		if err != nil {
			fs.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		if !info.IsDir() {
			fs.Close()
			return nil, fmt.Errorf("watch %s: not a directory", dir)
		}
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w := &Watcher{
		fs:       fs,
		suffixes: cfg.Suffixes,
		debounce: cfg.Debounce,
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Events delivers one value per detected change burst.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.closeFS()
		<-w.stopped
	})
	return err
}

func (w *Watcher) closeFS() error {
	w.fsOnce.Do(func() {
		w.fsErr = w.fs.Close()
	})
	return w.fsErr
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.stopped)
	defer close(w.events)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			if err := w.closeFS(); err != nil {
				logger.Warn("close watcher: %v", err)
			}
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)
		case <-fire:
			fire = nil
			select {
			case w.events <- struct{}{}:
			default:
			}
		}
	}
}

// relevant filters out attribute-only changes and unwatched file types.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if len(w.suffixes) == 0 {
		return true
	}
	name := filepath.Base(event.Name)
	for _, s := range w.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
