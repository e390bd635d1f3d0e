// Command vfw is the terminal client for the Voice for the Weak legal
// assistant backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/vfw-cli/internal/adapters/driven/audio"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driven/backend/vfwapi"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driven/config/environment"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driven/watch"
	"github.com/custodia-labs/vfw-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/core/services"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	overrides, err := environment.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	logger.SetVerbose(overrides.Verbose)

	home := overrides.Home
	if home == "" {
		if home, err = file.DefaultDir(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
	}

	app, err := wire(home, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer app.close()

	cli.SetVersion(version)
	cli.SetServices(app.services)
	return cli.Execute(ctx)
}

// application holds the wired services and the resources to release.
type application struct {
	services cli.Services
	store    *sqlite.Store
}

func (a *application) close() {
	if err := a.store.Close(); err != nil {
		logger.Debug("closing store: %v", err)
	}
}

// wire builds the driven adapters and core services rooted at home.
func wire(home string, overrides *environment.Overrides) (*application, error) {
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := overrides.Apply(settings); err != nil {
		return nil, err
	}
	logger.Debug("api %s, timeout %s", settings.APIURL, settings.Timeout)

	dataDir := filepath.Join(home, "data")
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	blobs, err := audio.NewFileBlobStore(filepath.Join(home, "cache", "audio"))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open audio cache: %w", err)
	}

	timeout := settings.Timeout
	if timeout == 0 {
		timeout = -1
	}
	backend := vfwapi.NewClient(vfwapi.Config{
		BaseURL:   settings.APIURL,
		Timeout:   timeout,
		RateLimit: overrides.RateLimit,
		RateBurst: overrides.RateBurst,
	})

	var recorder driven.Recorder
	if r := audio.NewRecorder(audio.RecorderConfig{Command: overrides.Recorder}); r.Available() {
		recorder = r
	} else {
		logger.Debug("no audio capture tool found; recording disabled")
	}
	player := audio.NewPlayer(audio.PlayerConfig{Command: overrides.Player})

	authService := services.NewAuthService(backend, configStore)
	sessionService := services.NewSessionService(store.SessionStore(), configStore, blobs)
	if err := sessionService.PruneAudio(context.Background()); err != nil {
		logger.Warn("prune audio cache: %v", err)
	}
	chatService := services.NewChatService(sessionService, authService, backend, blobs, recorder)

	return &application{
		store: store,
		services: cli.Services{
			Auth:      authService,
			Sessions:  sessionService,
			Chat:      chatService,
			Schemes:   services.NewSchemeService(backend, authService),
			Settings:  settingsService,
			Dashboard: services.NewDashboardService(authService, sessionService),
			Playback:  services.NewPlaybackService(player),
			Watch:     watchDirs(dataDir, home),
		},
	}, nil
}

// watchDirs returns a WatchFunc over the history database and the config
// file, so a running TUI sees changes made by other vfw commands.
func watchDirs(dataDir, home string) cli.WatchFunc {
	return func(ctx context.Context) (cli.ChangeWatcher, error) {
		w, err := watch.New(ctx, watch.Config{
			Dirs:     []string{dataDir, home},
			Suffixes: []string{".db", ".db-wal", file.ConfigFileName},
		})
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
