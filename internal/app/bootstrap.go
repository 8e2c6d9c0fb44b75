package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launchpad/internal/config"
	"launchpad/internal/paths"
	"launchpad/pkg/logging"
)

const (
	// teardownTimeout bounds the container stop on exit.
	teardownTimeout = 30 * time.Second
	// sequenceDrainTimeout bounds how long exit waits for a cancelled
	// sequence to return, so it cannot spawn a backend after teardown.
	sequenceDrainTimeout = 5 * time.Second
)

// Application is the main application structure that bootstraps and runs launchpad
type Application struct {
	config   *Config
	services *Services
}

// NewApplication creates and initializes a new application instance
func NewApplication(cfg *Config) (*Application, error) {
	// Initialize logging for CLI output (will be replaced for TUI mode)
	logging.InitForCLI(cfg.LogLevel(), os.Stderr)

	lc, err := LoadConfiguration(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.LaunchpadConfig = &lc

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// LoadConfiguration loads the layered configuration, or configPath alone
// when set, and fills in the installation directories.
func LoadConfiguration(configPath string) (config.LaunchpadConfig, error) {
	var lc config.LaunchpadConfig
	var err error
	if configPath != "" {
		lc, err = config.LoadConfigFromPath(configPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load launchpad configuration from path: %s", configPath)
			return lc, fmt.Errorf("failed to load launchpad configuration from path %s: %w", configPath, err)
		}
		logging.Info("Bootstrap", "Loaded configuration from custom path: %s", configPath)
	} else {
		lc, err = config.LoadConfig()
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load launchpad configuration")
			return lc, fmt.Errorf("failed to load launchpad configuration: %w", err)
		}
		logging.Debug("Bootstrap", "Loaded configuration using layered approach")
	}

	if lc.Paths.ResourceDir == "" {
		if dir, err := paths.ExecutableDir(); err == nil {
			lc.Paths.ResourceDir = dir
		} else {
			logging.Warn("Bootstrap", "Could not resolve resource dir: %v", err)
		}
	}
	if lc.Paths.AppDataDir == "" {
		if dir, err := config.GetUserConfigDir(); err == nil {
			lc.Paths.AppDataDir = dir
		} else {
			logging.Warn("Bootstrap", "Could not resolve app data dir: %v", err)
		}
	}
	return lc, nil
}

// Run executes the application in the appropriate mode until ctx is done, a
// mode ends or the process is interrupted, terminated or hung up. Services
// are torn down before it returns, whatever phase startup reached.
func (a *Application) Run(ctx context.Context) error {
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stopSignals()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if srv := a.services.StatusServer; srv != nil {
		if err := srv.Start(ctx); err != nil {
			logging.Warn("Bootstrap", "Status endpoint disabled: %v", err)
		} else {
			defer func() {
				if err := srv.Stop(context.Background()); err != nil {
					logging.Debug("Bootstrap", "Status endpoint stop: %v", err)
				}
			}()
		}
	}

	done := a.services.Sequencer.Start(ctx)
	defer a.shutdown(cancel, done)

	if a.config.NoTUI {
		return a.runCLIMode(ctx, done)
	}
	return a.runTUIMode(ctx)
}

// Services returns the wired components.
func (a *Application) Services() *Services {
	return a.services
}

func (a *Application) shutdown(cancelSequence context.CancelFunc, done <-chan error) {
	cancelSequence()
	select {
	case <-done:
	case <-time.After(sequenceDrainTimeout):
		logging.Warn("Bootstrap", "Startup sequence still running, tearing down anyway")
	}

	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	logging.Info("Bootstrap", "Stopping services")
	a.services.Sequencer.Teardown(ctx)
	if a.services.Journal != nil {
		if err := a.services.Journal.Close(); err != nil {
			logging.Debug("Bootstrap", "Closing run journal: %v", err)
		}
	}
}

// runCLIMode runs the application in non-interactive CLI mode
func (a *Application) runCLIMode(ctx context.Context, done <-chan error) error {
	return runCLIMode(ctx, a.config, a.services, done, os.Stdout)
}

// runTUIMode runs the application in interactive TUI mode
func (a *Application) runTUIMode(ctx context.Context) error {
	return runTUIMode(ctx, a.config, a.services)
}
