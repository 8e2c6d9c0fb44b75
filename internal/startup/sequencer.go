package startup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"launchpad/internal/config"
	"launchpad/internal/container"
	"launchpad/internal/paths"
	"launchpad/internal/supervisor"
	"launchpad/internal/unpack"
	"launchpad/pkg/logging"
)

// ErrTimeout means the backend did not accept connections within its
// readiness budget.
var ErrTimeout = errors.New("backend readiness timeout")

// VectorStore keeps the vector database container running.
type VectorStore interface {
	EnsureRunning(ctx context.Context, spec container.Spec) error
	StopPublished(ctx context.Context, port int, legacyName string) []string
}

// PortProber waits for a loopback port.
type PortProber interface {
	Probe(ctx context.Context, port int, attempts int, delay time.Duration) bool
}

// BundleUnpacker extracts the dependency archive once.
type BundleUnpacker interface {
	EnsureUnpacked(ctx context.Context, archive, dest string) (unpack.Outcome, error)
}

// BackendLocator finds the backend entry file.
type BackendLocator interface {
	Resolve() (paths.Pair, error)
}

// BackendLauncher starts the backend and registers its handle.
type BackendLauncher interface {
	Launch(ctx context.Context, req supervisor.Request) (*supervisor.Handle, error)
}

// Components are the collaborators a Sequencer drives.
type Components struct {
	VectorStore VectorStore
	Prober      PortProber
	Unpacker    BundleUnpacker
	Locator     BackendLocator
	Launcher    BackendLauncher
	Registry    *supervisor.Registry
}

// Sequencer runs the startup phases in order.
type Sequencer struct {
	cfg       config.LaunchpadConfig
	publisher *Publisher
	c         Components

	// environ supplies the inherited environment.
	environ func() []string

	teardownOnce sync.Once
}

// NewSequencer wires a Sequencer. Registry defaults to a fresh one.
func NewSequencer(cfg config.LaunchpadConfig, publisher *Publisher, c Components) *Sequencer {
	if c.Registry == nil {
		c.Registry = supervisor.NewRegistry()
	}
	return &Sequencer{
		cfg:       cfg,
		publisher: publisher,
		c:         c,
		environ:   os.Environ,
	}
}

// Publisher returns the status publisher the sequence reports to.
func (s *Sequencer) Publisher() *Publisher {
	return s.publisher
}

// Start runs the sequence on its own goroutine. The returned channel
// receives Run's result and is then closed.
func (s *Sequencer) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.Run(ctx)
	}()
	return done
}

// Run executes every phase synchronously. It returns nil when the backend
// became ready, the context error when exit interrupted the wait and
// ErrTimeout otherwise; step failures along the way are only logged.
func (s *Sequencer) Run(ctx context.Context) error {
	s.publisher.SetPhase(PhaseInitializing, initialMessage)

	s.startVectorStore(ctx)
	s.waitVectorStore(ctx)
	s.unpackBundle(ctx)
	s.startBackend(ctx)
	return s.waitBackend(ctx)
}

func (s *Sequencer) vectorStoreLabel() string {
	if s.cfg.VectorStore.Label != "" {
		return s.cfg.VectorStore.Label
	}
	return s.cfg.VectorStore.ContainerName
}

func (s *Sequencer) startVectorStore(ctx context.Context) {
	vs := s.cfg.VectorStore
	s.publisher.SetPhase(PhaseVectorStore, fmt.Sprintf("Starting %s vector database...", s.vectorStoreLabel()))

	err := s.c.VectorStore.EnsureRunning(ctx, container.Spec{
		Label:         s.vectorStoreLabel(),
		Name:          vs.ContainerName,
		Image:         vs.Image,
		HostPort:      vs.HostPort,
		ContainerPort: vs.ContainerPort,
		Volume:        vs.Volume,
		VolumeTarget:  vs.VolumeTarget,
		RestartPolicy: vs.RestartPolicy,
	})
	if err != nil {
		logging.Warn("Startup", "Vector store step failed: %v", err)
	}
}

func (s *Sequencer) waitVectorStore(ctx context.Context) {
	vs := s.cfg.VectorStore
	label := s.vectorStoreLabel()
	s.publisher.SetPhase(PhaseVectorStoreWait, fmt.Sprintf("Waiting for %s on port %d...", label, vs.HostPort))

	if s.c.Prober.Probe(ctx, vs.HostPort, vs.ReadyAttempts, vs.ReadyInterval) {
		s.publisher.AddLog(fmt.Sprintf("✓ %s is ready", label))
		return
	}
	s.publisher.AddLog(fmt.Sprintf("⚠ %s not ready after %s, vector search may be unavailable",
		label, budget(vs.ReadyAttempts, vs.ReadyInterval)))
}

func (s *Sequencer) unpackBundle(ctx context.Context) {
	b := s.cfg.Bundle
	s.publisher.SetPhase(PhaseUnpacking, "Checking bundled dependencies...")

	root := s.cfg.Paths.ResourceDir
	if root == "" {
		s.publisher.AddLog("⚠ Could not resolve resource dir, skipping dependency bundle")
		return
	}
	archive := filepath.Join(root, filepath.FromSlash(b.Archive))
	dest := filepath.Join(root, filepath.FromSlash(b.Destination))
	if _, err := s.c.Unpacker.EnsureUnpacked(ctx, archive, dest); err != nil {
		logging.Warn("Startup", "Unpack step failed: %v", err)
	}
}

func (s *Sequencer) startBackend(ctx context.Context) {
	be := s.cfg.Backend
	s.publisher.SetPhase(PhaseBackendStarting, "Starting Node.js backend server...")

	pair, err := s.c.Locator.Resolve()
	if err != nil {
		s.publisher.AddLog(fmt.Sprintf("⚠ Backend entry point not found (expected %s/%s)", be.Subdir, be.Entry))
		logging.Debug("Startup", "%v", err)
		return
	}

	overrides, err := config.LoadOverrides(filepath.Join(pair.WorkDir, be.OverrideFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Warn("Startup", "No override file: %v", err)
		} else {
			s.publisher.AddLog(fmt.Sprintf("⚠ %v", err))
		}
	}

	storageRoot := ResolveStorageRoot(overrides, be.StorageRootKey, pair.WorkDir, be.Marker, s.cfg.Paths.AppDataDir)
	if err := os.MkdirAll(storageRoot, 0o755); err != nil {
		s.publisher.AddLog(fmt.Sprintf("⚠ Could not create storage dir: %v", err))
	}

	defaults := make(map[string]string, len(be.DefaultEnv)+1)
	for k, v := range be.DefaultEnv {
		defaults[k] = v
	}
	if be.StorageRootKey != "" {
		defaults[be.StorageRootKey] = storageRoot
	}
	env := BuildEnvironment(s.environ(), defaults, overrides, be.CredentialKey, be.CredentialPlaceholder)

	if be.CredentialKey != "" {
		if env.CredentialConfigured {
			s.publisher.AddLog(fmt.Sprintf("✓ %s loaded", be.CredentialKey))
		} else {
			s.publisher.AddLog(fmt.Sprintf("⚠ %s missing or placeholder, AI chat will be disabled", be.CredentialKey))
		}
	}

	if ctx.Err() != nil {
		s.publisher.AddLog("⚠ Shutting down, backend not started")
		return
	}
	_, err = s.c.Launcher.Launch(ctx, supervisor.Request{
		Entry:     pair.Entry,
		WorkDir:   pair.WorkDir,
		Env:       env.List(),
		LogDir:    filepath.Dir(storageRoot),
		StdoutLog: be.StdoutLog,
		StderrLog: be.StderrLog,
	})
	if err != nil {
		logging.Warn("Startup", "Backend launch failed: %v", err)
	}
}

func (s *Sequencer) waitBackend(ctx context.Context) error {
	be := s.cfg.Backend
	s.publisher.SetPhase(PhaseBackendWait, fmt.Sprintf("Waiting for backend on port %d...", be.Port))

	if s.c.Prober.Probe(ctx, be.Port, be.ReadyAttempts, be.ReadyInterval) {
		s.publisher.SetPhase(PhaseReady, "✓ Backend is ready!")
		return nil
	}
	if err := ctx.Err(); err != nil {
		s.publisher.SetPhase(PhaseTimeout, "⚠ Shutting down before the backend was ready")
		return err
	}
	s.publisher.SetPhase(PhaseTimeout, fmt.Sprintf("⚠ Backend did not start in %s, check %s",
		budget(be.ReadyAttempts, be.ReadyInterval), be.StdoutLog))
	return ErrTimeout
}

// Teardown stops the backend, if one was spawned, then the vector store
// container by its published port. It is safe to call at any point of the
// sequence and only acts once.
func (s *Sequencer) Teardown(ctx context.Context) {
	s.teardownOnce.Do(func() {
		Teardown(ctx, s.c.Registry, s.c.VectorStore, s.cfg.VectorStore.HostPort, s.cfg.VectorStore.ContainerName)
	})
}

// Teardown terminates the registered backend and stops every container
// publishing port, falling back to legacyName.
func Teardown(ctx context.Context, registry *supervisor.Registry, vs VectorStore, port int, legacyName string) {
	if registry != nil {
		if err := registry.Shutdown(); err != nil {
			logging.Error("Startup", err, "Failed to stop backend")
		}
	}
	if vs != nil {
		stopped := vs.StopPublished(ctx, port, legacyName)
		logging.Info("Startup", "Stopped containers on port %d: %v", port, stopped)
	}
}

func budget(attempts int, interval time.Duration) time.Duration {
	return time.Duration(attempts) * interval
}
