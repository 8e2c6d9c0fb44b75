// Package container keeps the auxiliary vector database running in a
// container managed through an existing engine CLI (docker or podman).
package container

import (
	"context"
	"fmt"
	"strings"

	"launchpad/pkg/logging"
)

// Reporter receives human readable progress lines.
type Reporter interface {
	AddLog(msg string)
}

// Prober answers whether a loopback port currently accepts connections.
type Prober interface {
	Reachable(ctx context.Context, port int) bool
}

// Spec describes the container EnsureRunning keeps alive.
type Spec struct {
	Label         string // display name used in log lines, e.g. "Qdrant"
	Name          string
	Image         string
	HostPort      int
	ContainerPort int
	Volume        string
	VolumeTarget  string
	RestartPolicy string
}

// Manager starts and stops the dependency container.
type Manager struct {
	engine   string
	runner   Runner
	prober   Prober
	reporter Reporter
}

// NewManager creates a Manager driving the given engine binary.
func NewManager(engine string, runner Runner, prober Prober, reporter Reporter) *Manager {
	return &Manager{engine: engine, runner: runner, prober: prober, reporter: reporter}
}

// EnsureRunning makes sure something serves spec.HostPort. It reuses a
// reachable instance, otherwise starts a stopped container by name,
// otherwise creates a fresh one. Safe to call on every launch.
func (m *Manager) EnsureRunning(ctx context.Context, spec Spec) error {
	label := spec.Label
	if label == "" {
		label = spec.Name
	}

	if m.prober.Reachable(ctx, spec.HostPort) {
		m.report("✓ %s already reachable on 127.0.0.1:%d (reusing existing instance)", label, spec.HostPort)
		return nil
	}

	res, err := m.runner.Run(ctx, m.engine, "start", spec.Name)
	if err != nil {
		m.report("⚠ %s start failed: %v (ensure the container engine is installed and running)", engineLabel(m.engine), err)
		return fmt.Errorf("%w: start %s: %v", ErrEngineUnavailable, spec.Name, err)
	}
	m.relay(res)
	if res.Success() {
		m.report("✓ %s container started: %s", label, spec.Name)
		return nil
	}
	// A non-zero exit may mean the container does not exist or the engine is
	// down; both fall through to create.
	logging.Debug("Container", "start %s exited %d, creating container", spec.Name, res.ExitCode)

	m.report("Creating %s container: %s", label, spec.Name)
	res, err = m.runner.Run(ctx, m.engine, runArgs(spec)...)
	if err != nil {
		m.report("⚠ %s run failed: %v", engineLabel(m.engine), err)
		return fmt.Errorf("%w: run %s: %v", ErrEngineUnavailable, spec.Name, err)
	}
	m.relay(res)
	if !res.Success() {
		m.report("⚠ Failed to create %s container (ensure the container engine is running)", label)
		return fmt.Errorf("%w: run %s exited %d", ErrEngineUnavailable, spec.Name, res.ExitCode)
	}
	m.report("✓ %s container created and started", label)
	return nil
}

// StopPublished stops every running container publishing port. When none is
// found it falls back to stopping legacyName. It returns the names it asked
// the engine to stop. Looking containers up by port also catches containers
// created under an older name.
func (m *Manager) StopPublished(ctx context.Context, port int, legacyName string) []string {
	var names []string
	res, err := m.runner.Run(ctx, m.engine, "ps", "--filter", fmt.Sprintf("publish=%d", port), "--format", "{{.Names}}")
	if err != nil {
		logging.Warn("Container", "Listing containers on port %d failed: %v", port, err)
	} else {
		for _, line := range strings.Split(res.Stdout, "\n") {
			if name := strings.TrimSpace(line); name != "" {
				names = append(names, name)
			}
		}
	}

	if len(names) == 0 {
		names = []string{legacyName}
		logging.Info("Container", "No container found publishing port %d, stopping %s", port, legacyName)
	}

	for _, name := range names {
		if _, err := m.runner.Run(ctx, m.engine, "stop", name); err != nil {
			logging.Warn("Container", "Stopping container %s failed: %v", name, err)
			continue
		}
		logging.Info("Container", "Stopped container: %s", name)
	}
	return names
}

func runArgs(spec Spec) []string {
	args := []string{"run", "-d", "--name", spec.Name}
	if spec.HostPort > 0 {
		containerPort := spec.ContainerPort
		if containerPort == 0 {
			containerPort = spec.HostPort
		}
		args = append(args, "-p", fmt.Sprintf("%d:%d", spec.HostPort, containerPort))
	}
	if spec.Volume != "" && spec.VolumeTarget != "" {
		args = append(args, "-v", fmt.Sprintf("%s:%s", spec.Volume, spec.VolumeTarget))
	}
	if spec.RestartPolicy != "" {
		args = append(args, "--restart", spec.RestartPolicy)
	}
	return append(args, spec.Image)
}

// relay copies engine output into the status log line by line.
func (m *Manager) relay(res Result) {
	prefix := engineLabel(m.engine)
	for _, line := range res.Lines() {
		m.report("  %s › %s", prefix, line)
	}
}

func (m *Manager) report(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if m.reporter != nil {
		m.reporter.AddLog(msg)
		return
	}
	logging.Info("Container", "%s", msg)
}
