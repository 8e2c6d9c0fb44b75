package app

import (
	"context"

	"launchpad/internal/config"
	"launchpad/internal/container"
	"launchpad/internal/probe"
)

// StopVectorStore stops every container publishing the vector store port,
// falling back to the configured container name. It serves `launchpad
// stop` after a run that did not exit cleanly.
func StopVectorStore(ctx context.Context, lc config.LaunchpadConfig) []string {
	return StopVectorStoreWith(ctx, lc, container.ExecRunner{HideWindow: lc.HideConsole})
}

// StopVectorStoreWith is StopVectorStore with an explicit engine runner.
func StopVectorStoreWith(ctx context.Context, lc config.LaunchpadConfig, runner container.Runner) []string {
	m := container.NewManager(lc.VectorStore.Engine, runner, probe.New(), nil)
	return m.StopPublished(ctx, lc.VectorStore.HostPort, lc.VectorStore.ContainerName)
}
