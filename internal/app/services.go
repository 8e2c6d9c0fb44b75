package app

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"launchpad/internal/container"
	"launchpad/internal/paths"
	"launchpad/internal/probe"
	"launchpad/internal/startup"
	"launchpad/internal/statusapi"
	"launchpad/internal/supervisor"
	"launchpad/internal/unpack"
	"launchpad/pkg/logging"
)

// Services holds every wired component of one launchpad run
type Services struct {
	Publisher    *startup.Publisher
	Journal      *startup.Journal
	Containers   *container.Manager
	Supervisor   *supervisor.Supervisor
	Registry     *supervisor.Registry
	Sequencer    *startup.Sequencer
	StatusServer *statusapi.Server
}

// JournalPath is where the run journal of appDataDir lives.
func JournalPath(appDataDir string) string {
	return filepath.Join(appDataDir, "logs", startup.JournalFileName)
}

// InitializeServices creates the components and wires them into a sequencer
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.LaunchpadConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	lc := *cfg.LaunchpadConfig

	var sinks []startup.Sink
	var journal *startup.Journal
	if lc.Paths.AppDataDir != "" {
		j, err := startup.OpenJournal(JournalPath(lc.Paths.AppDataDir))
		if err != nil {
			logging.Warn("Bootstrap", "Run journal disabled: %v", err)
		} else {
			journal = j
			sinks = append(sinks, j)
		}
	}
	publisher := startup.NewPublisher(sinks...)
	logging.Debug("Bootstrap", "Startup run %s", publisher.RunID())

	prober := probe.New()
	containers := container.NewManager(
		lc.VectorStore.Engine,
		container.ExecRunner{HideWindow: lc.HideConsole},
		prober,
		publisher,
	)

	unpacker := unpack.New(publisher)
	unpacker.HideWindow = lc.HideConsole
	if len(lc.Bundle.NativeTool) > 0 {
		unpacker.NativeTool = lc.Bundle.NativeTool
	}
	if lc.Bundle.ProgressEvery > 0 {
		unpacker.ProgressEvery = lc.Bundle.ProgressEvery
	}

	wd, err := os.Getwd()
	if err != nil {
		logging.Warn("Bootstrap", "Could not determine working directory: %v", err)
	}
	locator := paths.Resolver{
		ProjectRoot: lc.Paths.ProjectRoot,
		Start:       wd,
		ResourceDir: lc.Paths.ResourceDir,
		SearchDepth: lc.Paths.SearchDepth,
		Subdir:      lc.Backend.Subdir,
		Entry:       lc.Backend.Entry,
		Marker:      lc.Backend.Marker,
	}

	registry := supervisor.NewRegistry()
	sup := supervisor.New(supervisor.Candidates(supervisor.CandidateOptions{
		ResourceDir:    lc.Paths.ResourceDir,
		BundledRuntime: lc.Backend.BundledRuntime,
		Runtime:        lc.Backend.Runtime,
		GOOS:           runtime.GOOS,
	}), registry, publisher)
	sup.VersionFlag = lc.Backend.VersionFlag
	sup.HideWindow = lc.HideConsole

	sequencer := startup.NewSequencer(lc, publisher, startup.Components{
		VectorStore: containers,
		Prober:      prober,
		Unpacker:    unpacker,
		Locator:     locator,
		Launcher:    sup,
		Registry:    registry,
	})

	var statusServer *statusapi.Server
	if lc.StatusServer.Enabled {
		statusServer = statusapi.NewServer(lc.StatusServer.Host, lc.StatusServer.Port, cfg.Version, publisher)
	}

	return &Services{
		Publisher:    publisher,
		Journal:      journal,
		Containers:   containers,
		Supervisor:   sup,
		Registry:     registry,
		Sequencer:    sequencer,
		StatusServer: statusServer,
	}, nil
}
