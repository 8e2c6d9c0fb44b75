package config

import (
	"fmt"
	"runtime"
	"time"
)

// ProjectRoot is the checkout root known at build time. Release builds leave
// it empty; developer builds set it with
//
//	-ldflags "-X launchpad/internal/config.ProjectRoot=$(pwd)"
var ProjectRoot = ""

// GetDefaultConfig returns the built-in configuration. Every call returns a
// fresh value so callers may mutate maps freely.
func GetDefaultConfig() LaunchpadConfig {
	return LaunchpadConfig{
		VectorStore: VectorStoreConfig{
			Label:         "Qdrant",
			Engine:        "docker",
			ContainerName: "canvaintel-qdrant",
			Image:         "qdrant/qdrant:latest",
			HostPort:      6333,
			ContainerPort: 6333,
			Volume:        "canvaintel_qdrant_data",
			VolumeTarget:  "/qdrant/storage",
			RestartPolicy: "unless-stopped",
			ReadyAttempts: 20,
			ReadyInterval: 500 * time.Millisecond,
		},
		Backend: BackendConfig{
			Port:                  3001,
			ReadyAttempts:         60,
			ReadyInterval:         500 * time.Millisecond,
			Subdir:                "backend",
			Entry:                 "dist/server.js",
			Marker:                "package.json",
			OverrideFile:          ".env",
			Runtime:               "node",
			BundledRuntime:        bundledRuntimeFor(runtime.GOOS),
			VersionFlag:           "--version",
			StdoutLog:             "backend.log",
			StderrLog:             "backend-error.log",
			StorageRootKey:        "BACKEND_STORAGE_ROOT",
			CredentialKey:         "GROQ_API_KEY",
			CredentialPlaceholder: "your_groq_api_key_here",
			DefaultEnv: map[string]string{
				"NODE_ENV":          "production",
				"BACKEND_PORT":      "3001",
				"QDRANT_URL":        fmt.Sprintf("http://127.0.0.1:%d", 6333),
				"OLLAMA_BASE_URL":   "http://localhost:11434",
				"OLLAMA_CHAT_MODEL": "minimax-m2.5:cloud",
			},
		},
		Bundle: BundleConfig{
			Archive:       "node_modules.zip",
			Destination:   "backend/node_modules",
			ProgressEvery: 500,
		},
		Paths: PathsConfig{
			ProjectRoot: ProjectRoot,
			SearchDepth: 6,
		},
		StatusServer: StatusServerConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8095,
		},
		HideConsole: true,
	}
}

// bundledRuntimeFor is the runtime path shipped next to the binary, relative
// to the resource directory.
func bundledRuntimeFor(goos string) string {
	if goos == "windows" {
		return "node/node.exe"
	}
	return "node/bin/node"
}
