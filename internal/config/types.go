package config

import (
	"time"
)

// LaunchpadConfig is the top-level configuration structure for launchpad.
type LaunchpadConfig struct {
	VectorStore  VectorStoreConfig  `yaml:"vectorStore"`
	Backend      BackendConfig      `yaml:"backend"`
	Bundle       BundleConfig       `yaml:"bundle"`
	Paths        PathsConfig        `yaml:"paths"`
	StatusServer StatusServerConfig `yaml:"statusServer"`

	// HideConsole suppresses console windows for every spawned command on
	// platforms that would otherwise open one.
	HideConsole bool `yaml:"hideConsole"`
}

// VectorStoreConfig describes the auxiliary vector database container.
type VectorStoreConfig struct {
	Label         string        `yaml:"label"`         // display name in status lines
	Engine        string        `yaml:"engine"`        // container engine CLI, e.g. "docker" or "podman"
	ContainerName string        `yaml:"containerName"` // also the legacy name stopped on teardown
	Image         string        `yaml:"image"`
	HostPort      int           `yaml:"hostPort"`
	ContainerPort int           `yaml:"containerPort"`
	Volume        string        `yaml:"volume"`
	VolumeTarget  string        `yaml:"volumeTarget"`
	RestartPolicy string        `yaml:"restartPolicy"`
	ReadyAttempts int           `yaml:"readyAttempts"`
	ReadyInterval time.Duration `yaml:"readyInterval"`
}

// BackendConfig describes the backend server process and how it is located.
type BackendConfig struct {
	Port          int           `yaml:"port"`
	ReadyAttempts int           `yaml:"readyAttempts"`
	ReadyInterval time.Duration `yaml:"readyInterval"`

	Subdir       string `yaml:"subdir"`       // backend directory name inside a project root or resource dir
	Entry        string `yaml:"entry"`        // entry file relative to the backend directory
	Marker       string `yaml:"marker"`       // file identifying the backend project, relative to the backend directory
	OverrideFile string `yaml:"overrideFile"` // KEY=VALUE file relative to the backend working directory

	Runtime        string `yaml:"runtime"`        // bare runtime name resolved through PATH
	BundledRuntime string `yaml:"bundledRuntime"` // runtime shipped inside the resource directory
	VersionFlag    string `yaml:"versionFlag"`

	StdoutLog string `yaml:"stdoutLog"`
	StderrLog string `yaml:"stderrLog"`

	StorageRootKey        string            `yaml:"storageRootKey"`
	CredentialKey         string            `yaml:"credentialKey"`
	CredentialPlaceholder string            `yaml:"credentialPlaceholder"`
	DefaultEnv            map[string]string `yaml:"defaultEnv"`
}

// BundleConfig describes the one-time extracted dependency archive.
type BundleConfig struct {
	Archive       string   `yaml:"archive"`     // relative to the resource directory
	Destination   string   `yaml:"destination"` // relative to the resource directory
	NativeTool    []string `yaml:"nativeTool,omitempty"`
	ProgressEvery int      `yaml:"progressEvery"`
}

// PathsConfig holds the installation-relative roots.
type PathsConfig struct {
	ResourceDir string `yaml:"resourceDir,omitempty"` // defaults to the executable's directory
	AppDataDir  string `yaml:"appDataDir,omitempty"`  // defaults to the user config dir
	ProjectRoot string `yaml:"projectRoot,omitempty"` // defaults to the build-time ProjectRoot
	SearchDepth int    `yaml:"searchDepth"`
}

// StatusServerConfig configures the loopback MCP endpoint serving the startup status.
type StatusServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}
