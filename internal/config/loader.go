package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/launchpad"
	projectConfigDir = ".launchpad"
	configFileName   = "config.yaml"
)

// LoadConfig loads the launchpad configuration by layering default, user, and project settings.
func LoadConfig() (LaunchpadConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if err := overlayFromFile(&config, userConfigPath); err != nil {
		return LaunchpadConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if err := overlayFromFile(&config, projectConfigPath); err != nil {
		return LaunchpadConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}

	return config, config.Validate()
}

// LoadConfigFromPath loads defaults overlaid with <dir>/config.yaml only,
// skipping the user and project layers.
func LoadConfigFromPath(dir string) (LaunchpadConfig, error) {
	config := GetDefaultConfig()
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err != nil {
		return LaunchpadConfig{}, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := overlayFromFile(&config, path); err != nil {
		return LaunchpadConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return config, config.Validate()
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// overlayFromFile decodes the YAML file on top of config. Keys absent from
// the file keep their current value; map entries are merged. A missing file
// is not an error.
func overlayFromFile(config *LaunchpadConfig, filePath string) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}

// Validate reports settings that would make the startup sequence meaningless.
func (c LaunchpadConfig) Validate() error {
	var errs []error
	checkPort := func(name string, port int) {
		if port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s: port %d out of range", name, port))
		}
	}
	checkPort("vectorStore.hostPort", c.VectorStore.HostPort)
	checkPort("vectorStore.containerPort", c.VectorStore.ContainerPort)
	checkPort("backend.port", c.Backend.Port)
	if c.StatusServer.Enabled {
		checkPort("statusServer.port", c.StatusServer.Port)
	}
	if c.VectorStore.ReadyAttempts <= 0 {
		errs = append(errs, fmt.Errorf("vectorStore.readyAttempts must be positive"))
	}
	if c.Backend.ReadyAttempts <= 0 {
		errs = append(errs, fmt.Errorf("backend.readyAttempts must be positive"))
	}
	if c.VectorStore.Engine == "" {
		errs = append(errs, fmt.Errorf("vectorStore.engine must be set"))
	}
	if c.Backend.Entry == "" {
		errs = append(errs, fmt.Errorf("backend.entry must be set"))
	}
	return errors.Join(errs...)
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
