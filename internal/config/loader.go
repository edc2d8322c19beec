package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"agentflow/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/agentflow"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns the user-level configuration
// directory. It panics when the home directory cannot be resolved, which
// only happens in broken environments.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// ConfigFilePath returns the path of config.yaml inside configPath.
func ConfigFilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads configuration from the config.yaml in configPath,
// merged over the defaults. A missing file is not an error; the defaults
// are returned.
func LoadConfig(configPath string) (AgentFlowConfig, error) {
	configFilePath := ConfigFilePath(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return AgentFlowConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return AgentFlowConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s (%d credentials)", configFilePath, len(config.Credentials))
	return config, nil
}
