package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"stagehand/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/stagehand"
	configFileName = "config.yaml"
)

// osUserHomeDir is replaced in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/stagehand.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads configuration from a single specified directory.
// The directory may contain config.yaml; without it the defaults are returned.
func LoadConfig(configPath string) (StagehandConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return resolvePaths(config, configPath), nil
		}
		return StagehandConfig{}, NewConfigurationError(configFilePath, configFileName, "main", "io", err.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		ce := NewConfigurationError(configFilePath, configFileName, "main", "parse", err.Error())
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			ce.Suggestions = append(ce.Suggestions, "check field names and value types against the documented configuration")
		}
		return StagehandConfig{}, ce
	}

	if err := config.Validate(); err != nil {
		return StagehandConfig{}, fmt.Errorf("invalid configuration in %s: %w", configFilePath, err)
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return resolvePaths(config, configPath), nil
}

func resolvePaths(config StagehandConfig, configPath string) StagehandConfig {
	if config.Discovery.Path != "" && !filepath.IsAbs(config.Discovery.Path) {
		config.Discovery.Path = filepath.Join(configPath, config.Discovery.Path)
	}
	return config
}
