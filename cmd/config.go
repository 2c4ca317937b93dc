package cmd

import (
	"os"

	"github.com/creasty/defaults"
	"github.com/ethpandaops/nichefy/pkg/engine"
	"gopkg.in/yaml.v3"
)

// loadEngineConfigFromFile reads defaults, then the YAML file if it exists,
// then secrets from the environment
func loadEngineConfigFromFile(file string) (*engine.Config, error) {
	if file == "" {
		file = defaultConfigFile
	}

	config := &engine.Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(file) //nolint:gosec // User-provided config file path
	switch {
	case err == nil:
		if err := yaml.Unmarshal(yamlFile, config); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		logger.WithField("file", file).Warn("Config file not found, using defaults and environment")
	default:
		return nil, err
	}

	config.ApplyEnv()

	return config, nil
}
