package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRootFlags(t *testing.T) {
	t.Helper()

	prevCfg, prevEnv, prevLevel := cfgFile, envFile, logLevel
	prevLoggerLevel := logger.GetLevel()

	t.Cleanup(func() {
		cfgFile, envFile, logLevel = prevCfg, prevEnv, prevLevel
		logger.SetLevel(prevLoggerLevel)
	})

	cfgFile, envFile, logLevel = "", filepath.Join(t.TempDir(), "missing.env"), ""
}

func TestPrepareEnvironment_ConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		resetRootFlags(t)
		t.Setenv(configFileEnv, "")

		require.NoError(t, prepareEnvironment(nil, nil))
		assert.Equal(t, defaultConfigFile, cfgFile)
	})

	t.Run("from environment", func(t *testing.T) {
		resetRootFlags(t)
		t.Setenv(configFileEnv, "/etc/nichefy/engine.yaml")

		require.NoError(t, prepareEnvironment(nil, nil))
		assert.Equal(t, "/etc/nichefy/engine.yaml", cfgFile)
	})

	t.Run("flag wins", func(t *testing.T) {
		resetRootFlags(t)
		t.Setenv(configFileEnv, "/etc/nichefy/engine.yaml")
		cfgFile = "local.yaml"

		require.NoError(t, prepareEnvironment(nil, nil))
		assert.Equal(t, "local.yaml", cfgFile)
	})
}

func TestPrepareEnvironment_LoadsEnvFile(t *testing.T) {
	resetRootFlags(t)

	envFile = filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("YOUTUBE_API_KEYS=dot-1,dot-2\n"), 0o600))

	require.NoError(t, os.Unsetenv("YOUTUBE_API_KEYS"))
	t.Cleanup(func() { _ = os.Unsetenv("YOUTUBE_API_KEYS") })

	require.NoError(t, prepareEnvironment(nil, nil))

	config, err := loadEngineConfigFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dot-1", "dot-2"}, config.YouTube.Keys)
}

func TestLogLevelPrecedence(t *testing.T) {
	resetRootFlags(t)

	config, err := loadEngineConfigFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	config.Logging = "warn"
	require.NoError(t, applyLogLevel(config))
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logLevel = "debug"
	require.NoError(t, prepareEnvironment(nil, nil))
	require.NoError(t, applyLogLevel(config))
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logLevel = "loud"
	require.Error(t, prepareEnvironment(nil, nil))
}
