// Package cmd contains the CLI commands for nichefy
package cmd

import (
	"fmt"
	"os"

	"github.com/ethpandaops/nichefy/pkg/engine"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	defaultConfigFile = "engine.yaml"
	configFileEnv     = "NICHEFY_CONFIG"
)

//nolint:gochecknoglobals // Global vars needed for cobra CLI
var (
	cfgFile  string
	envFile  string
	logLevel string
	logger   = newLogger()
)

// rootCmd represents the base command
//
//nolint:gochecknoglobals // Cobra commands are typically global
var rootCmd = &cobra.Command{
	Use:   "nichefy",
	Short: "Nichefy - discover viral outlier videos from small channels",
	Long: `Nichefy continuously searches the YouTube Data API for recent uploads,
finds videos that vastly outperform their channel's subscriber base, explains
why they work and stores them for later review.`,
	PersistentPreRunE: prepareEnvironment,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $"+configFileEnv+" or ./"+defaultConfigFile+")")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file with secrets, ignored when missing")
	flags.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return log
}

// prepareEnvironment loads the dotenv file before any command reads the
// environment, then resolves the config path and the flag log level
func prepareEnvironment(_ *cobra.Command, _ []string) error {
	engine.LoadDotEnv(envFile)

	if cfgFile == "" {
		cfgFile = os.Getenv(configFileEnv)
	}

	if cfgFile == "" {
		cfgFile = defaultConfigFile
	}

	if logLevel == "" {
		return nil
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	logger.SetLevel(level)

	return nil
}

// applyLogLevel switches the logger to the configured level unless --log-level was given
func applyLogLevel(config *engine.Config) error {
	if logLevel != "" {
		return nil
	}

	level, err := logrus.ParseLevel(config.Logging)
	if err != nil {
		return err
	}

	logger.SetLevel(level)

	return nil
}
