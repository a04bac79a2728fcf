package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/derekprior/rally/internal/config"
)

const (
	defaultConfigFile   = "config.yaml"
	defaultScheduleFile = "schedule.xlsx"
	xdgConfigFile       = "rally/config.yaml"
	configEnv           = "RALLY_CONFIG"
	spinnerCharSet      = 14
)

var errNoConfig = errors.New("no config file found")

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var trace bool
	rootCmd := &cobra.Command{
		Use:   "rally",
		Short: "Round-robin tournament scheduler",
		Long: heredoc.Doc(`
			rally builds fair round-robin schedules for a fixed roster where every
			competitor plays the same number of games. Schedules are saved as Excel
			workbooks that later commands read, edit and write back.
		`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if trace {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&trace, "trace", "t", false, "Show trace information")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter config.yaml in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	rootCmd.AddCommand(initCmd, newScheduleCmd(&trace), newStandingsCmd())
	return rootCmd
}

// resolveConfigPath picks the --config flag, then $RALLY_CONFIG, then
// ./config.yaml, then the user's XDG config directory.
func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if path := os.Getenv(configEnv); path != "" {
		return path, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	if path, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: create %s in the current directory, create $XDG_CONFIG_HOME/%s, or pass --config",
		errNoConfig, defaultConfigFile, xdgConfigFile)
}

// loadConfig resolves and loads the config, then applies its logging
// settings. An explicit --trace keeps the trace level.
func loadConfig(configFlag string, trace bool) (*config.Config, error) {
	path, err := resolveConfigPath(configFlag)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logrus.SetFormatter(cfg.Formatter())
	if !trace {
		logrus.SetLevel(cfg.LogLevel())
	}
	logrus.WithField("path", path).Debug("config loaded")
	return cfg, nil
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

var configTemplate = heredoc.Doc(`
	# Tournament Configuration
	# ========================
	# This file defines the roster and settings for a round-robin schedule.

	# Every competitor plays games_each games. When both the number of
	# competitors and games_each are odd the schedule cannot be balanced, so
	# at least one of them must be even.
	tournament:
	  name: Friday Table Tennis
	  games_each: 4

	# Competitors in roster order. Names must be unique. An id is generated
	# for any competitor without one; set it yourself to keep identities
	# stable when a name changes.
	competitors:
	  - name: Alice
	  - name: Bob
	  - name: Carol
	  - name: Dave
	  - name: Erin
	  - name: Frank

	# The scheduler is randomised. A fixed seed reproduces the same schedule;
	# 0 seeds from the clock. max_attempts bounds the retries spent filling
	# the final, partial round (0 uses the default of 1000).
	scheduler:
	  seed: 0
	  max_attempts: 0

	# Logging goes to stderr. Levels: trace, debug, info, warn, error.
	# Formats: text, json.
	log:
	  level: info
	  format: text
`)
