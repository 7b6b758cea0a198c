// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ocean-bridge CLI, a gateway
// from binary quadratic models to remote annealing devices: inspect a
// device's topology, submit problems as remote tasks, and collect
// sample sets.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ocean-bridge/internal/device"
	"github.com/pdiddy/ocean-bridge/internal/secrets"
	"github.com/pdiddy/ocean-bridge/internal/task"
	"github.com/pdiddy/ocean-bridge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the ocean-bridge CLI.
var rootCmd = &cobra.Command{
	Use:   "ocean-bridge",
	Short: "Drive remote annealing devices with binary quadratic models",
	Long: `ocean-bridge submits binary quadratic models to remote annealing
devices and collects the sampled results. Problems are validated against
the device's qubit/coupler topology before submission, parameters are
accepted in either the service or the D-Wave vocabulary, and completed
tasks are reshaped into sample sets.

Each operation is a subcommand: device, sample, submit, result, and tasks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ocean-bridge.yaml or ~/.config/ocean-bridge/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log task status transitions to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ocean-bridge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ocean-bridge"))
		}
	}

	viper.SetEnvPrefix("OCEAN_BRIDGE")
	viper.AutomaticEnv()

	viper.SetDefault("service.timeout", 30*time.Second)
	viper.SetDefault("service.user_agent", "ocean-bridge/"+version)
	viper.SetDefault("poll.interval", time.Second)
	viper.SetDefault("journal.dir", ".")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bridgeConfig assembles the runtime configuration from viper and the
// loaded secrets.
func bridgeConfig() types.BridgeConfig {
	cfg := types.BridgeConfig{
		Service: types.ServiceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("service.timeout"),
				UserAgent: viper.GetString("service.user_agent"),
			},
			BaseURL: viper.GetString("service.base_url"),
			Token:   viper.GetString("service.token"),
		},
		Poll: types.PollConfig{
			Interval:   viper.GetDuration("poll.interval"),
			MaxWait:    viper.GetDuration("poll.max_wait"),
			MaxRetries: viper.GetInt("poll.max_retries"),
		},
		Journal: types.JournalConfig{
			Dir: viper.GetString("journal.dir"),
		},
		Destination: types.S3Destination{
			Bucket:    viper.GetString("destination.bucket"),
			KeyPrefix: viper.GetString("destination.key_prefix"),
		},
		EnergyTolerance: viper.GetFloat64("energy_tolerance"),
	}
	if cfg.Service.Token == "" {
		cfg.Service.Token = loadedSecrets[secrets.ServiceToken]
	}
	return cfg
}

// serviceClients builds the device and task clients for one invocation.
func serviceClients(cfg types.BridgeConfig) (*device.Cache, *task.Client, error) {
	if cfg.Service.BaseURL == "" {
		return nil, nil, fmt.Errorf("service base URL not configured: set service.base_url or OCEAN_BRIDGE_SERVICE_BASE_URL")
	}

	httpClient := &http.Client{Timeout: cfg.Service.Timeout}

	devices := device.NewCache(&device.Client{
		BaseURL:   cfg.Service.BaseURL,
		HTTP:      httpClient,
		Token:     cfg.Service.Token,
		UserAgent: cfg.Service.UserAgent,
	})
	tasks := &task.Client{
		BaseURL:   cfg.Service.BaseURL,
		HTTP:      httpClient,
		Token:     cfg.Service.Token,
		UserAgent: cfg.Service.UserAgent,
		Logger:    cliLogger(),
	}
	return devices, tasks, nil
}

// cliLogger returns a stderr logger when --verbose is set, a no-op
// logger otherwise.
func cliLogger() zerolog.Logger {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
