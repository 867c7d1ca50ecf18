// Package cmd implements the hwaccess CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/shady333/gettingHWaccess/internal/api/client"
	"github.com/shady333/gettingHWaccess/internal/config"
	"github.com/shady333/gettingHWaccess/pkg/logger"
)

const defaultConfigFile = "config.yaml"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "hwaccess",
		Short: "Track inventory of products behind a browser-issued token",
		Long: "hwaccess polls an inventory API that requires a short-lived bearer token,\n" +
			"keeps the token fresh, and records quantity changes per product.\n" +
			"Run `serve` to broker tokens and `monitor` to run a polling session.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:5000", "hwaccess API URL used by client commands")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		String("log-format", "", "log format override (text, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format")))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(monitorCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	viper.SetEnvPrefix("HWACCESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the YAML config file, layers flag and HWACCESS_* env
// overrides on top, then applies defaults and validates. A missing
// default config file is not an error.
func loadConfig() (*config.Config, error) {
	cfg, err := readConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}

	applyOverrides(cfg, viper.GetViper())
	config.ApplyDefaults(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	switch {
	case errors.Is(err, fs.ErrNotExist) && path == defaultConfigFile:
		return &config.Config{}, nil
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return config.Decode(data)
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return log
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

func viperBind(c *cobra.Command, key, flag string) error {
	return viper.BindPFlag(key, c.Flags().Lookup(flag))
}
