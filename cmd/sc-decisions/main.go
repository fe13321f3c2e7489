// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sc-decisions CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sc-decisions/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sc-decisions CLI.
var rootCmd = &cobra.Command{
	Use:   "sc-decisions",
	Short: "Ingest Supreme Court decisions into a relational store",
	Long: `sc-decisions reads scraped Supreme Court decisions from a bucket (HTML
e-library folders and PDF extraction rows), resolves each ponente against the
justice roster, segments opinions, counts citations and statutes, and writes
the result into a SQLite database.

Re-running an ingest is safe: decisions already stored are reported as
duplicates and skipped. Use reconcile to catch up on folders that are
missing from the database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		for key, value := range secrets.ConfigValues(s) {
			viper.SetDefault(key, value)
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./sc-decisions.yaml or ~/.config/sc-decisions/sc-decisions.yaml)")
	pf.String("db", "", "path to the decisions SQLite database")
	pf.String("roster", "", "path to the justice roster YAML")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: json or console")

	viper.BindPFlag("database.path", pf.Lookup("db"))
	viper.BindPFlag("roster.path", pf.Lookup("roster"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sc-decisions")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sc-decisions"))
		}
	}

	viper.SetEnvPrefix("SC_DECISIONS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
