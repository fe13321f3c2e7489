// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/sc-decisions/internal/justice"
	"github.com/pdiddy/sc-decisions/internal/logging"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Download and inspect the justice roster",
}

var rosterFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the roster from GitHub into the roster path",
	Long: `Fetch downloads the justice roster YAML through the GitHub contents API,
validates it, and writes it to the configured roster path. A token is read
from roster.token, SC_DECISIONS_ROSTER_TOKEN, or .secrets/github-token.`,
	Args: cobra.NoArgs,
	RunE: runRosterFetch,
}

var rosterActiveCmd = &cobra.Command{
	Use:   "active <date>",
	Short: "List the justices sitting on a date, most recently appointed first",
	Args:  cobra.ExactArgs(1),
	RunE:  runRosterActive,
}

var rosterResolveCmd = &cobra.Command{
	Use:   "resolve <date> <ponente text>",
	Short: "Resolve ponente text against the roster on a date",
	Args:  cobra.ExactArgs(2),
	RunE:  runRosterResolve,
}

func runRosterFetch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logging.Sync(log)

	if cfg.Roster.Token != "" {
		log.Debug("using roster token", logging.Redacted("token", cfg.Roster.Token))
	}

	client := &http.Client{Timeout: cfg.Roster.Timeout}
	data, roster, err := justice.Fetch(cmd.Context(), client, cfg.Roster)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Roster.Path), 0o755); err != nil {
		return fmt.Errorf("creating roster directory: %w", err)
	}
	if err := os.WriteFile(cfg.Roster.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	fmt.Fprintf(os.Stdout, "wrote %d justices to %s\n", roster.Len(), cfg.Roster.Path)
	log.Info("roster fetched", zap.Int("justices", roster.Len()), zap.String("path", cfg.Roster.Path))
	return nil
}

func runRosterActive(cmd *cobra.Command, args []string) error {
	d, err := types.ParseDate(args[0])
	if err != nil {
		return err
	}
	roster, err := justice.LoadRoster(pipelineConfig().Roster.Path)
	if err != nil {
		return err
	}

	active := roster.ActiveOn(d)
	if len(active) == 0 {
		fmt.Println("No justices active on", d)
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-11s  %-11s  %s\n", "ID", "Name", "Start", "Inactive", "Designation")
	for _, j := range active {
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-11s  %-11s  %s\n",
			j.ID, justice.TitleName(j.LastName), j.StartTerm, j.InactiveDate, j.DesignationOn(d))
	}
	return nil
}

func runRosterResolve(cmd *cobra.Command, args []string) error {
	d, err := types.ParseDate(args[0])
	if err != nil {
		return err
	}
	cfg := pipelineConfig()
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logging.Sync(log)

	resolver, err := loadResolver(cfg, log)
	if err != nil {
		return err
	}
	detail, err := resolver.Resolve(args[1], d)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	switch {
	case detail.PerCuriam:
		fmt.Println("per curiam")
	case detail.Resolved():
		fmt.Printf("%d %s, %s\n", *detail.JusticeID, detail.RawPonente, detail.Designation)
	default:
		fmt.Printf("unresolved: %q\n", detail.RawPonente)
	}
	return nil
}

func init() {
	rosterFetchCmd.Flags().String("url", "", "GitHub contents API URL of the roster file")
	rosterFetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	viper.BindPFlag("roster.url", rosterFetchCmd.Flags().Lookup("url"))
	viper.BindPFlag("roster.timeout", rosterFetchCmd.Flags().Lookup("timeout"))

	rosterCmd.AddCommand(rosterFetchCmd)
	rosterCmd.AddCommand(rosterActiveCmd)
	rosterCmd.AddCommand(rosterResolveCmd)
	rootCmd.AddCommand(rosterCmd)
}
