// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sc-decisions/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <decision-id>",
	Short: "Print a stored decision with its opinions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		st, err := store.NewStore(pipelineConfig().Database, nil)
		if err != nil {
			return err
		}
		defer st.Close()

		found, err := st.Export(cmd.Context(), os.Stdout, args[0], format)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("decision %s not found", args[0])
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts for every table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewStore(pipelineConfig().Database, nil)
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.Counts(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range counts {
			fmt.Fprintf(os.Stdout, "%-22s %8d\n", c.Table, c.Rows)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().String("format", store.FormatYAML, "output format: yaml or json")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
}
