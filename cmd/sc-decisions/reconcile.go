// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [prefix]",
	Short: "Store the bucket folders that are missing from the database",
	Long: `Reconcile compares the decision ids of the bucket's folders with the ids
already stored and ingests only the missing ones. It is safe to re-run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}

		s, err := newSession(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer s.Close()

		summary, err := s.pipeline.Reconcile(cmd.Context(), prefix, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d decision(s) failed", summary.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
