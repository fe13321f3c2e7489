// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sc-decisions/internal/store"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search stored opinion segments",
	Long: `Search finds stored segments containing the given text, optionally
limited to a decision, an opinion tag (ponencia, concurring, dissenting,
separate) or a writer's justice id.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	decision, _ := cmd.Flags().GetString("decision")
	tag, _ := cmd.Flags().GetString("tag")
	justiceID, _ := cmd.Flags().GetInt("justice")
	limit, _ := cmd.Flags().GetInt("limit")

	q := store.SegmentQuery{
		Text:       strings.Join(args, " "),
		DecisionID: decision,
		Tag:        types.OpinionTag(tag),
		JusticeID:  justiceID,
		MaxResults: limit,
	}
	if q.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --decision, --tag, or --justice")
	}

	st, err := store.NewStore(pipelineConfig().Database, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := st.Search(cmd.Context(), q)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []store.SegmentResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-20s  %-7s  %s\n", "Decision", "Opinion", "Pos", "Segment")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range results {
		opinion := r.OpinionTitle
		if len(opinion) > 20 {
			opinion = opinion[:17] + "..."
		}
		text := r.Text
		if len(text) > 52 {
			text = text[:49] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-20s  %-7s  %s\n", r.DecisionID, opinion, r.Position, text)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func init() {
	searchCmd.Flags().String("decision", "", "filter by decision id")
	searchCmd.Flags().String("tag", "", "filter by opinion tag")
	searchCmd.Flags().Int("justice", 0, "filter by writer's justice id")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = default of 20)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
