// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sc-decisions/internal/segment"
	"github.com/pdiddy/sc-decisions/internal/source"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <file.md>",
	Short: "Print the segments of an opinion file",
	Long: `Segment splits a Markdown opinion file into the position-tagged lines
that would be stored as search segments. The "# Title" heading counts as
paragraph 0; lines after a "---" footnote marker are not segmented.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func runSegment(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	text := string(data)
	if _, err := source.HeadingTitle(text); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	minChars, _ := cmd.Flags().GetInt("min-chars")
	if minChars == 0 {
		minChars = pipelineConfig().Segment.MinChars
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var pieces []segment.Piece
	for p := range segment.Split(text, minChars) {
		pieces = append(pieces, p)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pieces)
	}
	for _, p := range pieces {
		fmt.Fprintf(os.Stdout, "%-7s  %4d  %s\n", p.Position(), p.CharCount(), p.Text)
	}
	fmt.Fprintf(os.Stdout, "\n%d segments\n", len(pieces))
	return nil
}

func init() {
	segmentCmd.Flags().Int("min-chars", 0, "exclusive minimum segment length (default from config, 10)")
	segmentCmd.Flags().Bool("json", false, "output segments as JSON")

	rootCmd.AddCommand(segmentCmd)
}
