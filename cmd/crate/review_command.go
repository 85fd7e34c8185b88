package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"crate/internal/catalog"
	"crate/internal/config"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Show tracks flagged for human review",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dir := outputDir
			if dir == "" {
				dir = cfg.Paths.OutputDir
			}
			dir, err = config.ExpandPath(dir)
			if err != nil {
				return err
			}

			queuePath := filepath.Join(dir, catalog.ReviewQueueFile)
			queue, err := catalog.LoadReviewQueue(queuePath)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "No review queue found; nothing is flagged.")
					return nil
				}
				return fmt.Errorf("load review queue: %w", err)
			}
			if len(queue.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Review queue is empty.")
				return nil
			}

			rows := make([][]string, 0, len(queue.Items))
			for _, item := range queue.Items {
				confidence := ""
				suggested := ""
				if len(item.Suggestions) > 0 {
					confidence = fmt.Sprintf("%.2f", item.Suggestions[0].Confidence)
					suggested = suggestionSummary(item.Suggestions[0])
				}
				rows = append(rows, []string{
					item.TrackID,
					item.Filename,
					strings.Join(item.Reasons, ", "),
					confidence,
					suggested,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Track", "File", "Reasons", "Confidence", "Top suggestion"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d items (generated %s)\n", len(queue.Items), queue.Generated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory holding review_queue.json")
	return cmd
}

func suggestionSummary(suggestion catalog.Suggestion) string {
	artist, _ := suggestion.Fields["artist"].(string)
	title, _ := suggestion.Fields["title"].(string)
	switch {
	case artist != "" && title != "":
		return artist + " / " + title
	case title != "":
		return title
	default:
		return artist
	}
}
