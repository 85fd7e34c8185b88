package main

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"crate/internal/batch"
	"crate/internal/config"
	"crate/internal/coverart"
	"crate/internal/enrich"
	"crate/internal/itunes"
	"crate/internal/musicbrainz"
	"crate/internal/ratelimit"
	"crate/internal/state"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var outputDir string
	var resume bool
	var dryRun bool
	var skipArtwork bool
	var limit int

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich catalog metadata from external services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if inputPath == "" {
				return errors.New("--input is required")
			}
			input, err := config.ExpandPath(inputPath)
			if err != nil {
				return err
			}

			output := outputDir
			if output == "" {
				output = cfg.Paths.OutputDir
			}
			output, err = config.ExpandPath(output)
			if err != nil {
				return err
			}

			mbClient, err := musicbrainz.New(
				cfg.MusicBrainz.BaseURL,
				cfg.MusicBrainz.UserAgent,
				cfg.MusicBrainz.CandidateLimit,
				ratelimit.New(cfg.MusicBrainz.RatePerSecond),
				musicbrainz.WithLogger(logger),
				musicbrainz.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.MusicBrainz.TimeoutSeconds) * time.Second}),
			)
			if err != nil {
				return fmt.Errorf("configure musicbrainz client: %w", err)
			}

			caaClient, err := coverart.New(
				cfg.CoverArt.BaseURL,
				cfg.MusicBrainz.UserAgent,
				ratelimit.New(cfg.CoverArt.RatePerSecond),
				coverart.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.CoverArt.TimeoutSeconds) * time.Second}),
			)
			if err != nil {
				return fmt.Errorf("configure coverart client: %w", err)
			}

			itunesClient, err := itunes.New(
				cfg.ITunes.BaseURL,
				cfg.MusicBrainz.UserAgent,
				ratelimit.New(cfg.ITunes.RatePerSecond),
				itunes.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.ITunes.TimeoutSeconds) * time.Second}),
			)
			if err != nil {
				return fmt.Errorf("configure itunes client: %w", err)
			}

			enricher := enrich.New(mbClient, caaClient, itunesClient, enrich.Config{
				AutoAcceptThreshold: cfg.Enrichment.AutoAcceptThreshold,
				ReviewThreshold:     cfg.Enrichment.ReviewThreshold,
				ArtworkDir:          filepath.Join(output, "artwork"),
				SkipArtwork:         skipArtwork || cfg.Enrichment.SkipArtwork,
			}, logger)

			store, err := state.Open(filepath.Join(output, "state.db"))
			if err != nil {
				return fmt.Errorf("open state store: %w", err)
			}
			defer store.Close()

			runner := batch.New(enricher, mbClient, store, logger)
			summary, err := runner.Run(cmd.Context(), batch.Options{
				InputPath:          input,
				OutputDir:          output,
				Resume:             resume,
				DryRun:             dryRun,
				Limit:              limit,
				CheckpointInterval: cfg.Enrichment.CheckpointInterval,
			})
			if err != nil {
				return err
			}

			printSummary(cmd, summary, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the base catalog (metadata_base.json or manifest.json)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to paths.output_dir)")
	cmd.Flags().BoolVar(&resume, "resume", false, "Resume a previous run, skipping processed tracks")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Score and match without writing catalog updates")
	cmd.Flags().BoolVar(&skipArtwork, "skip-artwork", false, "Skip album art lookup and download")
	cmd.Flags().IntVar(&limit, "limit", 0, "Limit the number of tracks processed (0 = unlimited)")

	return cmd
}

func printSummary(cmd *cobra.Command, summary *batch.Summary, outputDir string) {
	out := cmd.OutOrStdout()

	if summary.Offline {
		fmt.Fprintf(out, "Lookup service unreachable; wrote offline fallback for %d tracks to %s\n",
			summary.Total, filepath.Join(outputDir, "metadata_enriched.json"))
		return
	}

	title := "Enrichment complete"
	if summary.DryRun {
		title += " [dry run]"
	}
	fmt.Fprintln(out, title)

	rows := [][]string{
		{"Total tracks", strconv.Itoa(summary.Total)},
		{"Processed", strconv.Itoa(summary.Processed)},
	}
	if summary.FromCache > 0 {
		rows = append(rows, []string{"From dry-run cache", strconv.Itoa(summary.FromCache)})
	}
	rows = append(rows,
		[]string{"Skipped (resume)", strconv.Itoa(summary.Skipped)},
		[]string{"Auto-accepted", strconv.Itoa(summary.AutoAccepted)},
		[]string{"Flagged for review", strconv.Itoa(summary.Flagged)},
		[]string{"No match", strconv.Itoa(summary.NoMatch)},
	)
	if summary.Errors > 0 {
		rows = append(rows, []string{"Errors", strconv.Itoa(summary.Errors)})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Metric", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))

	if summary.DryRun {
		fmt.Fprintf(out, "Report: %s\n", filepath.Join(outputDir, "dry_run_report.json"))
		return
	}
	fmt.Fprintf(out, "Output: %s\n", filepath.Join(outputDir, "metadata_enriched.json"))
	if summary.Flagged > 0 {
		fmt.Fprintf(out, "Review queue: %s\n", filepath.Join(outputDir, "review_queue.json"))
	}
}
