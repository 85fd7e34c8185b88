package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"crate/internal/config"
	"crate/internal/scan"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "import <music-dir>",
		Short: "Scan a music directory into a base catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			target := outputPath
			if target == "" {
				target = filepath.Join(cfg.Paths.OutputDir, "metadata_base.json")
			} else if target, err = config.ExpandPath(target); err != nil {
				return err
			}

			scanner := scan.New(nil, logger)
			collection, err := scanner.Scan(root)
			if err != nil {
				return err
			}
			if collection.Len() == 0 {
				return errors.New("no audio files found")
			}
			if err := collection.Save(target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tracks to %s\n", collection.Len(), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination catalog file (defaults to <output_dir>/metadata_base.json)")
	return cmd
}
