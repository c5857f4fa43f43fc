package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typeracehq/typerace/internal/config"
	"github.com/typeracehq/typerace/internal/factory"
)

// newSeedCmd creates the seed command
func newSeedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load race paragraphs into the session store",
		Long: `seed loads paragraphs from a text file into the configured store,
one paragraph per non-empty line. Run it against the Redis store the
server uses; with the memory store seeding is pointless since the data
dies with the process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Game.ParagraphsPath
			}

			logger := newLogger(cfg.Logging)
			app, err := factory.New(factoryConfig(cfg, logger))
			if err != nil {
				return err
			}

			count, err := app.ParagraphService.LoadFromFile(cmd.Context(), path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d paragraphs from %s\n", count, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Paragraphs file (defaults to game.paragraphs_path)")

	return cmd
}
