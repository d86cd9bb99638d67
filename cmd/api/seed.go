package main

import (
	"fmt"

	"productapi/internal/config"
	"productapi/internal/seed"
	"productapi/internal/service"

	"github.com/spf13/cobra"
)

var seedFiles []string

// seedCmd loads fixture files into the configured store and exits.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load product fixture files into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cfg.Store.Driver == config.StoreDriverMemory {
			return fmt.Errorf("seeding the in-memory store from the CLI has no effect; use serve --seed")
		}

		logger := config.NewLogger(cfg.Logger)
		ctx := cmd.Context()

		productRepo, closeStore, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		files := cfg.Seed.Files
		if len(seedFiles) > 0 {
			files = seedFiles
		}

		seeder := seed.NewSeeder(newFixtureLoader(ctx, cfg, logger), service.NewProductService(productRepo, logger), logger)
		res, err := seeder.Run(ctx, files)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d products, skipped %d existing\n", res.Created, res.Skipped)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringSliceVarP(&seedFiles, "file", "f", nil, "fixture file to load (repeatable, overrides SEED_FILES)")
}
