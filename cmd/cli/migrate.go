package main

import (
	"fmt"
	"os"

	"gotreat/adapters/literature"
	"gotreat/adapters/postgres"
	"gotreat/internal/config"
	"gotreat/internal/container"
	"gotreat/internal/migration"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var importDir string
	var importEmbedded bool
	var drop bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the literature tables in DATABASE_URL and optionally import data",
		Long: `Create the literature tables in the PostgreSQL database named by DATABASE_URL.

With --import-dir the CSV or XLSX tables in the directory replace the stored rows;
--import-embedded imports the data shipped with the binary.

Example: gotreat migrate --import-embedded`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			db, err := container.Connect(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner()
			if drop {
				if err := runner.Drop(ctx, db); err != nil {
					return err
				}
			}
			if err := runner.Run(ctx, db); err != nil {
				return err
			}

			var tables *literature.Tables
			switch {
			case importDir != "":
				tables, err = literature.LoadFS(os.DirFS(importDir))
			case importEmbedded:
				tables, err = literature.LoadFS(literature.Embedded())
			default:
				return nil
			}
			if err != nil {
				return err
			}

			repo := postgres.NewLiteratureRepository(db)
			if err := repo.Import(ctx, tables); err != nil {
				return err
			}
			counts, err := repo.Counts(ctx)
			if err != nil {
				return err
			}
			for _, t := range migration.Tables() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", t, counts[t])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&importDir, "import-dir", "", "Import literature tables from this directory")
	cmd.Flags().BoolVar(&importEmbedded, "import-embedded", false, "Import the embedded literature tables")
	cmd.Flags().BoolVar(&drop, "drop", false, "Drop the literature tables first")

	return cmd
}
