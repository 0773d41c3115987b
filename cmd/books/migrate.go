package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/the-books-must-balance/internal/cli"
	"github.com/Veraticus/the-books-must-balance/internal/config"
	"github.com/Veraticus/the-books-must-balance/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version. Every other
command migrates on open; this one exists to do it explicitly or to check
where a database stands.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o750); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}

			store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			current, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			if status {
				state := cli.SuccessStyle.Render("up to date")
				if current < storage.ExpectedSchemaVersion {
					state = cli.WarningStyle.Render(fmt.Sprintf("%d pending", storage.ExpectedSchemaVersion-current))
				}
				fmt.Fprintf(out(cmd), "Database: %s\nSchema:   v%d of v%d (%s)\n",
					cfg.DatabasePath, current, storage.ExpectedSchemaVersion, state)
				return nil
			}

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Schema migrated from v%d to v%d", current, storage.ExpectedSchemaVersion)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "show the schema version without migrating")
	return cmd
}
