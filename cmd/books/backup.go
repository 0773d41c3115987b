package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/cli"
	"github.com/Veraticus/the-books-must-balance/internal/storage"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Aliases: []string{"backups"},
		Short:   "Create, list and delete database backups",
		Long: `Backups are point-in-time copies of the database kept in a "backups"
directory beside it. An automatic backup is taken before every import; the
five most recent automatic backups are kept.`,
	}

	cmd.AddCommand(backupCreateCmd())
	cmd.AddCommand(backupListCmd())
	cmd.AddCommand(backupDeleteCmd())

	return cmd
}

func openBackups(cmd *cobra.Command) (*app, *storage.BackupManager, error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	bm, err := storage.NewBackupManager(a.store)
	if err != nil {
		_ = a.Close()
		return nil, nil, err
	}
	return a, bm, nil
}

func backupCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Snapshot the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, bm, err := openBackups(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			name := "manual-" + time.Now().UTC().Format("20060102-150405")
			if len(args) == 1 {
				name = args[0]
			}

			info, err := bm.Create(cmd.Context(), name, description)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Created backup %s (%s)", info.ID, formatFileSize(info.FileSize))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "note stored with the backup")
	return cmd
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, bm, err := openBackups(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			backups, err := bm.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Fprintln(out(cmd), cli.FormatInfo("No backups yet"))
				return nil
			}

			rows := make([][]string, 0, len(backups))
			for _, b := range backups {
				kind := "manual"
				if b.IsAuto {
					kind = "auto"
				}
				rows = append(rows, []string{
					b.ID,
					b.CreatedAt.Local().Format("2006-01-02 15:04"),
					kind,
					formatFileSize(b.FileSize),
					fmt.Sprintf("%d", b.RowCounts["transactions"]),
					b.Description,
				})
			}
			fmt.Fprintln(out(cmd), cli.RenderTable([]string{"ID", "Created", "Kind", "Size", "Txns", "Description"}, rows, 3, 4))
			return nil
		},
	}
}

func backupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, bm, err := openBackups(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := bm.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess("Deleted backup "+args[0]))
			return nil
		},
	}
}
