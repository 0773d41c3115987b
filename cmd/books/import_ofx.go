package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/the-books-must-balance/internal/cli"
	"github.com/Veraticus/the-books-must-balance/internal/engine"
	"github.com/Veraticus/the-books-must-balance/internal/ledger"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/Veraticus/the-books-must-balance/internal/ofx"
	"github.com/Veraticus/the-books-must-balance/internal/storage"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	var (
		accountRef  string
		fallbackRef string
		incomeRef   string
		transferRef string
		dryRun      bool
		noBackup    bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx <files...>",
		Short: "Import a bank or card statement from OFX/QFX files",
		Long: `Import statement lines from OFX or QFX files exported from your bank. Each
line becomes a two-entry transaction between the statement account and the
category a vendor mapping suggests, or the fallback account when none matches.
Lines already imported are skipped, so re-running an import is safe.`,
		Example: `  books import-ofx ~/Downloads/chase_jan_2024.qfx --account "Business Checking"
  books import-ofx ~/Downloads/*.qfx --account "Business Credit Card" --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			lines := readStatements(cmd.Context(), files)
			if len(lines) == 0 {
				fmt.Fprintln(out(cmd), cli.FormatWarning("No statement lines found"))
				return nil
			}

			if dryRun {
				printStatementPreview(cmd, lines)
				return nil
			}

			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			account, err := a.ledger.ResolveAccount(ctx, owner, accountRef)
			if err != nil {
				return fmt.Errorf("statement account: %w", err)
			}
			fallback, err := a.ledger.ResolveAccount(ctx, owner, fallbackRef)
			if err != nil {
				return fmt.Errorf("fallback account: %w", err)
			}

			opts := engine.ImportOptions{
				AccountID:         account.ID,
				FallbackAccountID: fallback.ID,
			}
			if incomeRef != "" {
				income, err := a.ledger.ResolveAccount(ctx, owner, incomeRef)
				if err != nil {
					return fmt.Errorf("income account: %w", err)
				}
				opts.IncomeAccountID = income.ID
			}
			if transferRef != "" {
				transfer, err := a.ledger.ResolveAccount(ctx, owner, transferRef)
				if err != nil {
					return fmt.Errorf("transfer account: %w", err)
				}
				opts.TransferAccountID = transfer.ID
			}

			if a.cfg.AutoBackup && !noBackup {
				if err := autoBackup(ctx, a.store, "import-ofx"); err != nil {
					return err
				}
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "import",
				"Transactions posted so far are kept; re-run the same import to continue.")
			ctx = handler.HandleInterrupts(ctx)

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(lines), "Importing")
			opts.Progress = bar
			result, err := a.ledger.ImportStatement(ctx, owner, lines, opts)
			_ = bar.Finish()
			if err != nil && !handler.WasInterrupted() {
				return err
			}

			if result != nil {
				summary := fmt.Sprintf("Imported:  %d\nSkipped:   %d\nCategorized by vendor mapping: %d\nRecognized as income or transfer: %d",
					result.Imported, result.Skipped, result.Suggested, result.Detected)
				fmt.Fprintln(out(cmd), cli.RenderBox(cli.FolderIcon+" Import into "+account.Name, summary))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&accountRef, "account", "a", "", "account the statement belongs to")
	cmd.Flags().StringVar(&fallbackRef, "fallback", ledger.UncategorizedExpense, "account for lines no vendor mapping matches")
	cmd.Flags().StringVar(&incomeRef, "income-account", "", "account for unmapped lines that look like income (payroll, interest)")
	cmd.Flags().StringVar(&transferRef, "transfer-account", "", "account for unmapped lines that look like transfers or card payments")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "parse and preview without posting")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the automatic backup before importing")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

// expandFiles resolves globs; arguments that match nothing are kept when they
// name an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// readStatements parses every file, skipping the ones that fail. FITIDs are
// only unique per account, so external IDs are qualified with the account.
func readStatements(ctx context.Context, files []string) []model.StatementLine {
	parser := ofx.NewParser()
	seen := make(map[string]bool)

	var lines []model.StatementLine
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}
		parsed, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}

		added := 0
		for _, line := range parsed {
			if line.ExternalID != "" {
				line.ExternalID = line.AccountRef + ":" + line.ExternalID
				if seen[line.ExternalID] {
					continue
				}
				seen[line.ExternalID] = true
			}
			lines = append(lines, line)
			added++
		}
		slog.Info("Read statement", "file", filepath.Base(path), "lines", len(parsed), "added", added)
	}
	return lines
}

func printStatementPreview(cmd *cobra.Command, lines []model.StatementLine) {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []string{line.Date.Format(model.DateLayout), line.Description, cli.FormatAmount(line.Amount), line.AccountRef})
	}
	fmt.Fprintln(out(cmd), cli.RenderTable([]string{"Date", "Description", "Amount", "Account"}, rows, 2))
	fmt.Fprintln(out(cmd), cli.FormatInfo(fmt.Sprintf("Dry run: %d lines, nothing posted", len(lines))))
}

func autoBackup(ctx context.Context, store *storage.SQLiteStorage, operation string) error {
	bm, err := storage.NewBackupManager(store)
	if err != nil {
		return err
	}
	info, err := bm.AutoBackup(ctx, operation)
	if err != nil {
		return fmt.Errorf("failed to back up before %s: %w", operation, err)
	}
	slog.Debug("created automatic backup", "backup", info.ID)
	return nil
}
