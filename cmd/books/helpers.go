package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/config"
	"github.com/Veraticus/the-books-must-balance/internal/engine"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/Veraticus/the-books-must-balance/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg    *config.Config
	store  *storage.SQLiteStorage
	ledger *engine.Ledger
}

// openApp opens and migrates the database.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	ledgerCfg := engine.DefaultConfig()
	ledgerCfg.Workers = cfg.Workers

	return &app{
		cfg:    cfg,
		store:  store,
		ledger: engine.NewWithConfig(store, ledgerCfg),
	}, nil
}

// openOwnerApp opens the database for commands that act on one owner's books.
func openOwnerApp(ctx context.Context) (*app, model.Owner, error) {
	a, err := openApp(ctx)
	if err != nil {
		return nil, "", err
	}
	if err := a.cfg.Owner.Validate(); err != nil {
		_ = a.Close()
		return nil, "", common.NewUserError("no owner configured: pass --owner or set BOOKS_OWNER", err)
	}
	return a, a.cfg.Owner, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", common.ErrInvalidInput, s)
	}
	return d, nil
}

func addPeriodFlags(flags *pflag.FlagSet) {
	flags.String("start", "", "first day of the period (YYYY-MM-DD)")
	flags.String("end", "", "last day of the period (YYYY-MM-DD)")
	flags.String("year", "", "shorthand for a whole calendar year (YYYY)")
}

func periodFromFlags(cmd *cobra.Command) (model.Period, error) {
	var period model.Period

	if year, _ := cmd.Flags().GetString("year"); year != "" {
		start, err := time.Parse("2006", year)
		if err != nil {
			return period, fmt.Errorf("%w: year %q must be YYYY", common.ErrInvalidInput, year)
		}
		period.Start = start
		period.End = start.AddDate(1, 0, -1)
	}

	for _, f := range []struct {
		name string
		dst  *time.Time
	}{
		{"start", &period.Start},
		{"end", &period.End},
	} {
		raw, _ := cmd.Flags().GetString(f.name)
		if raw == "" {
			continue
		}
		d, err := parseDate(raw)
		if err != nil {
			return period, err
		}
		*f.dst = d
	}

	return period, nil
}

// parseEntries turns ACCOUNT=AMOUNT flag values into entry inputs. ACCOUNT may
// be an account ID or name.
func parseEntries(ctx context.Context, l *engine.Ledger, owner model.Owner, side model.EntrySide, values []string) ([]model.EntryInput, error) {
	entries := make([]model.EntryInput, 0, len(values))
	for _, v := range values {
		i := strings.LastIndex(v, "=")
		if i <= 0 {
			return nil, fmt.Errorf("%w: %q must be ACCOUNT=AMOUNT", common.ErrInvalidInput, v)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(v[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("%w: amount in %q: %v", common.ErrInvalidInput, v, err)
		}

		account, err := l.ResolveAccount(ctx, owner, strings.TrimSpace(v[:i]))
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", v[:i], err)
		}

		entries = append(entries, model.EntryInput{AccountID: account.ID, Amount: amount, Side: side})
	}
	return entries, nil
}

func accountNames(accounts []model.Account) map[string]string {
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return names
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
