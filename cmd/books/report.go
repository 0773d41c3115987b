package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-books-must-balance/internal/cli"
	"github.com/Veraticus/the-books-must-balance/internal/config"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/Veraticus/the-books-must-balance/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Financial reports derived from the ledger",
	}

	cmd.PersistentFlags().Bool("json", false, "print the report as JSON")
	addPeriodFlags(cmd.PersistentFlags())

	cmd.AddCommand(reportFinancialCmd())
	cmd.AddCommand(reportMonthlyCmd())
	cmd.AddCommand(reportGroupCmd("categories", "Expense totals per category account", "Category"))
	cmd.AddCommand(reportGroupCmd("vendors", "Expense totals per vendor", "Vendor"))
	cmd.AddCommand(reportExportCmd())

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(out(cmd))
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func reportFinancialCmd() *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "financial",
		Short: "Income, expenses and net for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.ledger.FinancialReport(ctx, owner, period)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, report)
			}

			summary := fmt.Sprintf("Income:   %s\nExpenses: %s\nNet:      %s\n\n%d transactions",
				report.Summary.Income.StringFixed(2),
				report.Summary.Expenses.StringFixed(2),
				cli.FormatAmount(report.Summary.Net),
				len(report.Transactions))
			fmt.Fprintln(out(cmd), cli.RenderBox(cli.ChartIcon+" Financial Report", summary))

			if details && len(report.Transactions) > 0 {
				rows := make([][]string, 0, len(report.Transactions))
				for _, t := range report.Transactions {
					rows = append(rows, []string{
						t.Date.Format(model.DateLayout),
						t.Description,
						t.CategoryName,
						string(t.Category),
						t.Amount.StringFixed(2),
					})
				}
				fmt.Fprintln(out(cmd), cli.RenderTable([]string{"Date", "Description", "Category", "Type", "Amount"}, rows, 4))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&details, "details", false, "list every classified transaction")
	return cmd
}

func reportMonthlyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Income, expenses and savings per calendar month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			months, err := a.ledger.MonthlyFinancials(ctx, owner, period)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, months)
			}
			if len(months) == 0 {
				fmt.Fprintln(out(cmd), cli.FormatInfo("No income or expenses in this period"))
				return nil
			}

			rows := make([][]string, 0, len(months))
			for _, m := range months {
				rows = append(rows, []string{m.Month, m.Income.StringFixed(2), m.Expenses.StringFixed(2), cli.FormatAmount(m.Savings)})
			}
			fmt.Fprintln(out(cmd), cli.RenderTable([]string{"Month", "Income", "Expenses", "Savings"}, rows, 1, 2, 3))
			return nil
		},
	}
}

func reportGroupCmd(use, short, label string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var groups []model.GroupTotal
			if use == "vendors" {
				groups, err = a.ledger.VendorSpend(ctx, owner, period)
			} else {
				groups, err = a.ledger.CategorySpend(ctx, owner, period)
			}
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, groups)
			}
			if len(groups) == 0 {
				fmt.Fprintln(out(cmd), cli.FormatInfo("No expenses in this period"))
				return nil
			}

			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				rows = append(rows, []string{g.Name, g.Amount.StringFixed(2)})
			}
			fmt.Fprintln(out(cmd), cli.RenderTable([]string{label, "Amount"}, rows, 1))
			return nil
		},
	}
}

func reportExportCmd() *cobra.Command {
	var login bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every report to a Google Sheets spreadsheet",
		Long: `Export the financial summary, monthly breakdown, category and vendor spend,
and the transaction list to Google Sheets. Configure either a service account
(sheets.service_account_path) or OAuth client credentials (sheets.client_id,
sheets.client_secret); with OAuth, run once with --login to authorize.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := periodFromFlags(cmd)
			if err != nil {
				return err
			}

			sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if login {
				if sheetsCfg.TokenFile == "" {
					return fmt.Errorf("--login needs OAuth client credentials without a refresh token")
				}
				if _, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
					ClientID:     sheetsCfg.ClientID,
					ClientSecret: sheetsCfg.ClientSecret,
					TokenFile:    sheetsCfg.TokenFile,
				}); err != nil {
					return err
				}
			}

			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			export := sheets.Export{Owner: owner}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				export.Report, err = a.ledger.FinancialReport(gctx, owner, period)
				return err
			})
			g.Go(func() (err error) {
				export.Monthly, err = a.ledger.MonthlyFinancials(gctx, owner, period)
				return err
			})
			g.Go(func() (err error) {
				export.Categories, err = a.ledger.CategorySpend(gctx, owner, period)
				return err
			})
			g.Go(func() (err error) {
				export.Vendors, err = a.ledger.VendorSpend(gctx, owner, period)
				return err
			})
			g.Go(func() (err error) {
				export.Balances, err = a.ledger.AccountBalances(gctx, owner)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
			if err != nil {
				return err
			}
			url, err := writer.Write(ctx, export)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess("Exported to "+url))
			return nil
		},
	}

	cmd.Flags().BoolVar(&login, "login", false, "authorize with Google in the browser first")
	return cmd
}
