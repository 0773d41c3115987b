package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/cli"
	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage the chart of accounts",
		Long:    `Create, rename and delete ledger accounts, and show their balances.`,
	}

	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsRenameCmd())
	cmd.AddCommand(accountsDeleteCmd())
	cmd.AddCommand(accountsSeedCmd())
	cmd.AddCommand(accountsBalancesCmd())

	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			accounts, err := a.ledger.ListAccounts(ctx, owner)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Fprintln(out(cmd), cli.FormatInfo("No accounts yet. Run 'books accounts seed' to create the defaults."))
				return nil
			}

			rows := make([][]string, 0, len(accounts))
			for _, acct := range accounts {
				rows = append(rows, []string{acct.Name, string(acct.Type), acct.ID})
			}
			fmt.Fprintln(out(cmd), cli.RenderTable([]string{"Name", "Type", "ID"}, rows))
			return nil
		},
	}
}

func accountsAddCmd() *cobra.Command {
	var accountType string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account",
		Example: `  books accounts add "Business Checking" --type asset
  books accounts add "Office Supplies" --type expense`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := model.AccountType(strings.ToUpper(accountType))
			if !t.IsValid() {
				return fmt.Errorf("%w: unknown account type %q", common.ErrInvalidInput, accountType)
			}

			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.ledger.CreateAccount(ctx, owner, args[0], t)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Created %s account %q (%s)", acct.Type, acct.Name, acct.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&accountType, "type", "t", "", "account type: asset, liability, equity, income or expense")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func accountsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <account> <new-name>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.ledger.ResolveAccount(ctx, owner, args[0])
			if err != nil {
				return err
			}
			if err := a.ledger.RenameAccount(ctx, owner, acct.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Renamed %q to %q", acct.Name, args[1])))
			return nil
		},
	}
}

func accountsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account with no journal entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.ledger.ResolveAccount(ctx, owner, args[0])
			if err != nil {
				return err
			}

			if !yes {
				ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out(cmd), fmt.Sprintf("Delete account %q?", acct.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out(cmd), cli.FormatInfo("Cancelled"))
					return nil
				}
			}

			if err := a.ledger.DeleteAccount(ctx, owner, acct.ID); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Deleted account %q", acct.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func accountsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default chart of accounts",
		Long: `Create the default chart of accounts for the owner. Accounts that already
exist are left alone, so seeding is safe to repeat.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.ledger.SeedDefaultAccounts(ctx, owner)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Seeded %d accounts", len(created))))
			return nil
		},
	}
}

func accountsBalancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "balances",
		Aliases: []string{"balance"},
		Short:   "Show the balance of every account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			balances, err := a.ledger.AccountBalances(ctx, owner)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(balances))
			for _, b := range balances {
				rows = append(rows, []string{b.Account.Name, string(b.Account.Type), cli.FormatAmount(b.Balance)})
			}
			fmt.Fprintln(out(cmd), cli.FormatTitle(cli.LedgerIcon+" Balances"))
			fmt.Fprintln(out(cmd), cli.RenderTable([]string{"Account", "Type", "Balance"}, rows, 2))
			return nil
		},
	}
}
