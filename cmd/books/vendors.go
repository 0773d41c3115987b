package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/the-books-must-balance/internal/cli"
	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/spf13/cobra"
)

func vendorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vendors",
		Aliases: []string{"vendor"},
		Short:   "Manage vendor categorization rules",
		Long: `Vendor mappings send transactions whose description contains a pattern to a
category account. When several match, the earliest mapping wins.`,
	}

	cmd.AddCommand(vendorsListCmd())
	cmd.AddCommand(vendorsAddCmd())
	cmd.AddCommand(vendorsDeleteCmd())
	cmd.AddCommand(vendorsSuggestCmd())

	return cmd
}

func vendorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vendor mappings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			mappings, err := a.ledger.ListVendorMappings(ctx, owner)
			if err != nil {
				return err
			}
			if len(mappings) == 0 {
				fmt.Fprintln(out(cmd), cli.FormatInfo("No vendor mappings yet"))
				return nil
			}

			accounts, err := a.ledger.ListAccounts(ctx, owner)
			if err != nil {
				return err
			}
			names := accountNames(accounts)

			rows := make([][]string, 0, len(mappings))
			for _, m := range mappings {
				rows = append(rows, []string{strconv.FormatInt(m.ID, 10), m.Pattern, names[m.AccountID]})
			}
			fmt.Fprintln(out(cmd), cli.RenderTable([]string{"ID", "Pattern", "Category"}, rows))
			return nil
		},
	}
}

func vendorsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <pattern> <account>",
		Short:   "Map a vendor pattern to a category account",
		Example: `  books vendors add "office depot" "Office Supplies"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.ledger.ResolveAccount(ctx, owner, args[1])
			if err != nil {
				return err
			}
			m, err := a.ledger.CreateVendorMapping(ctx, owner, args[0], acct.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Mapped %q to %q (#%d)", m.Pattern, acct.Name, m.ID)))
			return nil
		},
	}
}

func vendorsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vendor mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: mapping id %q", common.ErrInvalidInput, args[0])
			}

			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ledger.DeleteVendorMapping(ctx, owner, id); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Deleted mapping #%d", id)))
			return nil
		},
	}
}

func vendorsSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <description>",
		Short: "Show which category a description would be filed under",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			accountID, ok, err := a.ledger.SuggestCategory(ctx, owner, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out(cmd), cli.FormatWarning("No mapping matches"))
				return nil
			}

			acct, err := a.ledger.GetAccount(ctx, owner, accountID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(acct.Name))
			return nil
		},
	}
}
