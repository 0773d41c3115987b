package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/cli"
	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/spf13/cobra"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card", "payment-methods"},
		Short:   "Manage debit and credit cards linked to accounts",
		Long: `Cards link the last four digits printed on a receipt to the account that
paid it.`,
	}

	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsAddCmd())
	cmd.AddCommand(cardsEditCmd())
	cmd.AddCommand(cardsDeleteCmd())

	return cmd
}

func parseKind(s string) (model.PaymentMethodKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debit", "debit_card", "debit-card":
		return model.KindDebitCard, nil
	case "credit", "credit_card", "credit-card":
		return model.KindCreditCard, nil
	}
	return "", fmt.Errorf("%w: card kind must be debit or credit, got %q", common.ErrInvalidInput, s)
}

func cardsListCmd() *cobra.Command {
	var accountRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var accountID string
			if accountRef != "" {
				acct, err := a.ledger.ResolveAccount(ctx, owner, accountRef)
				if err != nil {
					return err
				}
				accountID = acct.ID
			}

			cards, err := a.ledger.ListPaymentMethods(ctx, owner, accountID)
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				fmt.Fprintln(out(cmd), cli.FormatInfo("No cards found"))
				return nil
			}

			accounts, err := a.ledger.ListAccounts(ctx, owner)
			if err != nil {
				return err
			}
			names := accountNames(accounts)

			rows := make([][]string, 0, len(cards))
			for _, pm := range cards {
				rows = append(rows, []string{pm.Name, string(pm.Kind), "•••• " + pm.LastFour, names[pm.AccountID], pm.ID})
			}
			fmt.Fprintln(out(cmd), cli.RenderTable([]string{"Name", "Kind", "Card", "Account", "ID"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "only cards linked to this account")
	return cmd
}

func cardsAddCmd() *cobra.Command {
	var (
		accountRef string
		kind       string
		lastFour   string
	)

	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Link a card to an account",
		Example: `  books cards add "Business Visa" --account "Business Credit Card" --kind credit --last4 4242`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.ledger.ResolveAccount(ctx, owner, accountRef)
			if err != nil {
				return err
			}

			pm := &model.PaymentMethod{
				AccountID: acct.ID,
				Kind:      k,
				Name:      args[0],
				LastFour:  lastFour,
			}
			if err := a.ledger.CreatePaymentMethod(ctx, owner, pm); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Linked %s •••• %s to %q (%s)", pm.Name, pm.LastFour, acct.Name, pm.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "account the card draws on")
	cmd.Flags().StringVar(&kind, "kind", "debit", "card kind: debit or credit")
	cmd.Flags().StringVar(&lastFour, "last4", "", "last four digits of the card number")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("last4")

	return cmd
}

func cardsEditCmd() *cobra.Command {
	var (
		accountRef string
		kind       string
		lastFour   string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "edit <card-id>",
		Short: "Change a card's name, kind, digits or account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			cards, err := a.ledger.ListPaymentMethods(ctx, owner, "")
			if err != nil {
				return err
			}
			var pm *model.PaymentMethod
			for i := range cards {
				if cards[i].ID == args[0] {
					pm = &cards[i]
					break
				}
			}
			if pm == nil {
				return fmt.Errorf("card %s: %w", args[0], common.ErrNotFound)
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				pm.Name = name
			}
			if flags.Changed("last4") {
				pm.LastFour = lastFour
			}
			if flags.Changed("kind") {
				if pm.Kind, err = parseKind(kind); err != nil {
					return err
				}
			}
			if flags.Changed("account") {
				acct, err := a.ledger.ResolveAccount(ctx, owner, accountRef)
				if err != nil {
					return err
				}
				pm.AccountID = acct.ID
			}

			if err := a.ledger.UpdatePaymentMethod(ctx, owner, pm); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Updated card %s", pm.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "new account")
	cmd.Flags().StringVar(&kind, "kind", "", "new kind: debit or credit")
	cmd.Flags().StringVar(&lastFour, "last4", "", "new last four digits")
	cmd.Flags().StringVar(&name, "name", "", "new name")

	return cmd
}

func cardsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Unlink a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ledger.DeletePaymentMethod(ctx, owner, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Deleted card %s", args[0])))
			return nil
		},
	}
}
