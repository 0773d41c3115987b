package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/cli"
	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/engine"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func txnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "txn",
		Aliases: []string{"transactions", "transaction"},
		Short:   "Post, edit and inspect transactions",
		Long: `Transactions are sets of journal entries whose debits equal their credits.
Entries are given as ACCOUNT=AMOUNT where ACCOUNT is an account name or ID.`,
	}

	cmd.AddCommand(txnAddCmd())
	cmd.AddCommand(txnShowCmd())
	cmd.AddCommand(txnEditCmd())
	cmd.AddCommand(txnDeleteCmd())
	cmd.AddCommand(txnListCmd())
	cmd.AddCommand(txnReceiptCmd())
	cmd.AddCommand(txnEvidenceCmd())

	return cmd
}

type txnFlags struct {
	date        string
	description string
	evidence    string
	externalID  string
	debits      []string
	credits     []string
}

func (f *txnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "description")
	cmd.Flags().StringVar(&f.evidence, "evidence", "", "receipt reference")
	cmd.Flags().StringVar(&f.externalID, "external-id", "", "identifier from the source statement")
	cmd.Flags().StringArrayVar(&f.debits, "debit", nil, "debit entry ACCOUNT=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&f.credits, "credit", nil, "credit entry ACCOUNT=AMOUNT (repeatable)")
}

func txnAddCmd() *cobra.Command {
	var f txnFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a balanced transaction",
		Example: `  books txn add --date 2024-03-01 -d "Office Depot" \
    --debit "Office Supplies=42.17" --credit "Business Checking=42.17"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			input := model.TransactionInput{
				Date:        time.Now().UTC().Truncate(24 * time.Hour),
				Description: f.description,
				EvidenceRef: f.evidence,
				ExternalID:  f.externalID,
			}
			if f.date != "" {
				if input.Date, err = parseDate(f.date); err != nil {
					return err
				}
			}

			debits, err := parseEntries(ctx, a.ledger, owner, model.SideDebit, f.debits)
			if err != nil {
				return err
			}
			credits, err := parseEntries(ctx, a.ledger, owner, model.SideCredit, f.credits)
			if err != nil {
				return err
			}
			input.Entries = append(debits, credits...)

			txn, err := a.ledger.CreateTransaction(ctx, owner, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Posted %s (version %d)", txn.ID, txn.Version)))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func txnShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a transaction and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			txn, err := a.ledger.GetTransaction(ctx, owner, args[0])
			if err != nil {
				return err
			}
			accounts, err := a.ledger.ListAccounts(ctx, owner)
			if err != nil {
				return err
			}
			printTransaction(cmd, txn, accountNames(accounts))
			return nil
		},
	}
}

func printTransaction(cmd *cobra.Command, txn *model.Transaction, names map[string]string) {
	w := out(cmd)
	fmt.Fprintln(w, cli.FormatTitle(txn.Description))
	fmt.Fprintf(w, "%s %s   %s v%d\n",
		cli.SubtleStyle.Render("Date:"), txn.Date.Format(model.DateLayout),
		cli.SubtleStyle.Render("Version:"), txn.Version)
	if txn.EvidenceRef != "" {
		fmt.Fprintf(w, "%s %s\n", cli.SubtleStyle.Render("Evidence:"), txn.EvidenceRef)
	}
	if txn.ExternalID != "" {
		fmt.Fprintf(w, "%s %s\n", cli.SubtleStyle.Render("External ID:"), txn.ExternalID)
	}

	rows := make([][]string, 0, len(txn.Entries))
	for _, e := range txn.Entries {
		debit, credit := "", ""
		if e.Side == model.SideDebit {
			debit = e.Amount.StringFixed(2)
		} else {
			credit = e.Amount.StringFixed(2)
		}
		name := names[e.AccountID]
		if name == "" {
			name = e.AccountID
		}
		rows = append(rows, []string{name, debit, credit})
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"Account", "Debit", "Credit"}, rows, 1, 2))
}

func txnEditCmd() *cobra.Command {
	var (
		f       txnFlags
		version int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a transaction's details or entries",
		Long: `Edit a transaction. Fields not given keep their current values; giving any
--debit or --credit replaces the whole set of entries. --version defaults to
the version just read, pass the one you last saw to guard against concurrent
edits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			txn, err := a.ledger.GetTransaction(ctx, owner, args[0])
			if err != nil {
				return err
			}

			input := model.TransactionInput{
				Date:        txn.Date,
				Description: txn.Description,
				EvidenceRef: txn.EvidenceRef,
				ExternalID:  txn.ExternalID,
				Version:     txn.Version,
			}
			for _, e := range txn.Entries {
				input.Entries = append(input.Entries, model.EntryInput{AccountID: e.AccountID, Amount: e.Amount, Side: e.Side})
			}

			flags := cmd.Flags()
			if flags.Changed("version") {
				input.Version = version
			}
			if flags.Changed("date") {
				if input.Date, err = parseDate(f.date); err != nil {
					return err
				}
			}
			if flags.Changed("desc") {
				input.Description = f.description
			}
			if flags.Changed("evidence") {
				input.EvidenceRef = f.evidence
			}
			if flags.Changed("external-id") {
				input.ExternalID = f.externalID
			}
			if len(f.debits) > 0 || len(f.credits) > 0 {
				debits, err := parseEntries(ctx, a.ledger, owner, model.SideDebit, f.debits)
				if err != nil {
					return err
				}
				credits, err := parseEntries(ctx, a.ledger, owner, model.SideCredit, f.credits)
				if err != nil {
					return err
				}
				input.Entries = append(debits, credits...)
			}

			updated, err := a.ledger.UpdateTransaction(ctx, owner, txn.ID, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Updated %s (version %d)", updated.ID, updated.Version)))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().IntVar(&version, "version", 0, "version you last read")
	return cmd
}

func txnDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if !yes {
				ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out(cmd), fmt.Sprintf("Delete transaction %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out(cmd), cli.FormatInfo("Cancelled"))
					return nil
				}
			}

			if err := a.ledger.DeleteTransaction(ctx, owner, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func txnListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
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

			txns, err := a.ledger.ListTransactions(ctx, owner, period)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Fprintln(out(cmd), cli.FormatInfo("No transactions found"))
				return nil
			}

			rows := make([][]string, 0, len(txns))
			for _, txn := range txns {
				total := decimal.Zero
				for _, e := range txn.Entries {
					if e.Side == model.SideDebit {
						total = total.Add(e.Amount)
					}
				}
				rows = append(rows, []string{
					txn.Date.Format(model.DateLayout),
					txn.Description,
					total.StringFixed(2),
					fmt.Sprintf("%d", txn.Version),
					txn.ID,
				})
			}
			fmt.Fprintln(out(cmd), cli.RenderTable([]string{"Date", "Description", "Amount", "Ver", "ID"}, rows, 2))
			return nil
		},
	}

	addPeriodFlags(cmd.Flags())
	return cmd
}

// receiptFile is the JSON an OCR tool writes for one receipt.
type receiptFile struct {
	Date         string           `json:"date"`
	Vendor       string           `json:"vendor"`
	CardLastFour string           `json:"card_last_four"`
	Total        *decimal.Decimal `json:"total"`
	Tax          *decimal.Decimal `json:"tax"`
	Tip          *decimal.Decimal `json:"tip"`
	LineItems    []struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
	} `json:"line_items"`
}

func (r receiptFile) fields() (model.ReceiptFields, error) {
	fields := model.ReceiptFields{
		Vendor:       r.Vendor,
		CardLastFour: r.CardLastFour,
		TotalAmount:  r.Total,
		Tax:          r.Tax,
		Tip:          r.Tip,
	}
	if r.Date != "" {
		d, err := parseDate(r.Date)
		if err != nil {
			return fields, err
		}
		fields.Date = &d
	}
	for _, item := range r.LineItems {
		fields.LineItems = append(fields.LineItems, model.ReceiptLineItem{Amount: item.Amount, Description: item.Description})
	}
	return fields, nil
}

func txnReceiptCmd() *cobra.Command {
	var (
		defaultAccount string
		evidence       string
		post           bool
	)

	cmd := &cobra.Command{
		Use:   "receipt <receipt.json>",
		Short: "Draft a transaction from OCR'd receipt fields",
		Long: `Read receipt fields extracted by an OCR tool and pre-fill a transaction. The
category comes from vendor mappings and the paying account from the card's
last four digits, falling back to --default-account. With --post the draft
is posted when it is complete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read receipt: %w", err)
			}
			var rf receiptFile
			if err := json.Unmarshal(data, &rf); err != nil {
				return fmt.Errorf("%w: receipt %s: %v", common.ErrInvalidInput, args[0], err)
			}
			fields, err := rf.fields()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var defaultID string
			if defaultAccount != "" {
				acct, err := a.ledger.ResolveAccount(ctx, owner, defaultAccount)
				if err != nil {
					return err
				}
				defaultID = acct.ID
			}

			draft, err := a.ledger.DraftFromReceipt(ctx, owner, fields, defaultID)
			if err != nil {
				return err
			}
			draft.Input.EvidenceRef = evidence

			accounts, err := a.ledger.ListAccounts(ctx, owner)
			if err != nil {
				return err
			}
			printDraft(cmd, draft, accountNames(accounts))

			if !post {
				return nil
			}
			if len(draft.Input.Entries) == 0 || draft.Input.Date.IsZero() {
				return common.NewUserError("draft is incomplete; post it with 'books txn add' instead", common.ErrInvalidInput)
			}
			txn, err := a.ledger.CreateTransaction(ctx, owner, draft.Input)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), cli.FormatSuccess(fmt.Sprintf("Posted %s", txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultAccount, "default-account", "", "paying account when no card matches")
	cmd.Flags().StringVar(&evidence, "evidence", "", "receipt reference to store with the transaction")
	cmd.Flags().BoolVar(&post, "post", false, "post the draft")
	return cmd
}

func printDraft(cmd *cobra.Command, draft *model.TransactionDraft, names map[string]string) {
	orUnknown := func(s string) string {
		if s == "" {
			return cli.WarningStyle.Render("unknown")
		}
		return s
	}

	date := ""
	if !draft.Input.Date.IsZero() {
		date = draft.Input.Date.Format(model.DateLayout)
	}
	amount := ""
	if len(draft.Input.Entries) > 0 {
		amount = draft.Input.Entries[0].Amount.StringFixed(2)
	}
	category := orUnknown(names[draft.CategoryAccountID])
	if draft.Suggested {
		category += " " + cli.SubtleStyle.Render("(vendor mapping)")
	}

	content := fmt.Sprintf("Date:     %s\nVendor:   %s\nAmount:   %s\nCategory: %s\nPaid by:  %s",
		orUnknown(date),
		orUnknown(draft.Input.Description),
		orUnknown(amount),
		category,
		orUnknown(names[draft.PaymentAccountID]))
	fmt.Fprintln(out(cmd), cli.RenderBox("Receipt draft", content))
}

func txnEvidenceCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "evidence <id>",
		Short: "Print a time-limited link to a transaction's receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openOwnerApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			url, err := a.ledger.EvidenceURL(ctx, owner, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), url)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", engine.DefaultEvidenceTTL, "how long the link stays valid")
	return cmd
}
