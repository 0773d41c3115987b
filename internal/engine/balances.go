package engine

import (
	"context"

	"github.com/Veraticus/the-books-must-balance/internal/ledger"
	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// AccountBalances derives every account's balance from its entries, several
// accounts at a time. A store failure is logged and yields an empty list; a
// missing owner is reported as common.ErrUnauthorized.
func (l *Ledger) AccountBalances(ctx context.Context, owner model.Owner) ([]model.AccountBalance, error) {
	if err := owner.Validate(); err != nil {
		return []model.AccountBalance{}, err
	}

	accounts, err := l.storage.ListAccounts(ctx, owner)
	if err != nil {
		l.readFailed(ctx, err, "account balances", owner)
		return []model.AccountBalance{}, nil
	}

	balances := make([]model.AccountBalance, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, account := range accounts {
		g.Go(func() error {
			total, err := l.balanceOf(gctx, owner, account)
			if err != nil {
				return err
			}
			balances[i] = model.AccountBalance{Account: account, Balance: total}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.readFailed(ctx, err, "account balances", owner)
		return []model.AccountBalance{}, nil
	}

	return balances, nil
}

// AccountBalance derives a single account's balance. Unlike the dashboard
// read it reports errors, so a missing account is distinguishable from zero.
func (l *Ledger) AccountBalance(ctx context.Context, owner model.Owner, accountID string) (decimal.Decimal, error) {
	account, err := l.storage.GetAccount(ctx, owner, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return l.balanceOf(ctx, owner, *account)
}

func (l *Ledger) balanceOf(ctx context.Context, owner model.Owner, account model.Account) (decimal.Decimal, error) {
	balance := ledger.NewBalance(account.Type)
	err := l.storage.StreamAccountEntries(ctx, owner, account.ID, func(e model.JournalEntry) error {
		balance.Add(e.Amount, e.Side)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Total(), nil
}
