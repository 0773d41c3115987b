package engine

import (
	"context"

	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// SuggestCategory returns the account of the first vendor mapping contained
// in vendorText. A store failure is logged and treated as no suggestion.
func (l *Ledger) SuggestCategory(ctx context.Context, owner model.Owner, vendorText string) (string, bool, error) {
	if err := owner.Validate(); err != nil {
		return "", false, err
	}

	accountID, ok, err := l.mapper.SuggestCategory(ctx, owner, vendorText)
	if err != nil {
		l.readFailed(ctx, err, "suggest category", owner)
		return "", false, nil
	}
	return accountID, ok, nil
}

// CreateVendorMapping routes vendor text containing pattern to accountID.
func (l *Ledger) CreateVendorMapping(ctx context.Context, owner model.Owner, pattern, accountID string) (*model.VendorMapping, error) {
	return l.storage.CreateVendorMapping(ctx, owner, pattern, accountID)
}

// ListVendorMappings returns mappings in the order they are consulted.
func (l *Ledger) ListVendorMappings(ctx context.Context, owner model.Owner) ([]model.VendorMapping, error) {
	return l.storage.GetVendorMappings(ctx, owner)
}

// DeleteVendorMapping removes a mapping.
func (l *Ledger) DeleteVendorMapping(ctx context.Context, owner model.Owner, id int64) error {
	return l.storage.DeleteVendorMapping(ctx, owner, id)
}
