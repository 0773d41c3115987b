// Package pattern maps free-text vendor strings onto accounts using an
// owner's vendor mapping rules.
package pattern

import (
	"context"

	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// MappingSource loads an owner's vendor mappings in insertion order.
type MappingSource interface {
	GetVendorMappings(ctx context.Context, owner model.Owner) ([]model.VendorMapping, error)
}

// Suggester resolves a vendor string to a suggested account.
type Suggester interface {
	// SuggestCategory returns the target account of the first matching
	// mapping, and false when nothing matches.
	SuggestCategory(ctx context.Context, owner model.Owner, vendorText string) (string, bool, error)
}
