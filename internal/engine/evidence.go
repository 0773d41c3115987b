package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/common"
	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// DefaultEvidenceTTL is how long a receipt link stays valid.
const DefaultEvidenceTTL = 15 * time.Minute

// EvidenceURL turns a transaction's stored receipt reference into a
// time-limited link.
func (l *Ledger) EvidenceURL(ctx context.Context, owner model.Owner, transactionID string, ttl time.Duration) (string, error) {
	txn, err := l.storage.GetTransaction(ctx, owner, transactionID)
	if err != nil {
		return "", err
	}
	if txn.EvidenceRef == "" {
		return "", fmt.Errorf("%w: transaction has no evidence", common.ErrEvidenceUnavailable)
	}
	if l.evidence == nil {
		return "", fmt.Errorf("%w: no evidence resolver configured", common.ErrEvidenceUnavailable)
	}
	if ttl <= 0 {
		ttl = DefaultEvidenceTTL
	}

	url, err := l.evidence.SignedURL(ctx, txn.EvidenceRef, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrEvidenceUnavailable, err)
	}
	return url, nil
}
