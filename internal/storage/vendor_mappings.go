package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/Veraticus/the-books-must-balance/internal/pattern"
)

// CreateVendorMapping stores a pattern that routes matching vendor text to an
// expense account. The pattern is normalized before it is written.
func (s *SQLiteStorage) CreateVendorMapping(ctx context.Context, owner model.Owner, vendorPattern, accountID string) (*model.VendorMapping, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}
	normalized := pattern.Normalize(vendorPattern)
	if normalized == "" {
		return nil, fmt.Errorf("%w: pattern cannot be empty", ErrInvalidVendorMapping)
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	mapping := &model.VendorMapping{
		OwnerID:   owner,
		Pattern:   normalized,
		AccountID: accountID,
		CreatedAt: time.Now().UTC(),
	}

	if err := requireOwnedAccount(ctx, s.db, owner, accountID); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO vendor_mappings (owner_id, pattern, account_id, created_at)
		VALUES (?, ?, ?, ?)
	`, owner, mapping.Pattern, mapping.AccountID, mapping.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save vendor mapping: %w", err)
	}
	if mapping.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read vendor mapping id: %w", err)
	}

	s.invalidateMappings(owner)
	return mapping, nil
}

// GetVendorMappings returns the owner's mappings in creation order. Earlier
// mappings win when several patterns match.
func (s *SQLiteStorage) GetVendorMappings(ctx context.Context, owner model.Owner) ([]model.VendorMapping, error) {
	if err := validateScope(ctx, owner); err != nil {
		return nil, err
	}

	if mappings, ok := s.cachedMappings(owner); ok {
		return mappings, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, pattern, account_id, created_at
		FROM vendor_mappings
		WHERE owner_id = ?
		ORDER BY id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []model.VendorMapping
	for rows.Next() {
		var m model.VendorMapping
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Pattern, &m.AccountID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vendor mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor mappings: %w", err)
	}

	s.cacheMappings(owner, mappings)
	return mappings, nil
}

// DeleteVendorMapping removes one mapping.
func (s *SQLiteStorage) DeleteVendorMapping(ctx context.Context, owner model.Owner, id int64) error {
	if err := validateScope(ctx, owner); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM vendor_mappings WHERE id = ? AND owner_id = ?
	`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete vendor mapping: %w", err)
	}
	if err := requireAffected(result, "vendor mapping"); err != nil {
		return err
	}

	s.invalidateMappings(owner)
	return nil
}

// cachedMappings returns a copy of the owner's cached mappings if they have
// not expired.
func (s *SQLiteStorage) cachedMappings(owner model.Owner) ([]model.VendorMapping, bool) {
	s.cacheMutex.RLock()
	entry, ok := s.mappingCache[owner]
	s.cacheMutex.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiry) {
		s.invalidateMappings(owner)
		return nil, false
	}

	out := make([]model.VendorMapping, len(entry.mappings))
	copy(out, entry.mappings)
	return out, true
}

func (s *SQLiteStorage) cacheMappings(owner model.Owner, mappings []model.VendorMapping) {
	stored := make([]model.VendorMapping, len(mappings))
	copy(stored, mappings)

	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.mappingCache[owner] = cachedMappings{
		mappings: stored,
		expiry:   time.Now().Add(mappingCacheTTL),
	}
}

func (s *SQLiteStorage) invalidateMappings(owner model.Owner) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	delete(s.mappingCache, owner)
}
