package pattern

import (
	"context"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// Normalize is the canonical form of a vendor pattern: trimmed and
// lower-cased. Patterns are stored and compared in this form.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matcher evaluates vendor text against a fixed list of mappings.
type Matcher struct {
	mappings []model.VendorMapping
}

// NewMatcher creates a matcher over mappings in the order they were created.
func NewMatcher(mappings []model.VendorMapping) *Matcher {
	return &Matcher{mappings: mappings}
}

// Match returns the first mapping whose pattern is contained in vendorText,
// ignoring case. Earlier mappings win; there is no longest-match ranking.
func (m *Matcher) Match(vendorText string) (model.VendorMapping, bool) {
	text := strings.ToLower(vendorText)
	if strings.TrimSpace(text) == "" {
		return model.VendorMapping{}, false
	}

	for _, mapping := range m.mappings {
		p := Normalize(mapping.Pattern)
		if p == "" {
			continue
		}
		if strings.Contains(text, p) {
			return mapping, true
		}
	}

	return model.VendorMapping{}, false
}

// Mapper is the Suggester backed by persisted mappings.
type Mapper struct {
	source MappingSource
}

// NewMapper creates a mapper reading mappings from source.
func NewMapper(source MappingSource) *Mapper {
	return &Mapper{source: source}
}

// SuggestCategory implements Suggester.
func (m *Mapper) SuggestCategory(ctx context.Context, owner model.Owner, vendorText string) (string, bool, error) {
	if err := owner.Validate(); err != nil {
		return "", false, err
	}

	mappings, err := m.source.GetVendorMappings(ctx, owner)
	if err != nil {
		return "", false, err
	}

	mapping, ok := NewMatcher(mappings).Match(vendorText)
	if !ok {
		return "", false, nil
	}
	return mapping.AccountID, true, nil
}
