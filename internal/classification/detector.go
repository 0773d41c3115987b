// Package classification recognizes statement lines that look like income or
// transfers between the owner's own accounts from their bank description.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/model"
)

// Kind is what a detected statement line appears to be.
type Kind string

const (
	// KindIncome is money earned: payroll, interest, client payments.
	KindIncome Kind = "income"
	// KindExpense is money spent.
	KindExpense Kind = "expense"
	// KindTransfer is money moved between the owner's own accounts.
	KindTransfer Kind = "transfer"
)

// Pattern is a named description regex. Higher priority patterns are tried
// first.
type Pattern struct {
	Name     string
	Kind     Kind
	Regex    string
	Priority int
}

type compiledPattern struct {
	regex *regexp.Regexp
	Pattern
}

// Match is the pattern a line matched.
type Match struct {
	Pattern string
	Kind    Kind
}

// Detector classifies statement lines by description. It is immutable and
// safe for concurrent use.
type Detector struct {
	patterns []compiledPattern
}

// NewDetector compiles patterns case-insensitively.
func NewDetector(patterns []Pattern) (*Detector, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		expr := p.Regex
		if !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}
		compiled = append(compiled, compiledPattern{Pattern: p, regex: re})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &Detector{patterns: compiled}, nil
}

// Default returns a detector over DefaultPatterns.
func Default() *Detector {
	d, err := NewDetector(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return d
}

// Detect returns the first pattern matching the line's description. Income
// patterns only apply to money in and expense patterns to money out;
// transfers go either way.
func (d *Detector) Detect(line model.StatementLine) (Match, bool) {
	if strings.TrimSpace(line.Description) == "" {
		return Match{}, false
	}

	for _, p := range d.patterns {
		switch {
		case p.Kind == KindIncome && !line.Amount.IsPositive():
			continue
		case p.Kind == KindExpense && !line.Amount.IsNegative():
			continue
		}
		if p.regex.MatchString(line.Description) {
			return Match{Pattern: p.Name, Kind: p.Kind}, true
		}
	}
	return Match{}, false
}

// Len returns the number of loaded patterns.
func (d *Detector) Len() int {
	return len(d.patterns)
}
