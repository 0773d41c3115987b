package model

import (
	"strings"

	"github.com/Veraticus/the-books-must-balance/internal/common"
)

// Owner identifies the user whose books an operation touches. Every read and
// write in the ledger is scoped to exactly one owner.
type Owner string

// Anonymous is the owner value produced when no user could be resolved.
const Anonymous Owner = ""

// Validate fails closed when no owner identity is present.
func (o Owner) Validate() error {
	if strings.TrimSpace(string(o)) == "" {
		return common.ErrUnauthorized
	}
	return nil
}

func (o Owner) String() string {
	return string(o)
}
