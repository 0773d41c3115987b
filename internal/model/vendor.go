package model

import "time"

// VendorMapping maps a normalized vendor substring to the account that
// transactions from that vendor should be categorized under.
type VendorMapping struct {
	CreatedAt time.Time `json:"created_at"`
	OwnerID   Owner     `json:"owner_id"`
	Pattern   string    `json:"pattern"`
	AccountID string    `json:"account_id"`
	ID        int64     `json:"id"`
}
