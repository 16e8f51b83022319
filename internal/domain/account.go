package domain

import "time"

type AccountKind string

const (
	AccountKindUser   AccountKind = "USER"
	AccountKindSystem AccountKind = "SYSTEM"
)

// TreasuryUserID owns the system counterparty account for every asset type.
const TreasuryUserID = "SYSTEM_TREASURY"

type Account struct {
	ID            string
	UserID        string
	Kind          AccountKind
	AssetTypeCode string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccountID derives the deterministic account identifier for a user/asset
// pair. Treasury accounts use the same scheme with TreasuryUserID.
func AccountID(userID, assetTypeCode string) string {
	return userID + "_" + assetTypeCode
}

// UserSummary is one row of the user directory: a user id plus how many
// asset accounts it holds.
type UserSummary struct {
	UserID       string
	AccountCount int
}
