package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryDirection string

const (
	EntryDirectionDebit  EntryDirection = "DEBIT"
	EntryDirectionCredit EntryDirection = "CREDIT"
)

// LedgerEntry is one half of a balanced pair. Both halves of a pair carry
// the same account references and amount; the DEBIT half adds the amount to
// the debit account, the CREDIT half subtracts it from the credit account.
type LedgerEntry struct {
	ID              string
	TransactionID   string
	Direction       EntryDirection
	DebitAccountID  string
	CreditAccountID string
	AssetTypeCode   string
	Amount          decimal.Decimal
	CreatedAt       time.Time
}

// NewEntryPair builds the balanced DEBIT/CREDIT halves for one transaction.
// Pairs are only ever created through this constructor so an unbalanced
// write is impossible by construction.
func NewEntryPair(transactionID, debitAccountID, creditAccountID, assetTypeCode string, amount decimal.Decimal, at time.Time) [2]LedgerEntry {
	return [2]LedgerEntry{
		{
			ID:              NewLedgerEntryID(),
			TransactionID:   transactionID,
			Direction:       EntryDirectionDebit,
			DebitAccountID:  debitAccountID,
			CreditAccountID: creditAccountID,
			AssetTypeCode:   assetTypeCode,
			Amount:          amount,
			CreatedAt:       at,
		},
		{
			ID:              NewLedgerEntryID(),
			TransactionID:   transactionID,
			Direction:       EntryDirectionCredit,
			DebitAccountID:  debitAccountID,
			CreditAccountID: creditAccountID,
			AssetTypeCode:   assetTypeCode,
			Amount:          amount,
			CreatedAt:       at,
		},
	}
}

type AssetBalance struct {
	AssetTypeCode string
	AccountID     string
	Balance       decimal.Decimal
}

// AssetTotal is the global signed sum of all entries for one asset type.
// A drift-free journal nets to zero for every asset.
type AssetTotal struct {
	AssetTypeCode string
	Net           decimal.Decimal
	EntryCount    int64
}
