package domain

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeTopup TransactionType = "TOPUP"
	TransactionTypeBonus TransactionType = "BONUS"
	TransactionTypeSpend TransactionType = "SPEND"
	// Reserved for future flows; the engine does not accept them yet.
	TransactionTypeRefund     TransactionType = "REFUND"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

func (t TransactionType) Processable() bool {
	switch t {
	case TransactionTypeTopup, TransactionTypeBonus, TransactionTypeSpend:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
)

func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusReversed
}

type Transaction struct {
	ID             string
	Type           TransactionType
	Status         TransactionStatus
	UserID         string
	AssetTypeCode  string
	Amount         decimal.Decimal
	Description    *string
	Metadata       json.RawMessage
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewTransactionID() string {
	return "txn_" + shortHex()
}

func NewLedgerEntryID() string {
	return "led_" + shortHex()
}

func shortHex() string {
	u := uuid.New()
	return hex.EncodeToString(u[:8])
}
