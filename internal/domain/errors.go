package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrAmountTooSmall         = errors.New("amount below minimum transaction amount")
	ErrAmountTooLarge         = errors.New("amount above maximum transaction amount")
	ErrUnknownAssetType       = errors.New("unknown asset type")
	ErrAssetTypeInactive      = errors.New("asset type is not active")
	ErrMissingIdempotencyKey  = errors.New("idempotency key is required")
	ErrInvalidTransactionType = errors.New("transaction type not supported")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrLockTimeout            = errors.New("account lock acquisition timed out")
	ErrIntegrity              = errors.New("ledger integrity violation")
)
