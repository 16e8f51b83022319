package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount          = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be positive with at most two decimal places"}
	ErrAmountTooSmall         = &AppError{http.StatusBadRequest, "AMOUNT_TOO_SMALL", "Amount is below the minimum transaction amount"}
	ErrAmountTooLarge         = &AppError{http.StatusBadRequest, "AMOUNT_TOO_LARGE", "Amount is above the maximum transaction amount"}
	ErrUnknownAssetType       = &AppError{http.StatusBadRequest, "UNKNOWN_ASSET_TYPE", "Asset type does not exist"}
	ErrAssetTypeInactive      = &AppError{http.StatusBadRequest, "ASSET_TYPE_INACTIVE", "Asset type is not active"}
	ErrMissingIdempotencyKey  = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "idempotency_key is required"}
	ErrInvalidTransactionType = &AppError{http.StatusBadRequest, "INVALID_TRANSACTION_TYPE", "Transaction type is not supported"}

	ErrInsufficientBalance = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Insufficient balance"}
	ErrAccountBusy         = &AppError{http.StatusServiceUnavailable, "ACCOUNT_BUSY", "Account is locked by another transaction, retry shortly"}
	ErrLedgerIntegrity     = &AppError{http.StatusInternalServerError, "LEDGER_INTEGRITY", "Ledger integrity violation"}
)
