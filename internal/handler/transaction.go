package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dinoventures/wallet-service/internal/domain"
	"github.com/dinoventures/wallet-service/internal/logging"
	"github.com/dinoventures/wallet-service/internal/service/wallet"
)

type transactionService interface {
	Process(ctx context.Context, req wallet.ProcessRequest) (*domain.Transaction, error)
	Transaction(ctx context.Context, id string) (*domain.Transaction, error)
	TransactionEntries(ctx context.Context, id string) ([]domain.LedgerEntry, error)
}

type TransactionHandler struct {
	wallet   transactionService
	validate *validator.Validate
}

func NewTransactionHandler(svc transactionService) *TransactionHandler {
	return &TransactionHandler{wallet: svc, validate: newValidator()}
}

type createTransactionRequest struct {
	UserID         string          `json:"user_id" validate:"required,max=100"`
	AssetType      string          `json:"asset_type" validate:"required,max=50"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required,max=255"`
	Metadata       json.RawMessage `json:"metadata"`
}

type transactionDTO struct {
	ID              string          `json:"id"`
	TransactionType string          `json:"transaction_type"`
	Status          string          `json:"status"`
	UserID          string          `json:"user_id"`
	AssetTypeCode   string          `json:"asset_type_code"`
	Amount          string          `json:"amount"`
	Description     *string         `json:"description"`
	Metadata        json.RawMessage `json:"metadata"`
	IdempotencyKey  string          `json:"idempotency_key"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:              t.ID,
		TransactionType: string(t.Type),
		Status:          string(t.Status),
		UserID:          t.UserID,
		AssetTypeCode:   t.AssetTypeCode,
		Amount:          t.Amount.StringFixed(2),
		Description:     t.Description,
		Metadata:        t.Metadata,
		IdempotencyKey:  t.IdempotencyKey,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

type ledgerEntryDTO struct {
	ID              string    `json:"id"`
	TransactionID   string    `json:"transaction_id"`
	EntryType       string    `json:"entry_type"`
	DebitAccountID  string    `json:"debit_account_id"`
	CreditAccountID string    `json:"credit_account_id"`
	AssetTypeCode   string    `json:"asset_type_code"`
	Amount          string    `json:"amount"`
	CreatedAt       time.Time `json:"created_at"`
}

func toLedgerEntryDTOs(entries []domain.LedgerEntry) []ledgerEntryDTO {
	dtos := make([]ledgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, ledgerEntryDTO{
			ID:              e.ID,
			TransactionID:   e.TransactionID,
			EntryType:       string(e.Direction),
			DebitAccountID:  e.DebitAccountID,
			CreditAccountID: e.CreditAccountID,
			AssetTypeCode:   e.AssetTypeCode,
			Amount:          e.Amount.StringFixed(2),
			CreatedAt:       e.CreatedAt,
		})
	}
	return dtos
}

func (h *TransactionHandler) Topup(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.TransactionTypeTopup)
}

func (h *TransactionHandler) Bonus(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.TransactionTypeBonus)
}

func (h *TransactionHandler) Spend(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.TransactionTypeSpend)
}

func (h *TransactionHandler) create(w http.ResponseWriter, r *http.Request, txType domain.TransactionType) {
	log := logging.FromContext(r.Context())

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		RespondValidationError(w, fieldErrors(err))
		return
	}

	txn, err := h.wallet.Process(r.Context(), wallet.ProcessRequest{
		UserID:         req.UserID,
		Type:           txType,
		AssetTypeCode:  req.AssetType,
		Amount:         req.Amount,
		Metadata:       req.Metadata,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		log.Warn("transaction rejected", "type", txType, "error", err)
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/transactions/%s", txn.ID))
	RespondSuccess(w, http.StatusCreated, toTransactionDTO(txn))
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.wallet.Transaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		logging.FromContext(r.Context()).Warn("transaction lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTO(txn))
}

func (h *TransactionHandler) Entries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.wallet.TransactionEntries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		logging.FromContext(r.Context()).Warn("entries lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toLedgerEntryDTOs(entries))
}
