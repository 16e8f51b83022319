package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dinoventures/wallet-service/internal/domain"
	"github.com/dinoventures/wallet-service/internal/logging"
)

type walletService interface {
	Balances(ctx context.Context, userID string) ([]domain.AssetBalance, error)
	History(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int, error)
}

type WalletHandler struct {
	wallet walletService
}

func NewWalletHandler(svc walletService) *WalletHandler {
	return &WalletHandler{wallet: svc}
}

type balanceDetailDTO struct {
	AssetType string `json:"asset_type"`
	Balance   string `json:"balance"`
	AccountID string `json:"account_id"`
}

type walletBalanceDTO struct {
	UserID    string             `json:"user_id"`
	Balances  []balanceDetailDTO `json:"balances"`
	Timestamp time.Time          `json:"timestamp"`
}

type historyDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	Total        int              `json:"total"`
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	balances, err := h.wallet.Balances(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("balance lookup failed", "user_id", userID, "error", err)
		RespondDomainError(w, err)
		return
	}

	details := make([]balanceDetailDTO, 0, len(balances))
	for _, b := range balances {
		details = append(details, balanceDetailDTO{
			AssetType: b.AssetTypeCode,
			Balance:   b.Balance.StringFixed(2),
			AccountID: b.AccountID,
		})
	}

	RespondSuccess(w, http.StatusOK, walletBalanceDTO{
		UserID:    userID,
		Balances:  details,
		Timestamp: time.Now().UTC(),
	})
}

func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	txns, total, err := h.wallet.History(r.Context(), userID, limit, offset)
	if err != nil {
		logging.FromContext(r.Context()).Warn("history lookup failed", "user_id", userID, "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, 0, len(txns))
	for i := range txns {
		dtos = append(dtos, toTransactionDTO(&txns[i]))
	}

	RespondSuccess(w, http.StatusOK, historyDTO{
		Transactions: dtos,
		Total:        total,
	})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
