package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dinoventures/wallet-service/internal/domain"
	"github.com/dinoventures/wallet-service/internal/logging"
)

type userService interface {
	Users(ctx context.Context) ([]domain.UserSummary, error)
	Accounts(ctx context.Context, userID string) ([]domain.Account, error)
}

type UserHandler struct {
	wallet userService
}

func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{wallet: svc}
}

type userSummaryDTO struct {
	UserID       string `json:"user_id"`
	AccountCount int    `json:"account_count"`
}

type accountDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AssetTypeCode string    `json:"asset_type_code"`
	AccountType   string    `json:"account_type"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:            a.ID,
		UserID:        a.UserID,
		AssetTypeCode: a.AssetTypeCode,
		AccountType:   string(a.Kind),
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// List returns every user id holding at least one account, system
// accounts excluded.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.wallet.Users(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Warn("user listing failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]userSummaryDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, userSummaryDTO{UserID: u.UserID, AccountCount: u.AccountCount})
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *UserHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	accounts, err := h.wallet.Accounts(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("account listing failed", "user_id", userID, "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, 0, len(accounts))
	for i := range accounts {
		dtos = append(dtos, toAccountDTO(&accounts[i]))
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
