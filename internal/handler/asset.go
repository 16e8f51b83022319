package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dinoventures/wallet-service/internal/domain"
	"github.com/dinoventures/wallet-service/internal/logging"
)

type assetService interface {
	Assets(ctx context.Context) ([]domain.AssetType, error)
	AssetTotals(ctx context.Context) ([]domain.AssetTotal, error)
}

type AssetHandler struct {
	wallet assetService
}

func NewAssetHandler(svc assetService) *AssetHandler {
	return &AssetHandler{wallet: svc}
}

type assetTypeDTO struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type assetTotalDTO struct {
	AssetTypeCode string `json:"asset_type_code"`
	Net           string `json:"net"`
	EntryCount    int64  `json:"entry_count"`
	Balanced      bool   `json:"balanced"`
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.wallet.Assets(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Warn("asset listing failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]assetTypeDTO, 0, len(assets))
	for _, a := range assets {
		dtos = append(dtos, assetTypeDTO{
			Code:        a.Code,
			Name:        a.Name,
			Description: a.Description,
			IsActive:    a.IsActive,
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		})
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

// Totals reports the signed ledger sum per asset type. Every total nets
// to zero on a healthy journal, so this doubles as a drift check.
func (h *AssetHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.wallet.AssetTotals(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Warn("asset totals failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]assetTotalDTO, 0, len(totals))
	for _, t := range totals {
		dtos = append(dtos, assetTotalDTO{
			AssetTypeCode: t.AssetTypeCode,
			Net:           t.Net.StringFixed(2),
			EntryCount:    t.EntryCount,
			Balanced:      t.Net.IsZero(),
		})
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
