package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinoventures/wallet-service/internal/domain"
	"github.com/dinoventures/wallet-service/internal/service/wallet"
)

type mockTransactionService struct {
	captured *wallet.ProcessRequest
	txn      *domain.Transaction
	entries  []domain.LedgerEntry
	err      error
}

func (m *mockTransactionService) Process(_ context.Context, req wallet.ProcessRequest) (*domain.Transaction, error) {
	m.captured = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.txn, nil
}

func (m *mockTransactionService) Transaction(_ context.Context, _ string) (*domain.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.txn, nil
}

func (m *mockTransactionService) TransactionEntries(_ context.Context, _ string) ([]domain.LedgerEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func transactionRoutes(svc transactionService) http.Handler {
	h := NewTransactionHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/v1/transactions/topup", h.Topup)
	r.Post("/api/v1/transactions/bonus", h.Bonus)
	r.Post("/api/v1/transactions/spend", h.Spend)
	r.Get("/api/v1/transactions/{id}", h.Get)
	r.Get("/api/v1/transactions/{id}/entries", h.Entries)
	return r
}

func sampleTransaction() *domain.Transaction {
	description := "Wallet top-up for user_001"
	return &domain.Transaction{
		ID:             "txn_0123456789abcdef",
		Type:           domain.TransactionTypeTopup,
		Status:         domain.TransactionStatusCompleted,
		UserID:         "user_001",
		AssetTypeCode:  "GOLD_COINS",
		Amount:         decimal.RequireFromString("100.00"),
		Description:    &description,
		IdempotencyKey: "key-1",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

const validCreateBody = `{
	"user_id": "user_001",
	"asset_type": "GOLD_COINS",
	"amount": "100.00",
	"idempotency_key": "key-1",
	"metadata": {"source": "card"}
}`

func TestCreateTransaction_Success(t *testing.T) {
	svc := &mockTransactionService{txn: sampleTransaction()}
	router := transactionRoutes(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/topup", strings.NewReader(validCreateBody))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/v1/transactions/txn_0123456789abcdef", rr.Header().Get("Location"))

	var resp struct {
		Success bool           `json:"success"`
		Data    transactionDTO `json:"data"`
		Error   *APIError      `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "txn_0123456789abcdef", resp.Data.ID)
	assert.Equal(t, "TOPUP", resp.Data.TransactionType)
	assert.Equal(t, "COMPLETED", resp.Data.Status)
	assert.Equal(t, "100.00", resp.Data.Amount)
	assert.Equal(t, "GOLD_COINS", resp.Data.AssetTypeCode)

	require.NotNil(t, svc.captured)
	assert.Equal(t, domain.TransactionTypeTopup, svc.captured.Type)
	assert.Equal(t, "GOLD_COINS", svc.captured.AssetTypeCode)
	assert.Equal(t, "key-1", svc.captured.IdempotencyKey)
	assert.JSONEq(t, `{"source": "card"}`, string(svc.captured.Metadata))
}

func TestCreateTransaction_RouteSelectsType(t *testing.T) {
	tests := []struct {
		path     string
		wantType domain.TransactionType
	}{
		{"/api/v1/transactions/topup", domain.TransactionTypeTopup},
		{"/api/v1/transactions/bonus", domain.TransactionTypeBonus},
		{"/api/v1/transactions/spend", domain.TransactionTypeSpend},
	}

	for _, tc := range tests {
		t.Run(string(tc.wantType), func(t *testing.T) {
			svc := &mockTransactionService{txn: sampleTransaction()}
			router := transactionRoutes(svc)

			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(validCreateBody))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusCreated, rr.Code)
			require.NotNil(t, svc.captured)
			assert.Equal(t, tc.wantType, svc.captured.Type)
		})
	}
}

func TestCreateTransaction_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       "not-json",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "missing required fields",
			body:       `{"amount": "10.00"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "insufficient balance",
			body:       validCreateBody,
			svcErr:     domain.ErrInsufficientBalance,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_BALANCE",
		},
		{
			name:       "unknown asset type",
			body:       validCreateBody,
			svcErr:     domain.ErrUnknownAssetType,
			wantStatus: http.StatusBadRequest,
			wantCode:   "UNKNOWN_ASSET_TYPE",
		},
		{
			name:       "inactive asset type",
			body:       validCreateBody,
			svcErr:     domain.ErrAssetTypeInactive,
			wantStatus: http.StatusBadRequest,
			wantCode:   "ASSET_TYPE_INACTIVE",
		},
		{
			name:       "invalid amount",
			body:       validCreateBody,
			svcErr:     domain.ErrInvalidAmount,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_AMOUNT",
		},
		{
			name:       "account busy",
			body:       validCreateBody,
			svcErr:     domain.ErrLockTimeout,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "ACCOUNT_BUSY",
		},
		{
			name:       "ledger integrity",
			body:       validCreateBody,
			svcErr:     domain.ErrIntegrity,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "LEDGER_INTEGRITY",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockTransactionService{txn: sampleTransaction(), err: tc.svcErr}
			router := transactionRoutes(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/spend", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)

			var resp APIResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestCreateTransaction_ValidationDetails(t *testing.T) {
	svc := &mockTransactionService{txn: sampleTransaction()}
	router := transactionRoutes(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/topup", strings.NewReader(`{"amount": "10.00"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error struct {
			Code    string       `json:"code"`
			Details []FieldError `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)

	var fields []string
	for _, fe := range resp.Error.Details {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"user_id", "asset_type", "idempotency_key"}, fields, "details name the json fields, not struct fields")
}

func TestGetTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockTransactionService{txn: sampleTransaction()}
		router := transactionRoutes(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/txn_0123456789abcdef", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockTransactionService{err: domain.ErrNotFound}
		router := transactionRoutes(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/txn_ffffffffffffffff", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "RESOURCE_NOT_FOUND", resp.Error.Code)
	})
}

func TestGetTransactionEntries(t *testing.T) {
	pair := domain.NewEntryPair(
		"txn_0123456789abcdef",
		"user_001_GOLD_COINS", "SYSTEM_TREASURY_GOLD_COINS",
		"GOLD_COINS", decimal.RequireFromString("100.00"), time.Now().UTC(),
	)
	svc := &mockTransactionService{entries: pair[:]}
	router := transactionRoutes(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/txn_0123456789abcdef/entries", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []ledgerEntryDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "DEBIT", resp.Data[0].EntryType)
	assert.Equal(t, "CREDIT", resp.Data[1].EntryType)
	assert.Equal(t, "100.00", resp.Data[0].Amount)
	assert.Equal(t, "user_001_GOLD_COINS", resp.Data[0].DebitAccountID)
}
