package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dinoventures/wallet-service/internal/domain"
	"github.com/dinoventures/wallet-service/internal/logging"
	"github.com/dinoventures/wallet-service/internal/repository"
)

const idempotencyKeyConstraint = "transactions_idempotency_key_key"

type ProcessRequest struct {
	UserID         string
	Type           domain.TransactionType
	AssetTypeCode  string
	Amount         decimal.Decimal
	Metadata       json.RawMessage
	IdempotencyKey string
}

// Process runs one wallet transaction end to end: validation, idempotent
// replay detection, account resolution, ordered locking, balance
// authorization for SPEND, and the atomic journal write.
func (s *Service) Process(ctx context.Context, req ProcessRequest) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	if err := s.validateRequest(req); err != nil {
		return nil, fmt.Errorf("Process: %w", err)
	}

	existing, err := s.transactions.GetByIdempotencyKey(ctx, req.IdempotencyKey)
	if err == nil {
		log.Info("idempotent replay",
			"transaction_id", existing.ID,
			"idempotency_key", req.IdempotencyKey,
		)
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("Process: %w", err)
	}

	asset, err := s.validateAsset(ctx, req.AssetTypeCode)
	if err != nil {
		return nil, fmt.Errorf("Process: %w", err)
	}

	userAcct, treasuryAcct, err := s.resolveAccounts(ctx, req.UserID, asset.Code)
	if err != nil {
		return nil, fmt.Errorf("Process: %w", err)
	}

	debitID, creditID := participantsFor(req.Type, userAcct.ID, treasuryAcct.ID)

	txn, err := s.execute(ctx, req, debitID, creditID, userAcct.ID)
	if err != nil {
		if repository.IsUniqueViolation(err, idempotencyKeyConstraint) {
			// Lost the race to a concurrent request with the same key.
			// The winner's row is this request's result.
			winner, readErr := s.transactions.GetByIdempotencyKey(ctx, req.IdempotencyKey)
			if readErr != nil {
				return nil, fmt.Errorf("Process: winner lookup: %w", readErr)
			}
			log.Info("idempotency race recovered",
				"transaction_id", winner.ID,
				"idempotency_key", req.IdempotencyKey,
			)
			return winner, nil
		}
		if repository.IsUniqueViolation(err, "") {
			return nil, fmt.Errorf("Process: %w: %v", domain.ErrIntegrity, err)
		}
		return nil, fmt.Errorf("Process: %w", err)
	}

	log.Info("transaction completed",
		"transaction_id", txn.ID,
		"type", txn.Type,
		"user_id", txn.UserID,
		"asset_type", txn.AssetTypeCode,
		"amount", txn.Amount,
	)

	return txn, nil
}

func (s *Service) validateRequest(req ProcessRequest) error {
	if !req.Type.Processable() {
		return fmt.Errorf("validateRequest: %q: %w", req.Type, domain.ErrInvalidTransactionType)
	}
	if req.IdempotencyKey == "" {
		return fmt.Errorf("validateRequest: %w", domain.ErrMissingIdempotencyKey)
	}
	if req.Amount.Sign() <= 0 || req.Amount.Exponent() < -2 {
		return fmt.Errorf("validateRequest: %s: %w", req.Amount, domain.ErrInvalidAmount)
	}
	if req.Amount.LessThan(s.config.MinTransactionAmount) {
		return fmt.Errorf("validateRequest: %s: %w", req.Amount, domain.ErrAmountTooSmall)
	}
	if req.Amount.GreaterThan(s.config.MaxTransactionAmount) {
		return fmt.Errorf("validateRequest: %s: %w", req.Amount, domain.ErrAmountTooLarge)
	}
	return nil
}

func (s *Service) validateAsset(ctx context.Context, code string) (*domain.AssetType, error) {
	asset, err := s.assets.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("validateAsset: %q: %w", code, domain.ErrUnknownAssetType)
		}
		return nil, fmt.Errorf("validateAsset: %w", err)
	}
	if !asset.IsActive {
		return nil, fmt.Errorf("validateAsset: %q: %w", code, domain.ErrAssetTypeInactive)
	}
	return asset, nil
}

func (s *Service) resolveAccounts(ctx context.Context, userID, assetTypeCode string) (*domain.Account, *domain.Account, error) {
	now := time.Now().UTC()

	userAcct, err := s.accounts.CreateIfAbsent(ctx, &domain.Account{
		ID:            domain.AccountID(userID, assetTypeCode),
		UserID:        userID,
		Kind:          domain.AccountKindUser,
		AssetTypeCode: assetTypeCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("resolveAccounts: user: %w", err)
	}

	treasuryAcct, err := s.accounts.CreateIfAbsent(ctx, &domain.Account{
		ID:            domain.AccountID(domain.TreasuryUserID, assetTypeCode),
		UserID:        domain.TreasuryUserID,
		Kind:          domain.AccountKindSystem,
		AssetTypeCode: assetTypeCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("resolveAccounts: treasury: %w", err)
	}

	return userAcct, treasuryAcct, nil
}

// participantsFor maps a transaction type to its debit/credit accounts.
// TOPUP and BONUS move value from the treasury to the user; SPEND moves
// it back.
func participantsFor(t domain.TransactionType, userAccountID, treasuryAccountID string) (debitID, creditID string) {
	if t == domain.TransactionTypeSpend {
		return treasuryAccountID, userAccountID
	}
	return userAccountID, treasuryAccountID
}

func descriptionFor(t domain.TransactionType, userID string) string {
	switch t {
	case domain.TransactionTypeTopup:
		return "Wallet top-up for " + userID
	case domain.TransactionTypeBonus:
		return "Bonus credit for " + userID
	default:
		return "Purchase by " + userID
	}
}

func (s *Service) execute(ctx context.Context, req ProcessRequest, debitID, creditID, userAccountID string) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("execute: begin tx: %w", err)
	}
	defer tx.Rollback()

	// SET LOCAL cannot be parameterized; the value is our own int config.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.config.LockTimeoutMS)); err != nil {
		return nil, fmt.Errorf("execute: lock timeout: %w", err)
	}

	if _, err := lockAccountsInOrder(ctx, tx, s.accounts, debitID, creditID); err != nil {
		if repository.IsLockTimeout(err) {
			return nil, fmt.Errorf("execute: %w", domain.ErrLockTimeout)
		}
		return nil, fmt.Errorf("execute: %w", err)
	}

	if req.Type == domain.TransactionTypeSpend {
		balance, err := s.ledger.BalanceOfTx(ctx, tx, userAccountID)
		if err != nil {
			return nil, fmt.Errorf("execute: %w", err)
		}
		if balance.LessThan(req.Amount) {
			return nil, fmt.Errorf("execute: have %s, need %s: %w", balance, req.Amount, domain.ErrInsufficientBalance)
		}
	}

	now := time.Now().UTC()
	description := descriptionFor(req.Type, req.UserID)
	txn := &domain.Transaction{
		ID:             domain.NewTransactionID(),
		Type:           req.Type,
		Status:         domain.TransactionStatusCompleted,
		UserID:         req.UserID,
		AssetTypeCode:  req.AssetTypeCode,
		Amount:         req.Amount,
		Description:    &description,
		Metadata:       req.Metadata,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.transactions.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("execute: create transaction: %w", err)
	}

	pair := domain.NewEntryPair(txn.ID, debitID, creditID, req.AssetTypeCode, req.Amount, now)
	if err := s.ledger.CreatePair(ctx, tx, pair); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	if err := s.accounts.IncrementVersion(ctx, tx, debitID); err != nil {
		return nil, fmt.Errorf("execute: debit version: %w", err)
	}
	if err := s.accounts.IncrementVersion(ctx, tx, creditID); err != nil {
		return nil, fmt.Errorf("execute: credit version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("execute: commit: %w", err)
	}

	return txn, nil
}

// lockAccountsInOrder acquires FOR UPDATE locks on the given accounts in
// lexicographic id order. Every path that locks more than one account goes
// through here, so concurrent transactions always request locks in the
// same relative order and circular waits cannot form.
func lockAccountsInOrder(ctx context.Context, tx *sql.Tx, accounts accountRepo, ids ...string) (map[string]*domain.Account, error) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	result := make(map[string]*domain.Account, len(ids))
	for _, id := range sorted {
		acct, err := accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}
