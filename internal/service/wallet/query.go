package wallet

import (
	"context"
	"fmt"

	"github.com/dinoventures/wallet-service/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// Balances reports the journal-derived balance of every account the user
// holds. Unknown users get an empty list, not an error.
func (s *Service) Balances(ctx context.Context, userID string) ([]domain.AssetBalance, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Balances: %w", err)
	}

	balances := make([]domain.AssetBalance, 0, len(accounts))
	for _, acct := range accounts {
		balance, err := s.ledger.BalanceOf(ctx, acct.ID)
		if err != nil {
			return nil, fmt.Errorf("Balances: %w", err)
		}
		balances = append(balances, domain.AssetBalance{
			AssetTypeCode: acct.AssetTypeCode,
			AccountID:     acct.ID,
			Balance:       balance,
		})
	}
	return balances, nil
}

// History returns the user's transactions newest first. limit is clamped
// to [1, 100] with a default of 50; negative offsets read from the start.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	txns, total, err := s.transactions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("History: %w", err)
	}
	return txns, total, nil
}

func (s *Service) Transaction(ctx context.Context, id string) (*domain.Transaction, error) {
	txn, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Transaction: %w", err)
	}
	return txn, nil
}

// TransactionEntries returns the balanced entry pair recorded for a
// transaction, DEBIT half first.
func (s *Service) TransactionEntries(ctx context.Context, id string) ([]domain.LedgerEntry, error) {
	if _, err := s.transactions.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("TransactionEntries: %w", err)
	}

	entries, err := s.ledger.ListByTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("TransactionEntries: %w", err)
	}
	return entries, nil
}

func (s *Service) Users(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.accounts.ListUserSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("Users: %w", err)
	}
	return users, nil
}

func (s *Service) Accounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Accounts: %w", err)
	}
	return accounts, nil
}

func (s *Service) Assets(ctx context.Context) ([]domain.AssetType, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("Assets: %w", err)
	}
	return assets, nil
}

// AssetTotals audits the journal: the signed entry sum for every asset
// type, which is zero unless the ledger has drifted.
func (s *Service) AssetTotals(ctx context.Context) ([]domain.AssetTotal, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("AssetTotals: %w", err)
	}

	totals := make([]domain.AssetTotal, 0, len(assets))
	for _, asset := range assets {
		total, err := s.ledger.AssetSum(ctx, asset.Code)
		if err != nil {
			return nil, fmt.Errorf("AssetTotals: %w", err)
		}
		totals = append(totals, *total)
	}
	return totals, nil
}
