package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dinoventures/wallet-service/internal/domain"
)

const ledgerColumns = `id, transaction_id, direction, debit_account_id,
	credit_account_id, asset_type_code, amount, created_at`

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreatePair writes both halves of a balanced entry pair inside tx.
func (r *LedgerRepository) CreatePair(ctx context.Context, tx *sql.Tx, pair [2]domain.LedgerEntry) error {
	for _, entry := range pair {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_entries (
				id, transaction_id, direction, debit_account_id,
				credit_account_id, asset_type_code, amount, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			entry.ID, entry.TransactionID, entry.Direction, entry.DebitAccountID,
			entry.CreditAccountID, entry.AssetTypeCode, entry.Amount, entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("CreatePair: %w", err)
		}
	}
	return nil
}

// BalanceOf derives the account balance from the journal: DEBIT halves
// naming the account add their amount, CREDIT halves subtract it.
func (r *LedgerRepository) BalanceOf(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return balanceOf(ctx, r.db, accountID)
}

// BalanceOfTx is BalanceOf inside tx, so spend authorization reads under
// the row locks the transaction already holds.
func (r *LedgerRepository) BalanceOfTx(ctx context.Context, tx *sql.Tx, accountID string) (decimal.Decimal, error) {
	return balanceOf(ctx, tx, accountID)
}

func balanceOf(ctx context.Context, q querier, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN direction = 'DEBIT' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE (direction = 'DEBIT' AND debit_account_id = $1)
		   OR (direction = 'CREDIT' AND credit_account_id = $1)`,
		accountID,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("BalanceOf: %w", err)
	}
	return balance, nil
}

// AssetSum returns the global signed sum and entry count for one asset
// type. Balanced pairs make the sum zero; anything else is drift.
func (r *LedgerRepository) AssetSum(ctx context.Context, assetTypeCode string) (*domain.AssetTotal, error) {
	total := domain.AssetTotal{AssetTypeCode: assetTypeCode}
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN direction = 'DEBIT' THEN amount ELSE -amount END), 0), COUNT(*)
		FROM ledger_entries WHERE asset_type_code = $1`,
		assetTypeCode,
	).Scan(&total.Net, &total.EntryCount)
	if err != nil {
		return nil, fmt.Errorf("AssetSum: %w", err)
	}
	return &total, nil
}

// ListByTransaction returns the entry pair for one transaction, DEBIT half
// first.
func (r *LedgerRepository) ListByTransaction(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE transaction_id = $1 ORDER BY direction DESC`, transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByTransaction: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByTransaction: scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByTransaction: rows: %w", err)
	}
	return entries, nil
}

func scanLedgerEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := s.Scan(
		&e.ID, &e.TransactionID, &e.Direction, &e.DebitAccountID,
		&e.CreditAccountID, &e.AssetTypeCode, &e.Amount, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
