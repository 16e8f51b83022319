package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dinoventures/wallet-service/internal/domain"
)

const accountColumns = `id, user_id, kind, asset_type_code, version, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		WHERE user_id = $1 ORDER BY asset_type_code`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByUser: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByUser: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) ListUserSummaries(ctx context.Context) ([]domain.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, COUNT(*) FROM accounts
		WHERE kind = $1 GROUP BY user_id ORDER BY user_id`,
		domain.AccountKindUser,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUserSummaries: %w", err)
	}
	defer rows.Close()

	var users []domain.UserSummary
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.UserID, &u.AccountCount); err != nil {
			return nil, fmt.Errorf("ListUserSummaries: scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUserSummaries: rows: %w", err)
	}
	return users, nil
}

// CreateIfAbsent inserts the account unless a row for the same
// user/asset pair already exists, then returns the surviving row.
// Safe to race: concurrent callers all converge on one account.
func (r *AccountRepository) CreateIfAbsent(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, kind, asset_type_code, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		account.ID, account.UserID, account.Kind, account.AssetTypeCode,
		account.Version, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("CreateIfAbsent: %w", err)
	}

	a, err := r.GetByID(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("CreateIfAbsent: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) IncrementVersion(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET version = version + 1, updated_at = now() WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("IncrementVersion: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("IncrementVersion: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("IncrementVersion: %w", domain.ErrNotFound)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.UserID, &a.Kind, &a.AssetTypeCode,
		&a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
