package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dinoventures/wallet-service/internal/domain"
)

const assetTypeColumns = `code, name, description, is_active, created_at, updated_at`

type AssetTypeRepository struct {
	db *sql.DB
}

func NewAssetTypeRepository(db *sql.DB) *AssetTypeRepository {
	return &AssetTypeRepository{db: db}
}

func (r *AssetTypeRepository) GetByCode(ctx context.Context, code string) (*domain.AssetType, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assetTypeColumns+` FROM asset_types WHERE code = $1`, code,
	)
	a, err := scanAssetType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByCode: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByCode: %w", err)
	}
	return a, nil
}

func (r *AssetTypeRepository) List(ctx context.Context) ([]domain.AssetType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assetTypeColumns+` FROM asset_types ORDER BY code`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var assets []domain.AssetType
	for rows.Next() {
		a, err := scanAssetType(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return assets, nil
}

func scanAssetType(s scanner) (*domain.AssetType, error) {
	var a domain.AssetType
	err := s.Scan(
		&a.Code, &a.Name, &a.Description, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
