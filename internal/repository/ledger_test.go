package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinoventures/wallet-service/internal/domain"
)

func TestLedgerRepository_BalanceOf(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLedgerRepository(db)

	t.Run("sums debits minus credits", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN direction = 'DEBIT' THEN amount ELSE -amount END\), 0\) FROM ledger_entries`).
			WithArgs("user_001_GOLD_COINS").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("137.25"))

		balance, err := repo.BalanceOf(context.Background(), "user_001_GOLD_COINS")
		require.NoError(t, err)
		assert.Equal(t, "137.25", balance.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty journal is zero", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN direction = 'DEBIT' THEN amount ELSE -amount END\), 0\) FROM ledger_entries`).
			WithArgs("user_void_GOLD_COINS").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

		balance, err := repo.BalanceOf(context.Background(), "user_void_GOLD_COINS")
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_CreatePair(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	pair := domain.NewEntryPair(
		"txn_0123456789abcdef",
		"user_001_GOLD_COINS", "SYSTEM_TREASURY_GOLD_COINS",
		"GOLD_COINS", decimal.RequireFromString("25.00"), time.Now().UTC(),
	)

	for _, e := range pair {
		mock.ExpectExec(`INSERT INTO ledger_entries`).
			WithArgs(e.ID, e.TransactionID, string(e.Direction), e.DebitAccountID,
				e.CreditAccountID, e.AssetTypeCode, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, repo.CreatePair(context.Background(), tx, pair))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_AssetSum(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLedgerRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN direction = 'DEBIT' THEN amount ELSE -amount END\), 0\), COUNT\(\*\) FROM ledger_entries WHERE asset_type_code = \$1`).
		WithArgs("GOLD_COINS").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce", "count"}).AddRow("0", 42))

	total, err := repo.AssetSum(context.Background(), "GOLD_COINS")
	require.NoError(t, err)
	assert.Equal(t, "GOLD_COINS", total.AssetTypeCode)
	assert.True(t, total.Net.IsZero())
	assert.Equal(t, int64(42), total.EntryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
