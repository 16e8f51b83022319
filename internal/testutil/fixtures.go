package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dinoventures/wallet-service/internal/domain"
	"github.com/dinoventures/wallet-service/internal/repository"
)

// The base migrations already seed GOLD_COINS, DIAMONDS and LOYALTY_POINTS
// plus one treasury account per asset, so most tests only add user rows.

func SeedAssetType(t *testing.T, db *sql.DB, code, name string, active bool) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO asset_types (code, name, is_active) VALUES ($1, $2, $3)
		 ON CONFLICT (code) DO NOTHING`,
		code, name, active,
	)
	if err != nil {
		t.Fatalf("seed asset type %s: %v", code, err)
	}
}

func DeactivateAssetType(t *testing.T, db *sql.DB, code string) {
	t.Helper()

	if _, err := db.Exec(`UPDATE asset_types SET is_active = FALSE WHERE code = $1`, code); err != nil {
		t.Fatalf("deactivate asset type %s: %v", code, err)
	}
}

func SeedAccount(t *testing.T, db *sql.DB, userID, assetCode string) *domain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := &domain.Account{
		ID:            domain.AccountID(userID, assetCode),
		UserID:        userID,
		Kind:          domain.AccountKindUser,
		AssetTypeCode: assetCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if userID == domain.TreasuryUserID {
		a.Kind = domain.AccountKindSystem
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, user_id, kind, asset_type_code, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 0, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		a.ID, a.UserID, a.Kind, a.AssetTypeCode, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s/%s: %v", userID, assetCode, err)
	}
	return a
}

// GrantBalance writes a COMPLETED BONUS transaction and its balanced entry
// pair directly, giving userID a starting balance without going through the
// engine. Both accounts must already exist.
func GrantBalance(t *testing.T, db *sql.DB, userID, assetCode string, amount decimal.Decimal, idempotencyKey string) string {
	t.Helper()

	txnID := domain.NewTransactionID()
	now := time.Now().UTC()
	pair := domain.NewEntryPair(
		txnID,
		domain.AccountID(userID, assetCode),
		domain.AccountID(domain.TreasuryUserID, assetCode),
		assetCode, amount, now,
	)

	err := repository.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO transactions (id, type, status, user_id, asset_type_code, amount, idempotency_key, created_at, updated_at)
			 VALUES ($1, 'BONUS', 'COMPLETED', $2, $3, $4, $5, $6, $6)`,
			txnID, userID, assetCode, amount, idempotencyKey, now,
		)
		if err != nil {
			return err
		}
		for _, e := range pair {
			_, err := tx.Exec(
				`INSERT INTO ledger_entries (id, transaction_id, direction, debit_account_id, credit_account_id, asset_type_code, amount, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				e.ID, e.TransactionID, e.Direction, e.DebitAccountID, e.CreditAccountID, e.AssetTypeCode, e.Amount, e.CreatedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("grant balance %s/%s: %v", userID, assetCode, err)
	}

	return txnID
}

// LedgerBalance recomputes an account balance straight from the journal,
// independent of any repository code under test.
func LedgerBalance(t *testing.T, db *sql.DB, accountID string) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN direction = 'DEBIT' THEN amount ELSE -amount END), 0)
		 FROM ledger_entries
		 WHERE (direction = 'DEBIT' AND debit_account_id = $1)
		    OR (direction = 'CREDIT' AND credit_account_id = $1)`,
		accountID,
	).Scan(&balance)
	if err != nil {
		t.Fatalf("ledger balance %s: %v", accountID, err)
	}
	return balance
}

// AssetNet is the signed sum over every entry of one asset type. A healthy
// journal nets to zero.
func AssetNet(t *testing.T, db *sql.DB, assetCode string) decimal.Decimal {
	t.Helper()

	var net decimal.Decimal
	err := db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN direction = 'DEBIT' THEN amount ELSE -amount END), 0)
		 FROM ledger_entries WHERE asset_type_code = $1`,
		assetCode,
	).Scan(&net)
	if err != nil {
		t.Fatalf("asset net %s: %v", assetCode, err)
	}
	return net
}

func AccountVersion(t *testing.T, db *sql.DB, accountID string) int64 {
	t.Helper()

	var version int64
	if err := db.QueryRow(`SELECT version FROM accounts WHERE id = $1`, accountID).Scan(&version); err != nil {
		t.Fatalf("account version %s: %v", accountID, err)
	}
	return version
}

func CountTransactionsByKey(t *testing.T, db *sql.DB, idempotencyKey string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE idempotency_key = $1`, idempotencyKey).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for key %s: %v", idempotencyKey, err)
	}
	return count
}

func CountLedgerEntries(t *testing.T, db *sql.DB, transactionID string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE transaction_id = $1`, transactionID).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for transaction %s: %v", transactionID, err)
	}
	return count
}
