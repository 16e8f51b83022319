package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/dinoventures/wallet-service/internal/config"
	"github.com/dinoventures/wallet-service/internal/domain"
	"github.com/dinoventures/wallet-service/internal/logging"
	"github.com/dinoventures/wallet-service/internal/repository"
	"github.com/dinoventures/wallet-service/internal/service/wallet"
)

// demoGrant is one starting balance for a demo wallet, credited through the
// transaction engine as a regular BONUS so the journal stays authoritative.
type demoGrant struct {
	UserID   string
	UserName string
	Asset    string
	Amount   decimal.Decimal
}

func demoGrants() []demoGrant {
	return []demoGrant{
		{UserID: "user_001", UserName: "Alice", Asset: "GOLD_COINS", Amount: decimal.RequireFromString("1000.00")},
		{UserID: "user_001", UserName: "Alice", Asset: "DIAMONDS", Amount: decimal.RequireFromString("100.00")},
		{UserID: "user_002", UserName: "Bob", Asset: "GOLD_COINS", Amount: decimal.RequireFromString("500.00")},
		{UserID: "user_002", UserName: "Bob", Asset: "LOYALTY_POINTS", Amount: decimal.RequireFromString("50.00")},
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seeding finished")
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init("wallet-seed", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close()

	svc := wallet.NewService(
		repository.NewAssetTypeRepository(db),
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewLedgerRepository(db),
		db,
		cfg,
	)

	for _, grant := range demoGrants() {
		metadata, err := json.Marshal(map[string]string{
			"reason":    "initial_balance",
			"user_name": grant.UserName,
		})
		if err != nil {
			return fmt.Errorf("metadata: %w", err)
		}

		// Deterministic keys make reruns replay instead of double-credit.
		txn, err := svc.Process(ctx, wallet.ProcessRequest{
			UserID:         grant.UserID,
			Type:           domain.TransactionTypeBonus,
			AssetTypeCode:  grant.Asset,
			Amount:         grant.Amount,
			Metadata:       metadata,
			IdempotencyKey: fmt.Sprintf("seed_%s_%s_initial", grant.UserID, grant.Asset),
		})
		if err != nil {
			return fmt.Errorf("seed %s %s: %w", grant.UserID, grant.Asset, err)
		}
		slog.Info("seeded balance",
			"user_id", grant.UserID,
			"asset_type", grant.Asset,
			"amount", grant.Amount,
			"transaction_id", txn.ID,
		)
	}

	return nil
}
