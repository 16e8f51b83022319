package wallet

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/dinoventures/wallet-service/internal/config"
	"github.com/dinoventures/wallet-service/internal/domain"
)

type assetRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.AssetType, error)
	List(ctx context.Context) ([]domain.AssetType, error)
}

type accountRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Account, error)
	ListUserSummaries(ctx context.Context) ([]domain.UserSummary, error)
	CreateIfAbsent(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Account, error)
	IncrementVersion(ctx context.Context, tx *sql.Tx, id string) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int, error)
}

type ledgerRepo interface {
	CreatePair(ctx context.Context, tx *sql.Tx, pair [2]domain.LedgerEntry) error
	BalanceOf(ctx context.Context, accountID string) (decimal.Decimal, error)
	BalanceOfTx(ctx context.Context, tx *sql.Tx, accountID string) (decimal.Decimal, error)
	AssetSum(ctx context.Context, assetTypeCode string) (*domain.AssetTotal, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error)
}

type Service struct {
	assets       assetRepo
	accounts     accountRepo
	transactions transactionRepo
	ledger       ledgerRepo
	db           *sql.DB
	config       *config.Config
}

func NewService(
	assets assetRepo,
	accounts accountRepo,
	transactions transactionRepo,
	ledger ledgerRepo,
	db *sql.DB,
	cfg *config.Config,
) *Service {
	return &Service{
		assets:       assets,
		accounts:     accounts,
		transactions: transactions,
		ledger:       ledger,
		db:           db,
		config:       cfg,
	}
}
