package wallet

import (
	"context"

	"vaultpay/internal/models"

	"github.com/shopspring/decimal"
)

// Service defines the wallet service interface. All failures are error
// returns; a settlement failure additionally leaves a FAILED entry on
// the ledger and returns it alongside ErrTransactionFailed.
type Service interface {
	// Wallet management
	CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error)
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, walletID uint) (decimal.Decimal, error)
	LockWallet(ctx context.Context, walletID uint, reason string) error
	UnlockWallet(ctx context.Context, walletID uint) error

	// Balance-mutation operations
	Deposit(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*models.Transaction, error)
	Withdraw(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*models.Transaction, error)
	Transfer(ctx context.Context, fromWalletID, toWalletID uint, amount decimal.Decimal, description string) (*models.Transaction, error)

	// Ledger queries
	GetTransactionHistory(ctx context.Context, walletID uint, filter HistoryFilter) ([]models.Transaction, error)
}

// Settler performs the settlement step for a pending transaction,
// moving it to COMPLETED or FAILED exactly once.
type Settler interface {
	Process(ctx context.Context, tx *models.Transaction) error
}

// CacheOperator defines the wallet caching operations the service needs.
type CacheOperator interface {
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, walletID uint) error
}
