package repositories

import (
	"context"
	"errors"
	"time"

	"vaultpay/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDatabaseOperation   = errors.New("database operation failed")
)

// WalletRepository defines the interface for wallet and ledger database operations
type WalletRepository interface {
	// Core wallet operations
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	// GetByIDForUpdate locks the wallet row for the duration of the
	// surrounding transaction. Only meaningful inside ExecuteInTransaction.
	GetByIDForUpdate(id uint) (*models.Wallet, error)
	GetByUserID(userID uint) ([]*models.Wallet, error)
	GetByUserIDAndCurrency(userID uint, currency string) (*models.Wallet, error)
	Update(wallet *models.Wallet) error

	// Ledger operations
	CreateTransaction(tx *models.Transaction) error
	GetTransactionByExternalID(externalID string) (*models.Transaction, error)
	// GetTransactionHistory returns entries naming the wallet as source or
	// destination, newest first. Bounds are closed on whichever side is
	// supplied; a nil bound is unbounded on that side.
	GetTransactionHistory(ctx context.Context, walletID uint, from, to *time.Time, limit, offset int) ([]models.Transaction, error)
	CountTransactionHistory(ctx context.Context, walletID uint, from, to *time.Time) (int64, error)

	// ExecuteInTransaction runs fn inside a database transaction; the
	// repository passed to fn is bound to that transaction.
	ExecuteInTransaction(fn func(WalletRepository) error) error

	// Analytics and reporting
	GetTotalBalance() (decimal.Decimal, error)
	GetTransactionStats(start, end time.Time) (*TransactionStats, error)
}

// TransactionStats represents aggregated ledger statistics
type TransactionStats struct {
	TotalTransactions int64   `json:"total_transactions"`
	TotalVolume       float64 `json:"total_volume"`
	AvgAmount         float64 `json:"avg_amount"`
	MaxAmount         float64 `json:"max_amount"`
	SuccessRate       float64 `json:"success_rate"`
}
