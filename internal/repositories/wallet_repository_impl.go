package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vaultpay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	result := r.db.Create(wallet)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateWallet
		}
		return fmt.Errorf("failed to create wallet: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) GetByID(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserID(userID uint) ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to get wallets: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) GetByUserIDAndCurrency(userID uint, currency string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Where("user_id = ? AND currency = ?", userID, currency).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(wallet *models.Wallet) error {
	result := r.db.Save(wallet)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) CreateTransaction(tx *models.Transaction) error {
	result := r.db.Create(tx)
	if result.Error != nil {
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) GetTransactionByExternalID(externalID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("transaction_id = ?", externalID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *walletRepository) historyQuery(ctx context.Context, walletID uint, from, to *time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("source_wallet_id = ? OR destination_wallet_id = ?", walletID, walletID)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	return q
}

func (r *walletRepository) GetTransactionHistory(ctx context.Context, walletID uint, from, to *time.Time, limit, offset int) ([]models.Transaction, error) {
	q := r.historyQuery(ctx, walletID, from, to).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}

func (r *walletRepository) CountTransactionHistory(ctx context.Context, walletID uint, from, to *time.Time) (int64, error) {
	var count int64
	if err := r.historyQuery(ctx, walletID, from, to).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transaction history: %w", err)
	}
	return count, nil
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &walletRepository{db: tx}
		return fn(txRepo)
	})
}

func (r *walletRepository) GetTotalBalance() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&models.Wallet{}).Select("COALESCE(SUM(balance), 0)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get total balance: %w", err)
	}
	return total, nil
}

func (r *walletRepository) GetTransactionStats(start, end time.Time) (*TransactionStats, error) {
	var stats TransactionStats
	err := r.db.Model(&models.Transaction{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Select(`
			COUNT(*) as total_transactions,
			COALESCE(SUM(amount), 0) as total_volume,
			COALESCE(AVG(amount), 0) as avg_amount,
			COALESCE(MAX(amount), 0) as max_amount,
			COALESCE(SUM(CASE WHEN status = 'COMPLETED' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(*), 0), 0) as success_rate
		`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction stats: %w", err)
	}
	return &stats, nil
}
