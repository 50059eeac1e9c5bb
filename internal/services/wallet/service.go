package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vaultpay/internal/models"
	"vaultpay/internal/repositories"

	"github.com/shopspring/decimal"
)

type service struct {
	repo    repositories.WalletRepository
	cache   CacheOperator
	settler Settler
	config  Config
	metrics MetricsCollector
}

// NewService creates a new wallet service
func NewService(
	repo repositories.WalletRepository,
	cache CacheOperator,
	settler Settler,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if settler == nil {
		panic("settler is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = DefaultHistoryLimit
	}

	// Metrics is optional, fall back to a no-op collector
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		settler: settler,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	if currency == "" {
		currency = s.config.DefaultCurrency
	}

	// One wallet per currency per user; the unique index backs this check.
	if _, err := s.repo.GetByUserIDAndCurrency(userID, currency); err == nil {
		return nil, ErrDuplicateWallet
	} else if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, fmt.Errorf("failed to check existing wallet: %w", err)
	}

	wallet := &models.Wallet{
		UserID:   userID,
		Currency: currency,
		Balance:  decimal.Zero,
		Status:   models.WalletStatusActive,
	}
	if err := s.repo.Create(wallet); err != nil {
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return nil, ErrDuplicateWallet
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.cache.CacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	// Try cache first
	if wallet, err := s.cache.GetWallet(ctx, walletID); err == nil {
		return wallet, nil
	}

	wallet, err := s.repo.GetByID(walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	s.cache.CacheWallet(ctx, wallet)
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, walletID uint) (decimal.Decimal, error) {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

// Deposit credits the wallet. The ledger entry is built PENDING, settled,
// and the balance delta applied only when settlement completes; the
// whole sequence runs under the wallet's row lock.
func (s *service) Deposit(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if amount.Sign() <= 0 {
		s.metrics.RecordError("deposit", "invalid_amount")
		return nil, ErrInvalidAmount
	}
	start := time.Now()

	var txn *models.Transaction
	var settleErr error
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := lockWallet(tx, walletID)
		if err != nil {
			return err
		}

		dest := wallet.ID
		txn = models.NewTransaction(models.TransactionTypeDeposit, nil, &dest, amount, wallet.Currency, description)

		if settleErr = s.settler.Process(ctx, txn); settleErr != nil {
			// Keep the FAILED attempt on the ledger, balance untouched
			return tx.CreateTransaction(txn)
		}

		wallet.Balance = wallet.Balance.Add(amount)
		if err := tx.Update(wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(txn)
	})
	return s.finishOperation(ctx, "deposit", models.TransactionTypeDeposit, walletID, 0, amount, txn, err, settleErr, start)
}

// Withdraw debits the wallet, failing with ErrInsufficientFunds when the
// amount exceeds the balance.
func (s *service) Withdraw(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if amount.Sign() <= 0 {
		s.metrics.RecordError("withdraw", "invalid_amount")
		return nil, ErrInvalidAmount
	}
	start := time.Now()

	var txn *models.Transaction
	var settleErr error
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := lockWallet(tx, walletID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(wallet.Balance) {
			return ErrInsufficientFunds
		}

		source := wallet.ID
		txn = models.NewTransaction(models.TransactionTypeWithdrawal, &source, nil, amount, wallet.Currency, description)

		if settleErr = s.settler.Process(ctx, txn); settleErr != nil {
			return tx.CreateTransaction(txn)
		}

		wallet.Balance = wallet.Balance.Sub(amount)
		if err := tx.Update(wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(txn)
	})
	return s.finishOperation(ctx, "withdraw", models.TransactionTypeWithdrawal, walletID, 0, amount, txn, err, settleErr, start)
}

// Transfer moves funds between two wallets of the same currency as a
// single ledger entry. Both wallet mutations and the ledger write commit
// atomically; the rows are locked in ascending id order so concurrent
// transfers between the same pair cannot deadlock.
func (s *service) Transfer(ctx context.Context, fromWalletID, toWalletID uint, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if amount.Sign() <= 0 {
		s.metrics.RecordError("transfer", "invalid_amount")
		return nil, ErrInvalidAmount
	}
	if fromWalletID == toWalletID {
		s.metrics.RecordError("transfer", "same_wallet")
		return nil, ErrSameWallet
	}
	start := time.Now()

	var txn *models.Transaction
	var settleErr error
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		source, dest, err := lockWalletPair(tx, fromWalletID, toWalletID)
		if err != nil {
			return err
		}
		if source.Currency != dest.Currency {
			return ErrCurrencyMismatch
		}
		if amount.GreaterThan(source.Balance) {
			return ErrInsufficientFunds
		}

		txn = models.NewTransaction(models.TransactionTypeTransfer, &source.ID, &dest.ID, amount, source.Currency, description)

		if settleErr = s.settler.Process(ctx, txn); settleErr != nil {
			return tx.CreateTransaction(txn)
		}

		source.Balance = source.Balance.Sub(amount)
		dest.Balance = dest.Balance.Add(amount)
		if err := tx.Update(source); err != nil {
			return err
		}
		if err := tx.Update(dest); err != nil {
			return err
		}
		return tx.CreateTransaction(txn)
	})
	return s.finishOperation(ctx, "transfer", models.TransactionTypeTransfer, fromWalletID, toWalletID, amount, txn, err, settleErr, start)
}

func (s *service) GetTransactionHistory(ctx context.Context, walletID uint, filter HistoryFilter) ([]models.Transaction, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = s.config.HistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	txs, err := s.repo.GetTransactionHistory(ctx, walletID, filter.From, filter.To, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}

func (s *service) LockWallet(ctx context.Context, walletID uint, reason string) error {
	wallet, err := s.repo.GetByID(walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to get wallet: %w", err)
	}

	wallet.Status = models.WalletStatusLocked
	wallet.StatusReason = reason
	if err := s.repo.Update(wallet); err != nil {
		return fmt.Errorf("failed to lock wallet: %w", err)
	}

	s.cache.InvalidateWallet(ctx, walletID)
	return nil
}

func (s *service) UnlockWallet(ctx context.Context, walletID uint) error {
	wallet, err := s.repo.GetByID(walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to get wallet: %w", err)
	}

	wallet.Status = models.WalletStatusActive
	wallet.StatusReason = ""
	if err := s.repo.Update(wallet); err != nil {
		return fmt.Errorf("failed to unlock wallet: %w", err)
	}

	s.cache.InvalidateWallet(ctx, walletID)
	return nil
}

// Helpers

// finishOperation centralizes the tail of every balance mutation:
// metrics, cache invalidation, and the unified error policy.
func (s *service) finishOperation(ctx context.Context, operation, txType string, walletID, otherWalletID uint, amount decimal.Decimal, txn *models.Transaction, err, settleErr error, start time.Time) (*models.Transaction, error) {
	if err != nil {
		s.metrics.RecordError(operation, errType(err))
		return nil, err
	}
	if settleErr != nil {
		s.metrics.RecordError(operation, "settlement_failed")
		s.invalidate(ctx, walletID, otherWalletID)
		return txn, fmt.Errorf("%w: %v", ErrTransactionFailed, settleErr)
	}

	s.invalidate(ctx, walletID, otherWalletID)
	s.metrics.RecordTransaction(txType, amount.InexactFloat64())
	s.metrics.RecordOperationDuration(operation, time.Since(start))
	return txn, nil
}

func (s *service) invalidate(ctx context.Context, walletIDs ...uint) {
	for _, id := range walletIDs {
		if id == 0 {
			continue
		}
		if err := s.cache.InvalidateWallet(ctx, id); err != nil {
			fmt.Printf("failed to invalidate wallet cache %d: %v\n", id, err)
		}
	}
}

func lockWallet(tx repositories.WalletRepository, walletID uint) (*models.Wallet, error) {
	wallet, err := tx.GetByIDForUpdate(walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	if wallet.Status != models.WalletStatusActive {
		return nil, ErrWalletLocked
	}
	return wallet, nil
}

func lockWalletPair(tx repositories.WalletRepository, fromID, toID uint) (source, dest *models.Wallet, err error) {
	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}

	a, err := lockWallet(tx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := lockWallet(tx, second)
	if err != nil {
		return nil, nil, err
	}

	if first == fromID {
		return a, b, nil
	}
	return b, a, nil
}

func errType(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, ErrWalletNotFound):
		return "wallet_not_found"
	case errors.Is(err, ErrWalletLocked):
		return "wallet_locked"
	default:
		return "internal"
	}
}
