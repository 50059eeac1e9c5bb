package wallet

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/services/settlement"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWalletRepo is an in-memory WalletRepository so the balance logic
// runs for real in tests.
type fakeWalletRepo struct {
	wallets map[uint]*models.Wallet
	ledger  []models.Transaction
	nextID  uint
}

func newFakeRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uint]*models.Wallet)}
}

func (f *fakeWalletRepo) seed(currency string, balance decimal.Decimal) *models.Wallet {
	f.nextID++
	w := &models.Wallet{
		ID:       f.nextID,
		UserID:   f.nextID,
		Currency: currency,
		Balance:  balance,
		Status:   models.WalletStatusActive,
	}
	f.wallets[w.ID] = w
	copied := *w
	return &copied
}

func (f *fakeWalletRepo) Create(w *models.Wallet) error {
	f.nextID++
	w.ID = f.nextID
	copied := *w
	f.wallets[w.ID] = &copied
	return nil
}

func (f *fakeWalletRepo) GetByID(id uint) (*models.Wallet, error) {
	w, ok := f.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	copied := *w
	return &copied, nil
}

func (f *fakeWalletRepo) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	return f.GetByID(id)
}

func (f *fakeWalletRepo) GetByUserID(userID uint) ([]*models.Wallet, error) {
	var out []*models.Wallet
	for _, w := range f.wallets {
		if w.UserID == userID {
			copied := *w
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeWalletRepo) GetByUserIDAndCurrency(userID uint, currency string) (*models.Wallet, error) {
	for _, w := range f.wallets {
		if w.UserID == userID && w.Currency == currency {
			copied := *w
			return &copied, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (f *fakeWalletRepo) Update(w *models.Wallet) error {
	if _, ok := f.wallets[w.ID]; !ok {
		return repositories.ErrWalletNotFound
	}
	copied := *w
	f.wallets[w.ID] = &copied
	return nil
}

func (f *fakeWalletRepo) CreateTransaction(tx *models.Transaction) error {
	tx.ID = uint(len(f.ledger) + 1)
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	f.ledger = append(f.ledger, *tx)
	return nil
}

func (f *fakeWalletRepo) GetTransactionByExternalID(externalID string) (*models.Transaction, error) {
	for i := range f.ledger {
		if f.ledger[i].TransactionID == externalID {
			copied := f.ledger[i]
			return &copied, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (f *fakeWalletRepo) matches(tx *models.Transaction, walletID uint, from, to *time.Time) bool {
	references := (tx.SourceWalletID != nil && *tx.SourceWalletID == walletID) ||
		(tx.DestinationWalletID != nil && *tx.DestinationWalletID == walletID)
	if !references {
		return false
	}
	if from != nil && tx.CreatedAt.Before(*from) {
		return false
	}
	if to != nil && tx.CreatedAt.After(*to) {
		return false
	}
	return true
}

func (f *fakeWalletRepo) GetTransactionHistory(_ context.Context, walletID uint, from, to *time.Time, limit, offset int) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for i := len(f.ledger) - 1; i >= 0; i-- {
		if f.matches(&f.ledger[i], walletID, from, to) {
			out = append(out, f.ledger[i])
		}
	}
	if offset > 0 {
		if offset >= len(out) {
			return []models.Transaction{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeWalletRepo) CountTransactionHistory(_ context.Context, walletID uint, from, to *time.Time) (int64, error) {
	var count int64
	for i := range f.ledger {
		if f.matches(&f.ledger[i], walletID, from, to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(f)
}

func (f *fakeWalletRepo) GetTotalBalance() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, w := range f.wallets {
		total = total.Add(w.Balance)
	}
	return total, nil
}

func (f *fakeWalletRepo) GetTransactionStats(time.Time, time.Time) (*repositories.TransactionStats, error) {
	return &repositories.TransactionStats{TotalTransactions: int64(len(f.ledger))}, nil
}

type fakeCache struct{}

func (fakeCache) GetWallet(context.Context, uint) (*models.Wallet, error) {
	return nil, errors.New("cache miss")
}
func (fakeCache) CacheWallet(context.Context, *models.Wallet) error { return nil }
func (fakeCache) InvalidateWallet(context.Context, uint) error      { return nil }

// failingSettler marks every transaction FAILED.
type failingSettler struct{}

func (failingSettler) Process(_ context.Context, tx *models.Transaction) error {
	tx.Status = models.TransactionStatusFailed
	return fmt.Errorf("simulated settlement outage")
}

func newTestService(repo repositories.WalletRepository) Service {
	return NewService(repo, fakeCache{}, settlement.NewProcessor(), Config{}, &NoopMetricsCollector{})
}

func TestService_CreateWallet(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	w, err := svc.CreateWallet(ctx, 1, "USD")
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, "USD", w.Currency)

	t.Run("duplicate currency rejected", func(t *testing.T) {
		_, err := svc.CreateWallet(ctx, 1, "USD")
		assert.ErrorIs(t, err, ErrDuplicateWallet)
	})

	t.Run("second currency allowed", func(t *testing.T) {
		eur, err := svc.CreateWallet(ctx, 1, "EUR")
		require.NoError(t, err)
		assert.Equal(t, "EUR", eur.Currency)
	})

	t.Run("empty currency falls back to default", func(t *testing.T) {
		w, err := svc.CreateWallet(ctx, 2, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultCurrency, w.Currency)
	})
}

func TestService_Deposit(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
	}{
		{name: "successful deposit", amount: decimal.NewFromInt(100)},
		{name: "zero amount", amount: decimal.Zero, wantErr: ErrInvalidAmount},
		{name: "negative amount", amount: decimal.NewFromInt(-50), wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			w := repo.seed("USD", decimal.Zero)
			svc := newTestService(repo)

			txn, err := svc.Deposit(context.Background(), w.ID, tt.amount, "test deposit")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				// state unchanged
				stored, _ := repo.GetByID(w.ID)
				assert.True(t, stored.Balance.IsZero())
				assert.Empty(t, repo.ledger)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
			assert.Equal(t, models.TransactionTypeDeposit, txn.Type)
			assert.Nil(t, txn.SourceWalletID)
			require.NotNil(t, txn.DestinationWalletID)
			assert.Equal(t, w.ID, *txn.DestinationWalletID)

			stored, _ := repo.GetByID(w.ID)
			assert.True(t, stored.Balance.Equal(tt.amount))
			assert.Len(t, repo.ledger, 1)
		})
	}

	t.Run("unknown wallet", func(t *testing.T) {
		svc := newTestService(newFakeRepo())
		_, err := svc.Deposit(context.Background(), 99, decimal.NewFromInt(10), "")
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestService_Withdraw(t *testing.T) {
	tests := []struct {
		name    string
		balance decimal.Decimal
		amount  decimal.Decimal
		wantErr error
	}{
		{name: "successful withdrawal", balance: decimal.NewFromInt(200), amount: decimal.NewFromInt(150)},
		{name: "exact balance", balance: decimal.NewFromInt(75), amount: decimal.NewFromInt(75)},
		{name: "insufficient funds", balance: decimal.NewFromInt(10), amount: decimal.NewFromInt(11), wantErr: ErrInsufficientFunds},
		{name: "invalid amount", balance: decimal.NewFromInt(10), amount: decimal.NewFromInt(-1), wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			w := repo.seed("USD", tt.balance)
			svc := newTestService(repo)

			txn, err := svc.Withdraw(context.Background(), w.ID, tt.amount, "test withdrawal")

			stored, _ := repo.GetByID(w.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, stored.Balance.Equal(tt.balance), "balance must be unchanged")
				assert.Empty(t, repo.ledger)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
			assert.Equal(t, models.TransactionTypeWithdrawal, txn.Type)
			assert.Nil(t, txn.DestinationWalletID)
			require.NotNil(t, txn.SourceWalletID)
			assert.True(t, stored.Balance.Equal(tt.balance.Sub(tt.amount)))
		})
	}
}

func TestService_Transfer(t *testing.T) {
	t.Run("conservation of funds", func(t *testing.T) {
		repo := newFakeRepo()
		alice := repo.seed("USD", decimal.NewFromInt(1000))
		bob := repo.seed("USD", decimal.NewFromInt(250))
		svc := newTestService(repo)

		before, _ := repo.GetTotalBalance()

		txn, err := svc.Transfer(context.Background(), alice.ID, bob.ID, decimal.NewFromInt(400), "rent")
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, txn.Status)

		after, _ := repo.GetTotalBalance()
		assert.True(t, after.Equal(before), "transfer must conserve total funds")

		a, _ := repo.GetByID(alice.ID)
		b, _ := repo.GetByID(bob.ID)
		assert.True(t, a.Balance.Equal(decimal.NewFromInt(600)))
		assert.True(t, b.Balance.Equal(decimal.NewFromInt(650)))

		// the same ledger entry is visible from both wallets
		aliceHist, err := svc.GetTransactionHistory(context.Background(), alice.ID, HistoryFilter{})
		require.NoError(t, err)
		bobHist, err := svc.GetTransactionHistory(context.Background(), bob.ID, HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, aliceHist, 1)
		require.Len(t, bobHist, 1)
		assert.Equal(t, aliceHist[0].TransactionID, bobHist[0].TransactionID)
		assert.True(t, aliceHist[0].Amount.Equal(bobHist[0].Amount))
		assert.Equal(t, models.TransactionStatusCompleted, aliceHist[0].Status)
	})

	t.Run("currency mismatch leaves both balances unchanged", func(t *testing.T) {
		repo := newFakeRepo()
		alice := repo.seed("USD", decimal.NewFromInt(1000))
		carol := repo.seed("EUR", decimal.NewFromInt(100))
		svc := newTestService(repo)

		_, err := svc.Transfer(context.Background(), alice.ID, carol.ID, decimal.NewFromInt(10), "")
		assert.ErrorIs(t, err, ErrCurrencyMismatch)

		a, _ := repo.GetByID(alice.ID)
		c, _ := repo.GetByID(carol.ID)
		assert.True(t, a.Balance.Equal(decimal.NewFromInt(1000)))
		assert.True(t, c.Balance.Equal(decimal.NewFromInt(100)))
		assert.Empty(t, repo.ledger)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		repo := newFakeRepo()
		alice := repo.seed("USD", decimal.NewFromInt(5))
		bob := repo.seed("USD", decimal.Zero)
		svc := newTestService(repo)

		_, err := svc.Transfer(context.Background(), alice.ID, bob.ID, decimal.NewFromInt(6), "")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Empty(t, repo.ledger)
	})

	t.Run("same wallet", func(t *testing.T) {
		repo := newFakeRepo()
		alice := repo.seed("USD", decimal.NewFromInt(5))
		svc := newTestService(repo)

		_, err := svc.Transfer(context.Background(), alice.ID, alice.ID, decimal.NewFromInt(1), "")
		assert.ErrorIs(t, err, ErrSameWallet)
	})

	t.Run("invalid amount", func(t *testing.T) {
		repo := newFakeRepo()
		alice := repo.seed("USD", decimal.NewFromInt(5))
		bob := repo.seed("USD", decimal.Zero)
		svc := newTestService(repo)

		_, err := svc.Transfer(context.Background(), alice.ID, bob.ID, decimal.Zero, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("locked source wallet", func(t *testing.T) {
		repo := newFakeRepo()
		alice := repo.seed("USD", decimal.NewFromInt(100))
		bob := repo.seed("USD", decimal.Zero)
		svc := newTestService(repo)

		require.NoError(t, svc.LockWallet(context.Background(), alice.ID, "manual review"))

		_, err := svc.Transfer(context.Background(), alice.ID, bob.ID, decimal.NewFromInt(10), "")
		assert.ErrorIs(t, err, ErrWalletLocked)

		require.NoError(t, svc.UnlockWallet(context.Background(), alice.ID))
		_, err = svc.Transfer(context.Background(), alice.ID, bob.ID, decimal.NewFromInt(10), "")
		assert.NoError(t, err)
	})
}

func TestService_DepositWithdrawRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	w := repo.seed("USD", decimal.NewFromInt(42))
	svc := newTestService(repo)
	ctx := context.Background()

	amount := decimal.NewFromInt(1000)
	_, err := svc.Deposit(ctx, w.ID, amount, "in")
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, w.ID, amount, "out")
	require.NoError(t, err)

	stored, _ := repo.GetByID(w.ID)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(42)), "round trip must restore the balance")

	hist, err := svc.GetTransactionHistory(ctx, w.ID, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, hist, 2)
	for _, tx := range hist {
		assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	}
}

func TestService_SettlementFailure(t *testing.T) {
	repo := newFakeRepo()
	w := repo.seed("USD", decimal.NewFromInt(500))
	svc := NewService(repo, fakeCache{}, failingSettler{}, Config{}, &NoopMetricsCollector{})

	txn, err := svc.Deposit(context.Background(), w.ID, decimal.NewFromInt(100), "doomed")
	assert.ErrorIs(t, err, ErrTransactionFailed)
	require.NotNil(t, txn)
	assert.Equal(t, models.TransactionStatusFailed, txn.Status)

	// balance untouched, the failed attempt stays on the ledger
	stored, _ := repo.GetByID(w.ID)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(500)))
	require.Len(t, repo.ledger, 1)
	assert.Equal(t, models.TransactionStatusFailed, repo.ledger[0].Status)
}

func TestService_GetTransactionHistory_Filtering(t *testing.T) {
	repo := newFakeRepo()
	w := repo.seed("USD", decimal.Zero)
	svc := newTestService(repo)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	walletID := w.ID
	for i := 0; i < 5; i++ {
		entry := models.NewTransaction(models.TransactionTypeDeposit, nil, &walletID, decimal.NewFromInt(int64(i+1)), "USD", "")
		entry.Status = models.TransactionStatusCompleted
		entry.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.CreateTransaction(entry))
	}

	t.Run("no bounds returns everything", func(t *testing.T) {
		hist, err := svc.GetTransactionHistory(ctx, walletID, HistoryFilter{})
		require.NoError(t, err)
		assert.Len(t, hist, 5)
	})

	t.Run("closed interval includes both endpoints", func(t *testing.T) {
		from := base.Add(1 * time.Hour)
		to := base.Add(3 * time.Hour)
		hist, err := svc.GetTransactionHistory(ctx, walletID, HistoryFilter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Len(t, hist, 3)
	})

	t.Run("open start bound", func(t *testing.T) {
		to := base.Add(2 * time.Hour)
		hist, err := svc.GetTransactionHistory(ctx, walletID, HistoryFilter{To: &to})
		require.NoError(t, err)
		assert.Len(t, hist, 3)
	})

	t.Run("open end bound", func(t *testing.T) {
		from := base.Add(4 * time.Hour)
		hist, err := svc.GetTransactionHistory(ctx, walletID, HistoryFilter{From: &from})
		require.NoError(t, err)
		assert.Len(t, hist, 1)
	})

	t.Run("window outside all entries", func(t *testing.T) {
		from := base.Add(10 * time.Hour)
		hist, err := svc.GetTransactionHistory(ctx, walletID, HistoryFilter{From: &from})
		require.NoError(t, err)
		assert.Empty(t, hist)
	})

	t.Run("empty history yields empty sequence", func(t *testing.T) {
		empty := repo.seed("USD", decimal.Zero)
		hist, err := svc.GetTransactionHistory(ctx, empty.ID, HistoryFilter{})
		require.NoError(t, err)
		assert.Empty(t, hist)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		_, err := svc.GetTransactionHistory(ctx, 999, HistoryFilter{})
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestService_Scenario(t *testing.T) {
	// Alice deposits 1000 USD, transfers 500 to Bob; a transfer to
	// Carol's EUR wallet is rejected without touching any balance.
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	alice, err := svc.CreateWallet(ctx, 1, "USD")
	require.NoError(t, err)
	bob, err := svc.CreateWallet(ctx, 2, "USD")
	require.NoError(t, err)
	carol, err := svc.CreateWallet(ctx, 3, "EUR")
	require.NoError(t, err)

	_, err = svc.Deposit(ctx, alice.ID, decimal.NewFromInt(1000), "salary")
	require.NoError(t, err)
	balance, err := svc.GetBalance(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)))

	_, err = svc.Transfer(ctx, alice.ID, bob.ID, decimal.NewFromInt(500), "shared dinner")
	require.NoError(t, err)

	aliceBalance, _ := svc.GetBalance(ctx, alice.ID)
	bobBalance, _ := svc.GetBalance(ctx, bob.ID)
	assert.True(t, aliceBalance.Equal(decimal.NewFromInt(500)))
	assert.True(t, bobBalance.Equal(decimal.NewFromInt(500)))

	hist, err := svc.GetTransactionHistory(ctx, alice.ID, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, hist, 2)
	types := []string{hist[0].Type, hist[1].Type}
	assert.Contains(t, types, models.TransactionTypeDeposit)
	assert.Contains(t, types, models.TransactionTypeTransfer)
	for _, tx := range hist {
		assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	}

	_, err = svc.Transfer(ctx, alice.ID, carol.ID, decimal.NewFromInt(100), "")
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	carolBalance, _ := svc.GetBalance(ctx, carol.ID)
	assert.True(t, carolBalance.IsZero())
	aliceBalance, _ = svc.GetBalance(ctx, alice.ID)
	assert.True(t, aliceBalance.Equal(decimal.NewFromInt(500)))
}
