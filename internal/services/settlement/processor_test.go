package settlement

import (
	"context"
	"testing"

	"vaultpay/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor()

	t.Run("pending transaction completes", func(t *testing.T) {
		dest := uint(1)
		tx := models.NewTransaction(models.TransactionTypeDeposit, nil, &dest, decimal.NewFromInt(100), "USD", "test")

		err := p.Process(context.Background(), tx)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	})

	t.Run("non-pending transaction fails", func(t *testing.T) {
		dest := uint(1)
		tx := models.NewTransaction(models.TransactionTypeDeposit, nil, &dest, decimal.NewFromInt(100), "USD", "test")
		tx.Status = models.TransactionStatusCompleted

		err := p.Process(context.Background(), tx)
		assert.ErrorIs(t, err, ErrNotPending)
		assert.Equal(t, models.TransactionStatusFailed, tx.Status)
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		dest := uint(1)
		tx := models.NewTransaction(models.TransactionTypeDeposit, nil, &dest, decimal.NewFromInt(100), "USD", "test")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Process(ctx, tx)
		assert.ErrorIs(t, err, ErrSettlementFailed)
		assert.Equal(t, models.TransactionStatusFailed, tx.Status)
	})

	t.Run("nil transaction", func(t *testing.T) {
		err := p.Process(context.Background(), nil)
		assert.ErrorIs(t, err, ErrSettlementFailed)
	})
}
