// Package settlement simulates the settlement step that decides whether
// a pending transaction succeeds. There is no external clearing call;
// a real integration would replace Processor behind the same interface.
package settlement

import (
	"context"
	"errors"
	"fmt"

	"vaultpay/internal/models"
)

var (
	ErrNotPending       = errors.New("transaction is not pending")
	ErrSettlementFailed = errors.New("settlement failed")
)

type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

// Process marks a pending transaction COMPLETED. Internal failures mark
// it FAILED and are returned as errors; the status never goes back to
// PENDING afterwards.
func (p *Processor) Process(ctx context.Context, tx *models.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: nil transaction", ErrSettlementFailed)
	}
	if tx.Status != models.TransactionStatusPending {
		was := tx.Status
		tx.Status = models.TransactionStatusFailed
		return fmt.Errorf("%w: status %s", ErrNotPending, was)
	}
	if err := ctx.Err(); err != nil {
		tx.Status = models.TransactionStatusFailed
		return fmt.Errorf("%w: %v", ErrSettlementFailed, err)
	}

	tx.Status = models.TransactionStatusCompleted
	return nil
}
