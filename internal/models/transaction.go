package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeDeposit    = "DEPOSIT"
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypeTransfer   = "TRANSFER"
	TransactionTypePayment    = "PAYMENT"
)

// Transaction statuses. A transaction is created PENDING and moves
// exactly once to COMPLETED or FAILED; no operation currently
// produces CANCELLED.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
	TransactionStatusCancelled = "CANCELLED"
)

// Transaction is a single immutable ledger entry. A transfer is one
// entry referencing both wallets; each wallet's history is the set of
// entries naming it as source or destination.
type Transaction struct {
	ID                  uint            `gorm:"primarykey" json:"id"`
	TransactionID       string          `gorm:"uniqueIndex;not null" json:"transaction_id"`
	Type                string          `gorm:"not null" json:"type"`
	SourceWalletID      *uint           `gorm:"index" json:"source_wallet_id,omitempty"`
	DestinationWalletID *uint           `gorm:"index" json:"destination_wallet_id,omitempty"`
	Amount              decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"amount"`
	Currency            string          `gorm:"size:3;not null" json:"currency"`
	Description         string          `json:"description"`
	Status              string          `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// NewTransaction builds a PENDING ledger entry with a fresh external id.
func NewTransaction(txType string, source, destination *uint, amount decimal.Decimal, currency, description string) *Transaction {
	return &Transaction{
		TransactionID:       uuid.NewString(),
		Type:                txType,
		SourceWalletID:      source,
		DestinationWalletID: destination,
		Amount:              amount,
		Currency:            currency,
		Description:         description,
		Status:              TransactionStatusPending,
	}
}
