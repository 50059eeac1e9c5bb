package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet statuses
const (
	WalletStatusActive = "active"
	WalletStatusLocked = "locked"
)

// Wallet holds a single-currency balance owned by exactly one user.
// A user may hold at most one wallet per currency.
type Wallet struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	UserID       uint            `gorm:"not null;uniqueIndex:idx_wallets_user_currency" json:"user_id"`
	Currency     string          `gorm:"size:3;not null;default:'USD';uniqueIndex:idx_wallets_user_currency" json:"currency"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"balance"`
	Status       string          `gorm:"default:'active'" json:"status"`
	StatusReason string          `gorm:"default:''" json:"status_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Every wallet starts empty
	w.Balance = decimal.Zero
	return nil
}
