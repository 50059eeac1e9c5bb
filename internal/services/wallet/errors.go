package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrDuplicateWallet   = errors.New("wallet already exists for this currency")
	ErrSameWallet        = errors.New("cannot transfer to the same wallet")
	ErrWalletLocked      = errors.New("wallet is locked")
	ErrTransactionFailed = errors.New("transaction failed")
)
