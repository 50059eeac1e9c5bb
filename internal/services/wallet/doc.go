/*
Package wallet implements the balance-mutation and transaction-ledger core.

Every operation builds a PENDING transaction, submits it for settlement,
and applies the balance delta only when the transaction comes back
COMPLETED. The validate-and-mutate sequence runs inside a database
transaction under row locks, so concurrent withdrawals cannot pass the
sufficient-funds check against a stale balance; transfers lock both
wallets in ascending id order.

Usage:

	svc := wallet.NewService(repo, cache, settlement.NewProcessor(), wallet.Config{}, metrics)

	w, err := svc.CreateWallet(ctx, userID, "USD")
	txn, err := svc.Deposit(ctx, w.ID, decimal.NewFromInt(1000), "initial deposit")
	txn, err = svc.Transfer(ctx, w.ID, other.ID, decimal.NewFromInt(500), "rent")
	history, err := svc.GetTransactionHistory(ctx, w.ID, wallet.HistoryFilter{})

Error policy: validation failures (ErrInvalidAmount, ErrInsufficientFunds,
ErrCurrencyMismatch) are returned before any ledger entry exists.
Settlement failures persist the FAILED entry and return it together with
ErrTransactionFailed. Callers never need to inspect Status to detect a
failed operation.
*/
package wallet
