package wallet

import "time"

// Config holds configuration for wallet operations
type Config struct {
	DefaultCurrency string
	HistoryLimit    int
}

// HistoryFilter narrows a ledger query. Bounds are closed on whichever
// side is supplied; a nil bound leaves that side unbounded.
type HistoryFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
