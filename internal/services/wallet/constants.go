package wallet

// Default configuration values
const (
	DefaultCurrency     = "USD"
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)
