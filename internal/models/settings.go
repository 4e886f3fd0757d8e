package models

// UserSettings is the single settings record persisted as a JSON blob in
// the secure store. The record is always fully populated: defaults are
// applied before the first save and partial records are never written.
// Thresholds are in paise.
type UserSettings struct {
	BiometricEnabled          bool  `json:"biometric_enabled"`
	MonthlySummaryAlerts      bool  `json:"monthly_summary_alerts"`
	LargeTransactionAlerts    bool  `json:"large_transaction_alerts"`
	LargeTransactionThreshold int64 `json:"large_transaction_threshold"`
	LowBalanceAlerts          bool  `json:"low_balance_alerts"`
	LowBalanceThreshold       int64 `json:"low_balance_threshold"`
}

// Default thresholds: ₹10,000 for large transactions, ₹1,000 for low balance.
const (
	DefaultLargeTransactionThreshold int64 = 10000 * 100
	DefaultLowBalanceThreshold       int64 = 1000 * 100
)

// DefaultSettings returns the settings applied when no blob has been saved yet.
func DefaultSettings() UserSettings {
	return UserSettings{
		BiometricEnabled:          false,
		MonthlySummaryAlerts:      true,
		LargeTransactionAlerts:    true,
		LargeTransactionThreshold: DefaultLargeTransactionThreshold,
		LowBalanceAlerts:          true,
		LowBalanceThreshold:       DefaultLowBalanceThreshold,
	}
}
