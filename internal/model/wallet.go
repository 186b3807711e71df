package model

type Wallet struct {
	Balance        Decimal `json:"balance"`
	PendingPayouts Decimal `json:"pending_payouts"`
	Currency       string  `json:"currency"`
	IsFrozen       bool    `json:"is_frozen"`
	IsKYCVerified  bool    `json:"is_kyc_verified"`
}

type Transaction struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Amount    Decimal `json:"amount"`
	Status    string  `json:"status"`
	Date      string  `json:"date"`
	Reference string  `json:"reference"`
}

// TransactionPage uses the wallet service's own paging fields rather than
// the count/next/previous envelope.
type TransactionPage struct {
	Results     []Transaction `json:"results"`
	CurrentPage int           `json:"current_page"`
	TotalPages  int           `json:"total_pages"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}
