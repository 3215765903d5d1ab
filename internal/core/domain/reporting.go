package domain

import "github.com/shopspring/decimal"

// AccountSummary is the reviewer-facing view of an account and its holder,
// as returned by account search.
type AccountSummary struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	HolderName    string          `json:"holderName"`
	Username      string          `json:"username"`
	Balance       decimal.Decimal `json:"balance"`
}
