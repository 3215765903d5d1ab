package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a customer's bank account.
// Balance is only ever mutated by the transaction lifecycle service when a
// request transitions to APPROVED; every other component reads it.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	UserID        string          `json:"userID"`        // FK -> User.userID (Not Null)
	AccountNumber string          `json:"accountNumber"` // Externally visible, unique
	Balance       decimal.Decimal `json:"balance"`       // Non-negative; precise decimal type, never float
	AuditFields
}
