package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a row of the accounts table.
// Balance is stored as NUMERIC; never use a float type here.
type Account struct {
	AccountID     string          `db:"account_id"`
	UserID        string          `db:"user_id"`
	AccountNumber string          `db:"account_number"`
	Balance       decimal.Decimal `db:"balance"`
	AuditFields
}
