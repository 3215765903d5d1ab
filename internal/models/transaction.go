package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row of the transactions table.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Kind          string          `db:"kind"`   // DEPOSIT or WITHDRAW
	Amount        decimal.Decimal `db:"amount"` // Positive value; NUMERIC column
	Status        string          `db:"status"` // PENDING, APPROVED or REJECTED
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
	ReviewedBy    *string         `db:"reviewed_by"` // Nullable until resolution
	ResolvedAt    *time.Time      `db:"resolved_at"` // Nullable until resolution

	// AccountNumber is populated by joined queries only.
	AccountNumber string `db:"account_number"`
}
