package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind indicates whether a request moves money into or out of an account.
type TransactionKind string

const (
	Deposit  TransactionKind = "DEPOSIT"
	Withdraw TransactionKind = "WITHDRAW"
)

// TransactionStatus is the lifecycle state of a transaction request.
// Transitions are one-way and terminal: PENDING -> APPROVED or PENDING -> REJECTED.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusApproved TransactionStatus = "APPROVED"
	StatusRejected TransactionStatus = "REJECTED"
)

// ReviewDecision is a reviewer's verdict on a pending transaction.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "APPROVE"
	DecisionReject  ReviewDecision = "REJECT"
)

// Transaction represents a customer's deposit or withdrawal request.
// It has no balance effect until a reviewer approves it.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	AccountID     string            `json:"accountID"`     // FK -> Account.accountID (Not Null)
	Kind          TransactionKind   `json:"kind"`          // DEPOSIT or WITHDRAW
	Amount        decimal.Decimal   `json:"amount"`        // Strictly positive
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`            // UserID of the requesting customer
	ReviewedBy    *string           `json:"reviewedBy,omitempty"` // UserID of the resolving reviewer; nil while pending
	ResolvedAt    *time.Time        `json:"resolvedAt,omitempty"` // Set only on APPROVED/REJECTED

	// AccountNumber is a display field populated by joined reads (pending
	// queue, reviewer history); it is not part of the transaction row.
	AccountNumber string `json:"accountNumber,omitempty"`
}

// IsResolved reports whether the transaction has reached a terminal status.
func (t Transaction) IsResolved() bool {
	return t.Status != StatusPending
}

// BalanceDelta returns the signed amount an approval of this transaction
// applies to the account balance: positive for deposits, negative for withdrawals.
func (t Transaction) BalanceDelta() decimal.Decimal {
	if t.Kind == Withdraw {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ValidKind reports whether the kind is one of the supported transaction kinds.
func ValidKind(kind TransactionKind) bool {
	return kind == Deposit || kind == Withdraw
}
