package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Anurag-933/simplebank/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to request a deposit or withdrawal.
type CreateTransactionRequest struct {
	Kind   string          `json:"kind" binding:"required,txnkind"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit int `form:"limit,default=0"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	ReviewedBy    *string         `json:"reviewedBy,omitempty"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
}

// ListTransactionsResponse wraps a list of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ResolveTransactionResult carries the outcome of an approve/reject decision
// from the service layer back to the handler.
type ResolveTransactionResult struct {
	TransactionID     string
	Status            domain.TransactionStatus
	InsufficientFunds bool
}

// ResolveTransactionResponse defines the data returned after resolving a transaction.
type ResolveTransactionResponse struct {
	TransactionID     string `json:"transactionID"`
	Status            string `json:"status"`
	InsufficientFunds bool   `json:"insufficientFunds"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		AccountNumber: txn.AccountNumber,
		Kind:          string(txn.Kind),
		Amount:        txn.Amount,
		Status:        string(txn.Status),
		CreatedAt:     txn.CreatedAt,
		ReviewedBy:    txn.ReviewedBy,
		ResolvedAt:    txn.ResolvedAt,
	}
}

// ToListTransactionsResponse converts a slice of domain.Transaction to ListTransactionsResponse DTO.
func ToListTransactionsResponse(txns []domain.Transaction) ListTransactionsResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return ListTransactionsResponse{Transactions: responses}
}

// ToResolveTransactionResponse converts a ResolveTransactionResult to its response DTO.
func ToResolveTransactionResponse(result *ResolveTransactionResult) ResolveTransactionResponse {
	return ResolveTransactionResponse{
		TransactionID:     result.TransactionID,
		Status:            string(result.Status),
		InsufficientFunds: result.InsufficientFunds,
	}
}
