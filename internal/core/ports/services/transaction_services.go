package services

import (
	"context"

	"github.com/Anurag-933/simplebank/internal/core/domain"
	"github.com/Anurag-933/simplebank/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction by its ID.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListPending retrieves all pending transactions, oldest first.
	ListPending(ctx context.Context) ([]domain.Transaction, error)

	// ListByAccount retrieves transactions for a specific account, newest first.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)

	// ListAll retrieves recent transactions across all accounts, newest first.
	ListAll(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// CreateRequest records a new pending deposit or withdrawal request.
	CreateRequest(ctx context.Context, req dto.CreateTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// Resolve approves or rejects a pending transaction on behalf of a reviewer.
	Resolve(ctx context.Context, transactionID string, decision domain.ReviewDecision, reviewerUserID string) (*dto.ResolveTransactionResult, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
// This is a facade for clients that need access to all operations
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
