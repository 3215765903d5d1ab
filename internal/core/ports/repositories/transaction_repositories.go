package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Anurag-933/simplebank/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListPendingTransactions retrieves all PENDING transactions, oldest first,
	// with the owning account's number populated.
	ListPendingTransactions(ctx context.Context) ([]domain.Transaction, error)

	// ListTransactionsByAccountID retrieves transactions for an account, newest first.
	// A non-positive limit means no limit.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)

	// ListAllTransactions retrieves transactions across all accounts, newest first,
	// with account numbers populated. A non-positive limit means no limit.
	ListAllTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction request.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionLockSupport defines operations that run inside a database transaction
type TransactionLockSupport interface {
	// FindTransactionForUpdate selects a transaction and locks its row for update.
	FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error)

	// SetTransactionStatusInTx records the final status and reviewer of a transaction.
	SetTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, reviewedBy string, resolvedAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
// This is a facade for clients that need access to all operations
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionLockSupport
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
