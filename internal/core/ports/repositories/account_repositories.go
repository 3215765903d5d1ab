package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Anurag-933/simplebank/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its customer-facing account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// FindAccountByUserID retrieves the account owned by the given user.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that run inside a database transaction
type AccountTransactionSupport interface {
	// FindAccountByIDForUpdate selects an account and locks its row for update within a transaction.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// AdjustBalanceInTx applies a signed delta to an account's balance within a given transaction.
	AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
