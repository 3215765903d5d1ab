package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Anurag-933/simplebank/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByUserID retrieves the account owned by the given user.
	GetAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// GetBalance retrieves the current balance of an account.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// OpenAccount creates a new account for a user with a zero balance.
	OpenAccount(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
