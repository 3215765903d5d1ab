package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Anurag-933/simplebank/internal/core/domain"
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
	portssvc "github.com/Anurag-933/simplebank/internal/core/ports/services"
	"github.com/Anurag-933/simplebank/internal/middleware"
)

// accountService provides account operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// OpenAccount creates a new account for a user with a zero balance.
// Account numbers are derived from the creation timestamp.
func (s *accountService) OpenAccount(ctx context.Context, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        userID,
		AccountNumber: fmt.Sprintf("AC%d", now.UnixMilli()),
		Balance:       decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to open account", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account opened", slog.String("account_number", account.AccountNumber), slog.String("user_id", userID))
	return &account, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByUserID retrieves the account owned by the given user.
func (s *accountService) GetAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByUserID(ctx, userID)
}

// GetBalance retrieves the current balance of an account.
func (s *accountService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}
