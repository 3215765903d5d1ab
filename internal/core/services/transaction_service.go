package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	"github.com/Anurag-933/simplebank/internal/core/domain"
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
	portssvc "github.com/Anurag-933/simplebank/internal/core/ports/services"
	"github.com/Anurag-933/simplebank/internal/dto"
	"github.com/Anurag-933/simplebank/internal/middleware"
)

// transactionService provides the deposit/withdrawal request lifecycle:
// customers create PENDING requests, reviewers resolve them to APPROVED
// or REJECTED, and an approval mutates the account balance exactly once.
type transactionService struct {
	transactionRepo portsrepo.TransactionRepositoryWithTx
	accountRepo     portsrepo.AccountRepositoryWithTx
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryWithTx, accountRepo portsrepo.AccountRepositoryWithTx) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

// Ensure transactionService implements the portssvc.TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateRequest records a new pending deposit or withdrawal for the requesting user's account.
func (s *transactionService) CreateRequest(ctx context.Context, req dto.CreateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	kind := domain.TransactionKind(req.Kind)
	if !domain.ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, req.Kind)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByUserID(ctx, requestingUserID)
	if err != nil {
		logger.Error("Failed to find account for transaction request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to find account for user %s: %w", requestingUserID, err)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     account.AccountID,
		Kind:          kind,
		Amount:        req.Amount,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		CreatedBy:     requestingUserID,
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save transaction request", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transaction request created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("kind", string(kind)),
		slog.String("amount", req.Amount.String()),
	)
	txn.AccountNumber = account.AccountNumber
	return &txn, nil
}

// Resolve approves or rejects a pending transaction on behalf of a reviewer.
//
// The whole resolution runs in a single database transaction. The request row
// is locked first, so concurrent resolvers of the same request serialize here
// and the loser sees a non-PENDING status. An approved withdrawal re-checks
// the balance under the account row lock; if funds are insufficient the
// request is rejected instead, which is reported as a successful resolution
// with InsufficientFunds set rather than an error.
func (s *transactionService) Resolve(ctx context.Context, transactionID string, decision domain.ReviewDecision, reviewerUserID string) (*dto.ResolveTransactionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if decision != domain.DecisionApprove && decision != domain.DecisionReject {
		return nil, fmt.Errorf("%w: unknown review decision %q", apperrors.ErrValidation, decision)
	}

	tx, err := s.transactionRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.transactionRepo.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	txn, err := s.transactionRepo.FindTransactionForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: transaction %s is already %s", apperrors.ErrNotPending, transactionID, txn.Status)
	}

	now := time.Now().UTC()
	result := &dto.ResolveTransactionResult{TransactionID: transactionID}

	switch {
	case decision == domain.DecisionReject:
		result.Status = domain.StatusRejected

	case txn.Kind == domain.Withdraw:
		account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, txn.AccountID)
		if err != nil {
			return nil, err
		}
		if account.Balance.LessThan(txn.Amount) {
			// Not enough funds: the approval becomes an automatic rejection.
			result.Status = domain.StatusRejected
			result.InsufficientFunds = true
		} else {
			if err := s.accountRepo.AdjustBalanceInTx(ctx, tx, txn.AccountID, txn.BalanceDelta(), reviewerUserID, now); err != nil {
				return nil, err
			}
			result.Status = domain.StatusApproved
		}

	default: // approved deposit
		if err := s.accountRepo.AdjustBalanceInTx(ctx, tx, txn.AccountID, txn.BalanceDelta(), reviewerUserID, now); err != nil {
			return nil, err
		}
		result.Status = domain.StatusApproved
	}

	if err := s.transactionRepo.SetTransactionStatusInTx(ctx, tx, transactionID, result.Status, reviewerUserID, now); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transaction resolved",
		slog.String("transaction_id", transactionID),
		slog.String("decision", string(decision)),
		slog.String("status", string(result.Status)),
		slog.Bool("insufficient_funds", result.InsufficientFunds),
	)
	return result, nil
}

// GetTransactionByID retrieves a specific transaction by its ID.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

// ListPending retrieves all pending transactions, oldest first.
func (s *transactionService) ListPending(ctx context.Context) ([]domain.Transaction, error) {
	return s.transactionRepo.ListPendingTransactions(ctx)
}

// ListByAccount retrieves transactions for a specific account, newest first.
func (s *transactionService) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.transactionRepo.ListTransactionsByAccountID(ctx, accountID, limit)
}

// ListAll retrieves recent transactions across all accounts, newest first.
func (s *transactionService) ListAll(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.transactionRepo.ListAllTransactions(ctx, limit)
}

// maxHistoryLimit caps the size of history listings.
const maxHistoryLimit = 200
