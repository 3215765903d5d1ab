package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	"github.com/Anurag-933/simplebank/internal/core/domain"
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
	portssvc "github.com/Anurag-933/simplebank/internal/core/ports/services"
	"github.com/Anurag-933/simplebank/internal/core/services"
	"github.com/Anurag-933/simplebank/internal/dto"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryWithTx interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SetTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, reviewedBy string, resolvedAt time.Time) error {
	args := m.Called(ctx, tx, transactionID, status, reviewedBy, resolvedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListPendingTransactions(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListAllTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockAccountRepository is a mock type for the AccountRepositoryWithTx interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, delta, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockAccountRepo)
}

// expectTxScope sets up the Begin/Commit/Rollback expectations of a successful
// database transaction. The rollback is always deferred, so it may fire after commit.
func (suite *TransactionServiceTestSuite) expectTxScope(ctx context.Context) {
	suite.mockTxnRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockTxnRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()
}

func pendingWithdrawal(accountID string, amount string) *domain.Transaction {
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Kind:          domain.Withdraw,
		Amount:        decimal.RequireFromString(amount),
		Status:        domain.StatusPending,
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     uuid.NewString(),
	}
}

// --- CreateRequest ---

func (suite *TransactionServiceTestSuite) TestCreateRequest_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	account := &domain.Account{AccountID: uuid.NewString(), UserID: userID, AccountNumber: "AC1700000000000"}

	suite.mockAccountRepo.On("FindAccountByUserID", ctx, userID).Return(account, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	req := dto.CreateTransactionRequest{Kind: "DEPOSIT", Amount: decimal.RequireFromString("100.50")}
	txn, err := suite.service.CreateRequest(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(account.AccountID, txn.AccountID)
	suite.Equal(domain.Deposit, txn.Kind)
	suite.Equal(domain.StatusPending, txn.Status)
	suite.Equal(userID, txn.CreatedBy)
	suite.Equal(account.AccountNumber, txn.AccountNumber)
	suite.Nil(txn.ReviewedBy)

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateRequest_InvalidKind() {
	ctx := context.Background()

	req := dto.CreateTransactionRequest{Kind: "TRANSFER", Amount: decimal.RequireFromString("10")}
	txn, err := suite.service.CreateRequest(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateRequest_NonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []string{"0", "-5"} {
		req := dto.CreateTransactionRequest{Kind: "WITHDRAW", Amount: decimal.RequireFromString(amount)}
		txn, err := suite.service.CreateRequest(ctx, req, uuid.NewString())

		suite.Require().Error(err)
		suite.Nil(txn)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateRequest_NoAccount() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByUserID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	req := dto.CreateTransactionRequest{Kind: "DEPOSIT", Amount: decimal.RequireFromString("10")}
	txn, err := suite.service.CreateRequest(ctx, req, userID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

// --- Resolve ---

func (suite *TransactionServiceTestSuite) TestResolve_RejectPending() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	txn := pendingWithdrawal(uuid.NewString(), "50")

	suite.expectTxScope(ctx)
	suite.mockTxnRepo.On("FindTransactionForUpdate", ctx, mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	suite.mockTxnRepo.On("SetTransactionStatusInTx", ctx, mock.Anything, txn.TransactionID, domain.StatusRejected, reviewerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.Resolve(ctx, txn.TransactionID, domain.DecisionReject, reviewerID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.StatusRejected, result.Status)
	suite.False(result.InsufficientFunds)

	// A rejection never touches the balance.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "AdjustBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestResolve_ApproveDeposit() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	accountID := uuid.NewString()
	amount := decimal.RequireFromString("200.25")
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Kind:          domain.Deposit,
		Amount:        amount,
		Status:        domain.StatusPending,
	}

	suite.expectTxScope(ctx)
	suite.mockTxnRepo.On("FindTransactionForUpdate", ctx, mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("AdjustBalanceInTx", ctx, mock.Anything, accountID, amount, reviewerID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SetTransactionStatusInTx", ctx, mock.Anything, txn.TransactionID, domain.StatusApproved, reviewerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.Resolve(ctx, txn.TransactionID, domain.DecisionApprove, reviewerID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.Status)
	suite.False(result.InsufficientFunds)

	// Deposits never lock the account row.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestResolve_ApproveWithdrawal_SufficientFunds() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	accountID := uuid.NewString()
	txn := pendingWithdrawal(accountID, "75.50")
	account := &domain.Account{AccountID: accountID, Balance: decimal.RequireFromString("100")}

	suite.expectTxScope(ctx)
	suite.mockTxnRepo.On("FindTransactionForUpdate", ctx, mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("AdjustBalanceInTx", ctx, mock.Anything, accountID, decimal.RequireFromString("-75.50"), reviewerID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SetTransactionStatusInTx", ctx, mock.Anything, txn.TransactionID, domain.StatusApproved, reviewerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.Resolve(ctx, txn.TransactionID, domain.DecisionApprove, reviewerID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.Status)
	suite.False(result.InsufficientFunds)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestResolve_ApproveWithdrawal_ExactBalance() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	accountID := uuid.NewString()
	txn := pendingWithdrawal(accountID, "100")
	account := &domain.Account{AccountID: accountID, Balance: decimal.RequireFromString("100.00")}

	suite.expectTxScope(ctx)
	suite.mockTxnRepo.On("FindTransactionForUpdate", ctx, mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("AdjustBalanceInTx", ctx, mock.Anything, accountID, decimal.RequireFromString("-100"), reviewerID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SetTransactionStatusInTx", ctx, mock.Anything, txn.TransactionID, domain.StatusApproved, reviewerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.Resolve(ctx, txn.TransactionID, domain.DecisionApprove, reviewerID)

	// Withdrawing the full balance is allowed; the account may reach exactly zero.
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.Status)
	suite.False(result.InsufficientFunds)
}

func (suite *TransactionServiceTestSuite) TestResolve_ApproveWithdrawal_InsufficientFunds() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	accountID := uuid.NewString()
	txn := pendingWithdrawal(accountID, "150")
	account := &domain.Account{AccountID: accountID, Balance: decimal.RequireFromString("100")}

	suite.expectTxScope(ctx)
	suite.mockTxnRepo.On("FindTransactionForUpdate", ctx, mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByIDForUpdate", ctx, mock.Anything, accountID).Return(account, nil).Once()
	suite.mockTxnRepo.On("SetTransactionStatusInTx", ctx, mock.Anything, txn.TransactionID, domain.StatusRejected, reviewerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.Resolve(ctx, txn.TransactionID, domain.DecisionApprove, reviewerID)

	// An approval without funds resolves successfully as an automatic rejection.
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, result.Status)
	suite.True(result.InsufficientFunds)

	suite.mockAccountRepo.AssertNotCalled(suite.T(), "AdjustBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestResolve_AlreadyResolved() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	txn := pendingWithdrawal(uuid.NewString(), "10")
	txn.Status = domain.StatusApproved

	suite.mockTxnRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockTxnRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("FindTransactionForUpdate", ctx, mock.Anything, txn.TransactionID).Return(txn, nil).Once()

	result, err := suite.service.Resolve(ctx, txn.TransactionID, domain.DecisionApprove, reviewerID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotPending)

	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SetTransactionStatusInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestResolve_TransactionNotFound() {
	ctx := context.Background()
	transactionID := uuid.NewString()

	suite.mockTxnRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockTxnRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("FindTransactionForUpdate", ctx, mock.Anything, transactionID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.Resolve(ctx, transactionID, domain.DecisionApprove, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestResolve_InvalidDecision() {
	ctx := context.Background()

	result, err := suite.service.Resolve(ctx, uuid.NewString(), domain.ReviewDecision("MAYBE"), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestResolve_AdjustError_NoCommit() {
	ctx := context.Background()
	reviewerID := uuid.NewString()
	accountID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Kind:          domain.Deposit,
		Amount:        decimal.RequireFromString("20"),
		Status:        domain.StatusPending,
	}

	suite.mockTxnRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockTxnRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("FindTransactionForUpdate", ctx, mock.Anything, txn.TransactionID).Return(txn, nil).Once()
	suite.mockAccountRepo.On("AdjustBalanceInTx", ctx, mock.Anything, accountID, txn.Amount, reviewerID, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()

	result, err := suite.service.Resolve(ctx, txn.TransactionID, domain.DecisionApprove, reviewerID)

	suite.Require().Error(err)
	suite.Nil(result)

	// The database transaction must not commit if the balance write failed.
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SetTransactionStatusInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Listings ---

func (suite *TransactionServiceTestSuite) TestListPending_OldestFirst() {
	ctx := context.Background()
	older := *pendingWithdrawal(uuid.NewString(), "5")
	newer := *pendingWithdrawal(uuid.NewString(), "10")
	older.CreatedAt = newer.CreatedAt.Add(-time.Hour)

	suite.mockTxnRepo.On("ListPendingTransactions", ctx).Return([]domain.Transaction{older, newer}, nil).Once()

	txns, err := suite.service.ListPending(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(txns, 2)
	suite.True(txns[0].CreatedAt.Before(txns[1].CreatedAt))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListAll_CapsLimit() {
	ctx := context.Background()

	suite.mockTxnRepo.On("ListAllTransactions", ctx, 200).Return([]domain.Transaction{}, nil).Twice()

	_, err := suite.service.ListAll(ctx, 0)
	suite.Require().NoError(err)
	_, err = suite.service.ListAll(ctx, 5000)
	suite.Require().NoError(err)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListByAccount_PassesLimit() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockTxnRepo.On("ListTransactionsByAccountID", ctx, accountID, 10).Return([]domain.Transaction{}, nil).Once()

	_, err := suite.service.ListByAccount(ctx, accountID, 10)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListByAccount_ClampsLimit() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockTxnRepo.On("ListTransactionsByAccountID", ctx, accountID, 200).Return([]domain.Transaction{}, nil).Twice()

	_, err := suite.service.ListByAccount(ctx, accountID, 0)
	suite.Require().NoError(err)
	_, err = suite.service.ListByAccount(ctx, accountID, 5000)
	suite.Require().NoError(err)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- Concurrency and replay ---

// inMemoryLedger is a stateful double for the transaction and account
// repositories. The row lock the real store takes with SELECT ... FOR UPDATE
// is modeled by rowMu: FindTransactionForUpdate acquires it and the deferred
// Rollback at the end of the resolution scope releases it, so concurrent
// resolutions serialize at the locked read exactly like they do against
// Postgres. Writes apply immediately; the tests that use it never roll back
// a scope that wrote.
type inMemoryLedger struct {
	rowMu    sync.Mutex
	stateMu  sync.Mutex
	locked   bool
	balances map[string]decimal.Decimal
	txns     map[string]domain.Transaction
}

var _ portsrepo.TransactionRepositoryWithTx = (*inMemoryLedger)(nil)
var _ portsrepo.AccountRepositoryWithTx = (*inMemoryLedger)(nil)

func newInMemoryLedger() *inMemoryLedger {
	return &inMemoryLedger{
		balances: map[string]decimal.Decimal{},
		txns:     map[string]domain.Transaction{},
	}
}

func (l *inMemoryLedger) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }

// Commit leaves the row lock held; the service's deferred Rollback, which
// runs right after, releases it.
func (l *inMemoryLedger) Commit(ctx context.Context, tx pgx.Tx) error { return nil }

func (l *inMemoryLedger) Rollback(ctx context.Context, tx pgx.Tx) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	if l.locked {
		l.locked = false
		l.rowMu.Unlock()
	}
	return nil
}

func (l *inMemoryLedger) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	l.rowMu.Lock()
	l.stateMu.Lock()
	l.locked = true
	txn, ok := l.txns[transactionID]
	l.stateMu.Unlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (l *inMemoryLedger) SetTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, reviewedBy string, resolvedAt time.Time) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	txn := l.txns[transactionID]
	txn.Status = status
	txn.ReviewedBy = &reviewedBy
	txn.ResolvedAt = &resolvedAt
	l.txns[transactionID] = txn
	return nil
}

func (l *inMemoryLedger) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	l.txns[txn.TransactionID] = txn
	return nil
}

func (l *inMemoryLedger) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	txn, ok := l.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (l *inMemoryLedger) ListPendingTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return nil, nil
}

func (l *inMemoryLedger) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	return nil, nil
}

func (l *inMemoryLedger) ListAllTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	return nil, nil
}

func (l *inMemoryLedger) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	balance, ok := l.balances[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &domain.Account{AccountID: accountID, Balance: balance}, nil
}

func (l *inMemoryLedger) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	l.balances[accountID] = l.balances[accountID].Add(delta)
	return nil
}

func (l *inMemoryLedger) SaveAccount(ctx context.Context, account domain.Account) error {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	l.balances[account.AccountID] = account.Balance
	return nil
}

func (l *inMemoryLedger) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	balance, ok := l.balances[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &domain.Account{AccountID: accountID, Balance: balance}, nil
}

func (l *inMemoryLedger) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return nil, apperrors.ErrNotFound
}

func (l *inMemoryLedger) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	return nil, apperrors.ErrNotFound
}

func (l *inMemoryLedger) balanceOf(accountID string) decimal.Decimal {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return l.balances[accountID]
}

func (l *inMemoryLedger) addPending(txn *domain.Transaction) {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	l.txns[txn.TransactionID] = *txn
}

func (suite *TransactionServiceTestSuite) TestResolve_ConcurrentWithdrawals_NoOverdraft() {
	ledger := newInMemoryLedger()
	svc := services.NewTransactionService(ledger, ledger)
	reviewerID := uuid.NewString()
	accountID := uuid.NewString()
	ledger.balances[accountID] = decimal.RequireFromString("100")

	// Eight pending withdrawals of 30 against a balance of 100: whatever the
	// interleaving, only three may be approved.
	const requests = 8
	ids := make([]string, requests)
	for i := range ids {
		txn := pendingWithdrawal(accountID, "30")
		ledger.addPending(txn)
		ids[i] = txn.TransactionID
	}

	results := make([]*dto.ResolveTransactionResult, requests)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			result, err := svc.Resolve(context.Background(), id, domain.DecisionApprove, reviewerID)
			suite.NoError(err)
			results[i] = result
		}(i, id)
	}
	wg.Wait()

	approved := 0
	for _, result := range results {
		suite.Require().NotNil(result)
		if result.Status == domain.StatusApproved {
			suite.False(result.InsufficientFunds)
			approved++
		} else {
			suite.Equal(domain.StatusRejected, result.Status)
			suite.True(result.InsufficientFunds)
		}
	}
	suite.Equal(3, approved)
	suite.True(ledger.balanceOf(accountID).Equal(decimal.RequireFromString("10")))
	suite.False(ledger.balanceOf(accountID).IsNegative())
}

func (suite *TransactionServiceTestSuite) TestResolve_SequentialWithdrawals_BalanceCarries() {
	ledger := newInMemoryLedger()
	svc := services.NewTransactionService(ledger, ledger)
	ctx := context.Background()
	reviewerID := uuid.NewString()
	accountID := uuid.NewString()
	ledger.balances[accountID] = decimal.RequireFromString("100")

	first := pendingWithdrawal(accountID, "60")
	second := pendingWithdrawal(accountID, "50")
	ledger.addPending(first)
	ledger.addPending(second)

	result, err := svc.Resolve(ctx, first.TransactionID, domain.DecisionApprove, reviewerID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, result.Status)
	suite.True(ledger.balanceOf(accountID).Equal(decimal.RequireFromString("40")))

	// The second withdrawal sees the debited balance, not the original one.
	result, err = svc.Resolve(ctx, second.TransactionID, domain.DecisionApprove, reviewerID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, result.Status)
	suite.True(result.InsufficientFunds)
	suite.True(ledger.balanceOf(accountID).Equal(decimal.RequireFromString("40")))

	// Replaying an already-resolved approval must not debit again.
	result, err = svc.Resolve(ctx, first.TransactionID, domain.DecisionApprove, reviewerID)
	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotPending)
	suite.True(ledger.balanceOf(accountID).Equal(decimal.RequireFromString("40")))
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
