package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	"github.com/Anurag-933/simplebank/internal/core/domain"
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
	"github.com/Anurag-933/simplebank/internal/models"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// Helper to convert models.Transaction from DB to domain.Transaction
func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Kind:          domain.TransactionKind(m.Kind),
		Amount:        m.Amount,
		Status:        domain.TransactionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		ReviewedBy:    m.ReviewedBy,
		ResolvedAt:    m.ResolvedAt,
		AccountNumber: m.AccountNumber,
	}
}

const transactionColumns = `transaction_id, account_id, kind, amount, status, created_at, created_by, reviewed_by, resolved_at`

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.Kind,
		&m.Amount,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.ReviewedBy,
		&m.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	d := toDomainTransaction(m)
	return &d, nil
}

// SaveTransaction inserts a new transaction request.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, account_id, kind, amount, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.AccountID,
		string(txn.Kind),
		txn.Amount,
		string(txn.Status),
		txn.CreatedAt,
		txn.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, txn.TransactionID)
			}
		}
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return txn, nil
}

// FindTransactionForUpdate retrieves a transaction by ID and locks the row for update.
// Must be called within a transaction. Concurrent resolvers of the same request
// serialize on this lock and observe the final status written by the winner.
func (r *PgxTransactionRepository) FindTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`

	txn, err := scanTransactionRow(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// SetTransactionStatusInTx records the final status and reviewer of a transaction.
func (r *PgxTransactionRepository) SetTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, status domain.TransactionStatus, reviewedBy string, resolvedAt time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, reviewed_by = $3, resolved_at = $4
		WHERE transaction_id = $1;
	`
	ct, err := tx.Exec(ctx, query, transactionID, string(status), reviewedBy, resolvedAt)
	if err != nil {
		return fmt.Errorf("failed to set status for transaction %s: %w", transactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s not found during status update", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// ListPendingTransactions retrieves all PENDING transactions, oldest first.
func (r *PgxTransactionRepository) ListPendingTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT t.transaction_id, t.account_id, t.kind, t.amount, t.status, t.created_at, t.created_by, t.reviewed_by, t.resolved_at, a.account_number
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		WHERE t.status = 'PENDING'
		ORDER BY t.created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactionRows(rows, true)
}

// ListTransactionsByAccountID retrieves transactions for an account, newest first.
// A non-positive limit means no limit.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	args := []any{accountID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return collectTransactionRows(rows, false)
}

// ListAllTransactions retrieves transactions across all accounts, newest first.
// A non-positive limit means no limit.
func (r *PgxTransactionRepository) ListAllTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT t.transaction_id, t.account_id, t.kind, t.amount, t.status, t.created_at, t.created_by, t.reviewed_by, t.resolved_at, a.account_number
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		ORDER BY t.created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactionRows(rows, true)
}

func collectTransactionRows(rows pgx.Rows, withAccountNumber bool) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	for rows.Next() {
		var m models.Transaction
		dest := []any{
			&m.TransactionID,
			&m.AccountID,
			&m.Kind,
			&m.Amount,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.ReviewedBy,
			&m.ResolvedAt,
		}
		if withAccountNumber {
			dest = append(dest, &m.AccountNumber)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}
