package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	"github.com/Anurag-933/simplebank/internal/core/domain"
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SearchAccount looks up a single account summary by exact account number,
// username or holder full name.
func (r *reportingRepository) SearchAccount(ctx context.Context, term string) (*domain.AccountSummary, error) {
	query := `
		SELECT a.account_id, a.account_number, u.full_name, u.username, a.balance
		FROM accounts a
		JOIN users u ON u.user_id = a.user_id
		WHERE a.account_number = $1 OR u.username = $1 OR u.full_name = $1
		LIMIT 1;
	`

	var summary domain.AccountSummary
	err := r.Pool.QueryRow(ctx, query, term).Scan(
		&summary.AccountID,
		&summary.AccountNumber,
		&summary.HolderName,
		&summary.Username,
		&summary.Balance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to search account by %q: %w", term, err)
	}
	return &summary, nil
}
