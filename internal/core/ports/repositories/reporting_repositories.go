package repositories

import (
	"context"

	"github.com/Anurag-933/simplebank/internal/core/domain"
)

// ReportingRepository defines operations for retrieving account report data
type ReportingRepository interface {
	// SearchAccount looks up a single account summary by exact account number,
	// username or holder full name.
	SearchAccount(ctx context.Context, term string) (*domain.AccountSummary, error)
}
