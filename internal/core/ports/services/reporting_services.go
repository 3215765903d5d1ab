package services

import (
	"context"

	"github.com/Anurag-933/simplebank/internal/core/domain"
)

// ReportingService defines operations reviewers use to inspect accounts
type ReportingService interface {
	// SearchAccount looks up an account summary by exact account number, username or holder name.
	SearchAccount(ctx context.Context, term string) (*domain.AccountSummary, error)
}
