package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	"github.com/Anurag-933/simplebank/internal/core/domain"
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
	portssvc "github.com/Anurag-933/simplebank/internal/core/ports/services"
)

// reportingService provides reviewer-facing account lookups.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: reportingRepo}
}

// Ensure reportingService implements the portssvc.ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// SearchAccount looks up an account summary by exact account number, username or holder name.
func (s *reportingService) SearchAccount(ctx context.Context, term string) (*domain.AccountSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", apperrors.ErrValidation)
	}
	return s.reportingRepo.SearchAccount(ctx, term)
}
