package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		UserRepo:        userRepo,
		ReportingRepo:   reportingRepo,
	}
}
