package services

import (
	portsrepo "github.com/Anurag-933/simplebank/internal/core/ports/repositories"
	portssvc "github.com/Anurag-933/simplebank/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.User = NewUserService(repos.UserRepo, container.Account)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}
