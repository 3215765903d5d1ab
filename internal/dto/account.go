package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Anurag-933/simplebank/internal/core/domain"
)

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

// AccountSummaryResponse defines the data returned for a reviewer account lookup.
type AccountSummaryResponse struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	HolderName    string          `json:"holderName"`
	Username      string          `json:"username"`
	Balance       decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     account.AccountID,
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance,
	}
}

// ToAccountSummaryResponse converts a domain.AccountSummary to AccountSummaryResponse DTO.
func ToAccountSummaryResponse(summary *domain.AccountSummary) AccountSummaryResponse {
	return AccountSummaryResponse{
		AccountID:     summary.AccountID,
		AccountNumber: summary.AccountNumber,
		HolderName:    summary.HolderName,
		Username:      summary.Username,
		Balance:       summary.Balance,
	}
}
