package domain

// User represents a user of the application in the domain.
// Reviewers (the original system's "accountants") carry IsReviewer=true and
// may resolve pending transactions; customers own exactly one account.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	FullName     string `json:"fullName"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	IsReviewer   bool   `json:"isReviewer"`
	AuditFields
}
