package models

// User represents a row of the users table.
type User struct {
	UserID       string `db:"user_id"`
	FullName     string `db:"full_name"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	IsReviewer   bool   `db:"is_reviewer"`
	AuditFields
}
