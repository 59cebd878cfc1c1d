package models

// User is an account holder. It maps to the `users` table in SQLite.
// Hash fields never leave the process; they are excluded from JSON.
type User struct {
	ID                 int64  `db:"id" json:"id"`
	Username           string `db:"username" json:"username"`
	PasswordHash       string `db:"password_hash" json:"-"`
	SecurityQuestion   string `db:"security_question" json:"-"`
	SecurityAnswerHash string `db:"security_answer_hash" json:"-"`
}
