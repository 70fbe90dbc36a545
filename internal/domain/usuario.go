package domain

// Usuario is an API account. PasswordHash holds a one-way digest of the
// password; the raw password is never persisted.
type Usuario struct {
	ID           int64  `json:"id" db:"usr_id"`
	Username     string `json:"username" db:"usr_username"`
	PasswordHash string `json:"-" db:"usr_passwordhash"`
	Role         string `json:"role" db:"usr_role"`
}
