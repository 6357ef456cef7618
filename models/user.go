package models

// Role is the coarse authorization label carried by accounts and sessions.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserAccount represents a row in the `useraccount` table.
// PasswordHash is never serialized to clients.
type UserAccount struct {
	ID           int64  `db:"user_id" json:"user_id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         Role   `db:"role" json:"role"`
}
