package models

// Role is the authorization level of a user.
type Role string

const (
	// RoleAdmin approves and rejects transactions; its own submissions are auto-approved.
	RoleAdmin Role = "admin"
	// RoleTeam submits transactions for approval.
	RoleTeam Role = "team"
)

// IsPrivileged reports whether the role may approve, reject and auto-approve.
func (r Role) IsPrivileged() bool { return r == RoleAdmin }

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleTeam }

// User represents the user model in the database
type User struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(16);not null;default:'team'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
}
