package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
)

// AdminUser is an account that may sign in to the admin console.
// Holding an account does not grant access; a RoleGrant does.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ExternalUID  *string   `json:"external_uid,omitempty"`
	CreatedOn    time.Time `json:"created_on"`
}

type RoleGrant struct {
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	GrantedOn time.Time `json:"granted_on"`
}

// Identity is the result of authentication, before any authorization decision.
type Identity struct {
	UserID      string
	Email       string
	ExternalUID string
	Provider    string
}
