package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AdminGroup is the group whose members get the admin role.
const AdminGroup = "admin"

// Identity carries the personal fields shared by User and
// RegistrationProfile.
type Identity struct {
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	DOB          time.Time `json:"dob"`
	IdentifierID string    `json:"identifier_id"`
}

// Address holds postal data up to street level.
type Address struct {
	Zipcode string `json:"zipcode"`
	City    string `json:"city"`
	Street  string `json:"street"`
	Country string `json:"country"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Identity
	Address
	PasswordHash string     `json:"-"` // Not exposed
	Groups       []Group    `json:"groups,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// IsIn reports group membership by name.
func (u *User) IsIn(name string) bool {
	for _, group := range u.Groups {
		if group.Name == name {
			return true
		}
	}
	return false
}

// Role derives the authorization role from group membership.
func (u *User) Role() string {
	if u.IsIn(AdminGroup) {
		return RoleAdmin
	}
	return RoleUser
}
