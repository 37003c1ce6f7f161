package models

import "time"

// Role identifies the audience partition a user belongs to
type Role string

const (
	RolePilgrim       Role = "pilgrim"
	RoleAdministrator Role = "administrator"
	RolePolice        Role = "police"
	RoleMedical       Role = "medical"
	RoleCoordinator   Role = "coordinator"
)

// User is an identity keyed by its login identifier (email or phone)
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Role       Role      `json:"role"`
	EmployeeID string    `json:"employeeId,omitempty"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Identifier returns the login identifier the user is keyed by
func (u User) Identifier() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Phone
}
