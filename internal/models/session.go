package models

import "time"

// InvalidationReason distinguishes why a session ended so callers can branch
// on cause without re-deriving it from side channels
type InvalidationReason string

const (
	ReasonUserInitiated      InvalidationReason = "user_initiated"
	ReasonInactivity         InvalidationReason = "inactivity"
	ReasonRemoteInvalidation InvalidationReason = "remote_invalidation"
)

// Session is the server-held record of an authenticated identity's validity
// window. The server copy is authoritative; clients hold a signed projection.
type Session struct {
	UserID       string    `json:"userId"`
	Role         Role      `json:"role"`
	Identifier   string    `json:"identifier"`
	IssuedAt     time.Time `json:"issuedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// OneTimeCode binds an identifier to a login attempt. Consumed exactly once.
type OneTimeCode struct {
	Identifier string
	Code       string
	ExpiresAt  time.Time
	Consumed   bool
}

// LogoutOptions controls what a logout clears beyond the session itself
type LogoutOptions struct {
	ClearAllData bool `json:"clearAllData"`
}

// RequestCodeInput starts the login flow for an identifier
type RequestCodeInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Role       Role   `json:"role" binding:"required"`
	EmployeeID string `json:"employeeId"`
}

// VerifyCodeInput completes the login flow
type VerifyCodeInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Code       string `json:"otp" binding:"required"`
}
