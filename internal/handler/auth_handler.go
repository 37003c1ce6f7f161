package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/middleware"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/service"
	"github.com/safeyatra/safety-backend-go/pkg/response"
)

// AuthHandler handles HTTP requests for the login/session lifecycle
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SendOTP handles POST /api/v1/auth/send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var in models.RequestCodeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "identifier and role are required")
		return
	}

	code, expiresAt, err := h.authService.RequestCode(in)
	if err != nil {
		response.InternalError(c, "failed to send OTP")
		return
	}

	// Demo transport: the code rides back in the response instead of SMS/email
	response.Success(c, gin.H{
		"otp":       code,
		"expiresAt": expiresAt,
	})
}

// verifyOTPRequest carries the verify payload; role and employeeId ride with
// it so a first login can provision the user in one round trip
type verifyOTPRequest struct {
	Identifier string      `json:"identifier" binding:"required"`
	Code       string      `json:"otp" binding:"required"`
	Role       models.Role `json:"role"`
	EmployeeID string      `json:"employeeId"`
}

// VerifyOTP handles POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "identifier and otp are required")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePilgrim
	}

	user, session, token, err := h.authService.VerifyCode(
		models.VerifyCodeInput{Identifier: req.Identifier, Code: req.Code},
		role, req.EmployeeID,
	)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":    user,
		"session": session,
		"token":   token,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		response.Unauthorized(c, "missing session")
		return
	}

	var opts models.LogoutOptions
	// The body is optional; a bare logout clears everything
	if err := c.ShouldBindJSON(&opts); err != nil {
		opts = models.LogoutOptions{ClearAllData: true}
	}

	h.authService.Logout(session.Identifier, opts)
	response.Success(c, gin.H{"message": "logged out"})
}
