package handler

import (
	"time"

	identityapp "github.com/civicconnect/backend/internal/application/identity"
	"github.com/civicconnect/backend/internal/infrastructure/auth"
	"github.com/civicconnect/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles registration, login and profile management
type UserHandler struct {
	BaseHandler
	users      *identityapp.UserService
	blacklist  auth.TokenBlacklist
	sessionTTL time.Duration
}

// NewUserHandler creates a new UserHandler. sessionTTL is the configured
// token lifetime; it bounds how long revocation entries must be kept.
func NewUserHandler(users *identityapp.UserService, blacklist auth.TokenBlacklist, sessionTTL time.Duration) *UserHandler {
	return &UserHandler{users: users, blacklist: blacklist, sessionTTL: sessionTTL}
}

// Register creates a new account and returns a session token
func (h *UserHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Login authenticates an OTP-verified phone number and returns a session token
func (h *UserHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.users.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout revokes the current session token for the remainder of its lifetime
func (h *UserHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.blacklist.AddToBlacklist(c.Request.Context(), claims.ID, claims.GetRemainingTTL()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Logged out"})
}

// LogoutAll invalidates every outstanding session for the authenticated user
func (h *UserHandler) LogoutAll(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.blacklist.AddUserTokensToBlacklist(c.Request.Context(), claims.UserID, h.sessionTTL); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "All sessions invalidated"})
}

// CheckPhoneResponse reports whether a phone number is already registered
type CheckPhoneResponse struct {
	Exists bool `json:"exists"`
}

// CheckPhone reports whether an account exists for the given phone number
func (h *UserHandler) CheckPhone(c *gin.Context) {
	phoneNumber := c.Query("phone_number")
	if phoneNumber == "" {
		h.BadRequest(c, "phone_number query parameter is required")
		return
	}

	exists, err := h.users.CheckPhoneNumber(c.Request.Context(), phoneNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CheckPhoneResponse{Exists: exists})
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// UpdateProfile applies partial profile changes for the authenticated user
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}
