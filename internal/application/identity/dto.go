package identity

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents a new account registration
type RegisterRequest struct {
	FullName    string   `json:"full_name" binding:"required"`
	PhoneNumber string   `json:"phone_number" binding:"required,phone"`
	Pincode     string   `json:"pincode" binding:"required,pincode"`
	VillageName string   `json:"village_name" binding:"required"`
	District    string   `json:"district" binding:"required"`
	Topics      []string `json:"topics"`
}

// LoginRequest represents a phone-number login. OTP verification happens at
// the edge before this request reaches the backend.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// UpdateProfileRequest carries optional profile changes; empty fields are left untouched
type UpdateProfileRequest struct {
	FullName    string   `json:"full_name"`
	Pincode     string   `json:"pincode"`
	VillageName string   `json:"village_name"`
	District    string   `json:"district"`
	Topics      []string `json:"topics"`
}

// UserDTO represents a user profile
type UserDTO struct {
	ID                 uuid.UUID `json:"id"`
	FullName           string    `json:"full_name"`
	PhoneNumber        string    `json:"phone_number"`
	Pincode            string    `json:"pincode"`
	VillageName        string    `json:"village_name"`
	District           string    `json:"district"`
	Topics             []string  `json:"topics"`
	IsPremium          bool      `json:"is_premium"`
	IsAdmin            bool      `json:"is_admin"`
	AllowNotifications bool      `json:"allow_notifications"`
	CreatedAt          time.Time `json:"created_at"`
}

// AuthResult couples a profile with its session token
type AuthResult struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}
