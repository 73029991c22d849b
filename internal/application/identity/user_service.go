package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicconnect/backend/internal/domain/identity"
	"github.com/civicconnect/backend/internal/domain/shared"
)

// TokenIssuer mints session tokens for authenticated accounts
type TokenIssuer interface {
	Issue(userID uuid.UUID, isAdmin bool) (string, error)
}

// UserService handles account registration, login and profile management
type UserService struct {
	users  identity.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an account and returns it with a session token
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	exists, err := s.users.ExistsByPhoneNumber(ctx, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this phone number already exists")
	}

	user, err := identity.NewUser(req.FullName, req.PhoneNumber, req.Pincode, req.VillageName, req.District, req.Topics)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.GetID(), user.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.GetID().String()))

	return &AuthResult{User: *toUserDTO(user), Token: token}, nil
}

// Login resolves an account by phone number and issues a session token.
// OTP verification is handled upstream; a blocked account cannot log in.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.FindByPhoneNumber(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "No account exists for this phone number")
		}
		return nil, err
	}
	if user.IsBlocked {
		return nil, shared.ErrForbidden
	}

	token, err := s.tokens.Issue(user.GetID(), user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: *toUserDTO(user), Token: token}, nil
}

// CheckPhoneNumber reports whether an account exists for the phone number
func (s *UserService) CheckPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	return s.users.ExistsByPhoneNumber(ctx, phoneNumber)
}

// GetProfile retrieves a user profile by ID
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	return toUserDTO(user), nil
}

// UpdateProfile applies profile changes and returns the updated profile
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}

	if err := user.UpdateProfile(req.FullName, req.Pincode, req.VillageName, req.District, req.Topics); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func toUserDTO(user *identity.User) *UserDTO {
	return &UserDTO{
		ID:                 user.GetID(),
		FullName:           user.FullName,
		PhoneNumber:        user.PhoneNumber,
		Pincode:            user.Pincode,
		VillageName:        user.VillageName,
		District:           user.District,
		Topics:             user.TopicsOfInterest,
		IsPremium:          user.IsPremium,
		IsAdmin:            user.IsAdmin,
		AllowNotifications: user.AllowNotifications,
		CreatedAt:          user.GetCreatedAt(),
	}
}
