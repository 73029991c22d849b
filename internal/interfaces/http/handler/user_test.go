package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/civicconnect/backend/internal/application/identity"
	"github.com/civicconnect/backend/internal/domain/identity"
	"github.com/civicconnect/backend/internal/domain/shared"
	"github.com/civicconnect/backend/internal/infrastructure/auth"
	"github.com/civicconnect/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*identity.User, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	args := m.Called(ctx, phoneNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.User], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*identity.User]), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID uuid.UUID, isAdmin bool) (string, error) {
	args := m.Called(userID, isAdmin)
	return args.String(0), args.Error(1)
}

// authAs fakes the JWT middleware for handler tests
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func newUserFixture(t *testing.T, userID uuid.UUID) (*MockUserRepository, *MockTokenIssuer, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	users := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	h := NewUserHandler(identityapp.NewUserService(users, tokens, zap.NewNop()), auth.NewInMemoryTokenBlacklist(), time.Hour)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/check-phone", h.CheckPhone)
	r.GET("/users/me", authAs(userID), h.GetProfile)
	r.PUT("/users/me", authAs(userID), h.UpdateProfile)
	return users, tokens, r
}

func mustUser(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Asha Patel", "+919876543210", "416001", "Shirol", "Kolhapur", []string{"agriculture"})
	require.NoError(t, err)
	return user
}

func TestUserHandler_Register_Success(t *testing.T) {
	users, tokens, r := newUserFixture(t, uuid.New())

	users.On("ExistsByPhoneNumber", mock.Anything, "+919876543210").Return(false, nil)
	users.On("Save", mock.Anything, mock.Anything).Return(nil)
	tokens.On("Issue", mock.Anything, false).Return("token-abc", nil)

	body, _ := json.Marshal(map[string]any{
		"full_name":    "Asha Patel",
		"phone_number": "+919876543210",
		"pincode":      "416001",
		"village_name": "Shirol",
		"district":     "Kolhapur",
		"topics":       []string{"agriculture"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "token-abc")
	assert.Contains(t, w.Body.String(), "Asha Patel")
}

func TestUserHandler_Register_DuplicatePhone(t *testing.T) {
	users, _, r := newUserFixture(t, uuid.New())

	users.On("ExistsByPhoneNumber", mock.Anything, "+919876543210").Return(true, nil)

	body, _ := json.Marshal(map[string]any{
		"full_name":    "Asha Patel",
		"phone_number": "+919876543210",
		"pincode":      "416001",
		"village_name": "Shirol",
		"district":     "Kolhapur",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_ALREADY_EXISTS")
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserHandler_Register_MissingFields(t *testing.T) {
	_, _, r := newUserFixture(t, uuid.New())

	body, _ := json.Marshal(map[string]any{"full_name": "Asha Patel"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_Login_Success(t *testing.T) {
	users, tokens, r := newUserFixture(t, uuid.New())

	user := mustUser(t)
	users.On("FindByPhoneNumber", mock.Anything, "+919876543210").Return(user, nil)
	tokens.On("Issue", mock.Anything, false).Return("token-xyz", nil)

	body, _ := json.Marshal(map[string]string{"phone_number": "+919876543210"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token-xyz")
}

func TestUserHandler_Login_UnknownPhone(t *testing.T) {
	users, _, r := newUserFixture(t, uuid.New())

	users.On("FindByPhoneNumber", mock.Anything, "+911111111111").Return(nil, shared.ErrNotFound)

	body, _ := json.Marshal(map[string]string{"phone_number": "+911111111111"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_CheckPhone(t *testing.T) {
	users, _, r := newUserFixture(t, uuid.New())

	users.On("ExistsByPhoneNumber", mock.Anything, "+919876543210").Return(true, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/check-phone?phone_number=%2B919876543210", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exists":true`)
}

func TestUserHandler_CheckPhone_MissingParam(t *testing.T) {
	_, _, r := newUserFixture(t, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/check-phone", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_GetProfile(t *testing.T) {
	user := mustUser(t)
	users, _, r := newUserFixture(t, user.GetID())

	users.On("FindByID", mock.Anything, user.GetID()).Return(user, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kolhapur")
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	user := mustUser(t)
	users, _, r := newUserFixture(t, user.GetID())

	users.On("FindByID", mock.Anything, user.GetID()).Return(user, nil)
	users.On("Save", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]any{"village_name": "Hatkanangale"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hatkanangale")
}

func TestUserHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	blacklist := auth.NewInMemoryTokenBlacklist()
	h := NewUserHandler(nil, blacklist, time.Hour)

	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "jti-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Next()
	}, h.Logout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	revoked, err := blacklist.IsBlacklisted(context.Background(), "jti-42")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestUserHandler_Logout_NoSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewUserHandler(nil, auth.NewInMemoryTokenBlacklist(), time.Hour)
	r := gin.New()
	r.POST("/auth/logout", h.Logout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_LogoutAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	blacklist := auth.NewInMemoryTokenBlacklist()
	h := NewUserHandler(nil, blacklist, time.Hour)

	issuedAt := time.Now()
	claims := &auth.Claims{
		UserID: "user-7",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-7",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}

	r := gin.New()
	r.POST("/auth/logout-all", func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Next()
	}, h.LogoutAll)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout-all", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), "user-7", issuedAt)
	require.NoError(t, err)
	assert.True(t, invalidated)
}
