// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hadarhome/storefront/internal/models"
	"github.com/hadarhome/storefront/internal/utils"
)

const testJWTSecret = "test-secret"

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, testJWTSecret, 1)
}

func sampleRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FirstName: "Dana",
		LastName:  "Levi",
		Email:     "dana@example.com",
		Password:  "secret-password-123",
		Phone:     "0521234567",
	}
}

func TestAuthRegisterIssuesUsableToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Register(sampleRegisterRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)

	claims, err := utils.ValidateToken(resp.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(sampleRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Register(sampleRegisterRequest())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(sampleRegisterRequest())
	require.NoError(t, err)

	resp, err := svc.Login(LoginRequest{Email: "dana@example.com", Password: "secret-password-123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotNil(t, resp.User.LastLoginAt)

	_, err = svc.Login(LoginRequest{Email: "dana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthLoginDisabledAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Register(sampleRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, db.Model(resp.User).Update("is_active", false).Error)

	_, err = svc.Login(LoginRequest{Email: "dana@example.com", Password: "secret-password-123"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthUpdateProfileAllowList(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Register(sampleRegisterRequest())
	require.NoError(t, err)

	newName := "Daniella"
	updated, err := svc.UpdateProfile(resp.User.ID, UpdateProfileRequest{
		FirstName: &newName,
		Address: &models.Address{
			Street:  "12 Herzl St",
			City:    "Tel Aviv",
			ZipCode: "6100000",
			Country: "Israel",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Daniella", updated.FirstName)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Tel Aviv", updated.Address.City)
	// Email stays what it was; profile updates cannot touch it.
	assert.Equal(t, "dana@example.com", updated.Email)
}

func TestAuthChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Register(sampleRegisterRequest())
	require.NoError(t, err)

	err = svc.ChangePassword(resp.User.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "another-password-456",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(resp.User.ID, ChangePasswordRequest{
		CurrentPassword: "secret-password-123",
		NewPassword:     "another-password-456",
	})
	require.NoError(t, err)

	_, err = svc.Login(LoginRequest{Email: "dana@example.com", Password: "another-password-456"})
	require.NoError(t, err)
}
