package services

import (
	"testing"
	"time"

	"github.com/croptrack/croptrack/internal/database"
	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTestDB(t *testing.T) *AuthService {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	return NewAuthService(userRepo, tokenRepo, "test-secret")
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	authService := setupAuthTestDB(t)

	user, err := authService.Register("maria", "maria@example.com", "plantsrule1", models.RoleManager)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.NotEqual(t, "plantsrule1", user.PasswordHash)

	token, loggedIn, err := authService.Login("maria", "plantsrule1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestAuthService_DefaultRole(t *testing.T) {
	authService := setupAuthTestDB(t)

	user, err := authService.Register("joan", "", "longenough", "")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleField, user.Role)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	authService := setupAuthTestDB(t)

	_, err := authService.Register("x", "", "longenough", "")
	assert.True(t, IsValidation(err))

	_, err = authService.Register("valid-name", "", "short", "")
	assert.True(t, IsValidation(err))

	_, err = authService.Register("valid-name", "", "longenough", "ceo")
	assert.True(t, IsValidation(err))
}

func TestAuthService_DuplicateUsername(t *testing.T) {
	authService := setupAuthTestDB(t)

	_, err := authService.Register("sam", "", "longenough", "")
	assert.NoError(t, err)

	_, err = authService.Register("sam", "other@example.com", "different1", models.RoleAnalyst)
	assert.Equal(t, ErrDuplicateUsername, err)
}

func TestAuthService_WrongPassword(t *testing.T) {
	authService := setupAuthTestDB(t)

	_, err := authService.Register("sam", "", "longenough", "")
	assert.NoError(t, err)

	_, _, err = authService.Login("sam", "wrongwrong")
	assert.Equal(t, ErrWrongPassword, err)

	_, _, err = authService.Login("ghost", "whatever12")
	assert.Equal(t, ErrUserNotFound, err)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	authService := setupAuthTestDB(t)

	_, err := authService.ValidateToken("not-a-jwt")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	authService := setupAuthTestDB(t)

	claims := TokenClaims{
		Username: "sam",
		Role:     models.RoleField,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "croptrack",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = authService.ValidateToken(signed)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	authService := setupAuthTestDB(t)

	_, err := authService.Register("sam", "", "longenough", "")
	assert.NoError(t, err)

	err = authService.ChangePassword("sam", "wrongwrong", "newpassword")
	assert.Equal(t, ErrWrongPassword, err)

	err = authService.ChangePassword("sam", "longenough", "tiny")
	assert.True(t, IsValidation(err))

	err = authService.ChangePassword("sam", "longenough", "newpassword")
	assert.NoError(t, err)

	_, _, err = authService.Login("sam", "newpassword")
	assert.NoError(t, err)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthTestDB(t)

	_, err := authService.Register("sam", "old@example.com", "longenough", "")
	assert.NoError(t, err)

	user, err := authService.UpdateProfile("sam", "new@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)

	_, err = authService.UpdateProfile("ghost", "x@example.com")
	assert.Equal(t, ErrUserNotFound, err)
}
