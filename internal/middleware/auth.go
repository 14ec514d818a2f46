package middleware

import (
	"net/http"
	"strings"

	"github.com/croptrack/croptrack/internal/models"
	"github.com/croptrack/croptrack/internal/repository"
	"github.com/croptrack/croptrack/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *services.AuthService
	userRepo    *repository.UserRepository
	testMode    bool
}

func NewAuthMiddleware(authService *services.AuthService, userRepo *repository.UserRepository, testMode bool) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
		testMode:    testMode,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.testMode {
			username := c.GetHeader("X-Test-Username")
			if username == "" {
				abortUnauthorized(c, "X-Test-Username header required in test mode")
				return
			}
			user, err := m.testUser(username, c.GetHeader("X-Test-Role"))
			if err != nil {
				abortUnauthorized(c, "failed to resolve test user")
				return
			}
			setIdentity(c, user)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		user, err := m.userRepo.FindByUsername(claims.Username)
		if err != nil || user == nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}

func (m *AuthMiddleware) testUser(username, role string) (*models.User, error) {
	user, err := m.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		role = models.RoleField
	}
	if user == nil {
		user = &models.User{
			Username:     username,
			PasswordHash: "test",
			Role:         role,
		}
		if err := m.userRepo.Create(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if role != user.Role {
		user.Role = role
		if err := m.userRepo.Update(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func setIdentity(c *gin.Context, user *models.User) {
	c.Set("username", user.Username)
	c.Set("role", user.Role)
	c.Set("userID", user.ID)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
	c.Abort()
}

func GetUsername(c *gin.Context) string {
	username, exists := c.Get("username")
	if !exists {
		return ""
	}
	return username.(string)
}

func GetRole(c *gin.Context) string {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}
	return role.(string)
}

func GetUserID(c *gin.Context) uint {
	id, exists := c.Get("userID")
	if !exists {
		return 0
	}
	return id.(uint)
}
