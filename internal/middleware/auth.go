package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/jwt"
	"github.com/libribooks/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID = "user_id"
)

// Auth returns a middleware that enforces JWT authentication.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ValidateToken(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid token is present, but does not block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := ValidateToken(db, extractToken(c)); err == nil && userID != 0 {
			c.Set(ContextKeyUserID, userID)
		}
		c.Next()
	}
}

// RequireAdmin returns a middleware restricting a route group to admin
// accounts. The role lookup degrades to "editor" when it fails, so a broken
// lookup can never widen access to admin-only routes.
func RequireAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ResolveRole(db, CurrentUserID(c)) != models.RoleAdmin {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// ResolveRole maps a user id to its dashboard role. Any failure (missing
// row, empty role column, DB error) yields the permissive default "editor".
func ResolveRole(db *gorm.DB, userID uint) string {
	if userID == 0 {
		return models.RoleEditor
	}
	var u models.UserModel
	if err := db.Select("role").First(&u, "id = ?", userID).Error; err != nil {
		return models.RoleEditor
	}
	if strings.TrimSpace(u.Role) == "" {
		return models.RoleEditor
	}
	return u.Role
}

// ValidateToken validates a JWT and returns the authenticated user id.
func ValidateToken(db *gorm.DB, rawToken string) (uint, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return 0, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return 0, err
	}

	// The token must still map to a live account; deleted accounts lose
	// access immediately.
	var count int64
	if err := db.Model(&models.UserModel{}).Where("id = ?", claims.UserID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, errors.New("account no longer exists")
	}
	return claims.UserID, nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(uint)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != 0
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
