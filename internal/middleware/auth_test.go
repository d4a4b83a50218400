package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/database"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		panic(err)
	}
	return db
}

func createUser(db *gorm.DB, role string) *models.UserModel {
	u := &models.UserModel{
		Name:     "Test",
		Email:    role + "@example.com",
		Password: "irrelevant",
		Role:     role,
	}
	db.Create(u)
	return u
}

func signToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := jwt.Sign(userID, jwt.DefaultTTL)
	assert.NoError(t, err)
	return token
}

func TestResolveRoleDefaultsToEditor(t *testing.T) {
	db := setupTestDB()

	assert.Equal(t, models.RoleEditor, ResolveRole(db, 0))
	assert.Equal(t, models.RoleEditor, ResolveRole(db, 9999))

	blank := createUser(db, "")
	assert.Equal(t, models.RoleEditor, ResolveRole(db, blank.ID))
}

// A broken DB connection must degrade to editor, never to admin. Closing
// the underlying sqlite handle makes every role lookup fail.
func TestResolveRoleFailingDBDefaultsToEditor(t *testing.T) {
	db := setupTestDB()
	admin := createUser(db, models.RoleAdmin)

	sqlDB, err := db.DB()
	assert.NoError(t, err)
	assert.NoError(t, sqlDB.Close())

	assert.Equal(t, models.RoleEditor, ResolveRole(db, admin.ID))
}

func TestResolveRoleReturnsStoredRole(t *testing.T) {
	db := setupTestDB()

	admin := createUser(db, models.RoleAdmin)
	editor := createUser(db, models.RoleEditor)

	assert.Equal(t, models.RoleAdmin, ResolveRole(db, admin.ID))
	assert.Equal(t, models.RoleEditor, ResolveRole(db, editor.ID))
}

func TestValidateToken(t *testing.T) {
	db := setupTestDB()
	u := createUser(db, models.RoleEditor)

	userID, err := ValidateToken(db, "Bearer "+signToken(t, u.ID))
	assert.NoError(t, err)
	assert.Equal(t, u.ID, userID)

	_, err = ValidateToken(db, "")
	assert.Error(t, err)

	_, err = ValidateToken(db, "not-a-jwt")
	assert.Error(t, err)

	// Tokens for deleted accounts stop working immediately.
	token := signToken(t, u.ID)
	db.Delete(&models.UserModel{}, u.ID)
	_, err = ValidateToken(db, token)
	assert.Error(t, err)
}

func setupGateRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalAuth(db))
	r.GET("/editor-area", Auth(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUserID(c)})
	})
	r.GET("/admin-area", RequireAdmin(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareGate(t *testing.T) {
	db := setupTestDB()
	u := createUser(db, models.RoleEditor)
	r := setupGateRouter(db)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/editor-area", "").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/editor-area", signToken(t, u.ID)).Code)
}

func TestRequireAdminGate(t *testing.T) {
	db := setupTestDB()
	admin := createUser(db, models.RoleAdmin)
	editor := createUser(db, models.RoleEditor)
	r := setupGateRouter(db)

	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin-area", "").Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin-area", signToken(t, editor.ID)).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/admin-area", signToken(t, admin.ID)).Code)
}
