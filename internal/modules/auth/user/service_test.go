package user

import (
	"testing"

	"github.com/libribooks/core/internal/database"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
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

func TestCreateHashesPassword(t *testing.T) {
	svc := NewService(setupTestDB())

	u, err := svc.Create(&CreateUserDTO{
		Email: "Editor@Example.com", Password: "correct horse", Name: "Ed",
	})
	assert.NoError(t, err)
	assert.Equal(t, "editor@example.com", u.Email)
	assert.Equal(t, models.RoleEditor, u.Role)
	assert.NotEqual(t, "correct horse", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("correct horse")))
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := NewService(setupTestDB())

	_, err := svc.Create(&CreateUserDTO{Email: "a@example.com", Password: "password1"})
	assert.NoError(t, err)

	_, err = svc.Create(&CreateUserDTO{Email: "A@EXAMPLE.COM", Password: "password2"})
	assert.ErrorIs(t, err, errEmailExists)
}

func TestLogin(t *testing.T) {
	svc := NewService(setupTestDB())

	created, err := svc.Create(&CreateUserDTO{Email: "a@example.com", Password: "password1"})
	assert.NoError(t, err)

	token, u, err := svc.Login("a@example.com", "password1", "127.0.0.1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, created.ID, u.ID)
	assert.NotNil(t, u.LastLoginTime)
	assert.Equal(t, "127.0.0.1", u.LastLoginIP)

	claims, err := jwt.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := NewService(setupTestDB())

	_, err := svc.Create(&CreateUserDTO{Email: "a@example.com", Password: "password1"})
	assert.NoError(t, err)

	_, _, err = svc.Login("a@example.com", "wrong", "")
	assert.ErrorIs(t, err, errBadCredentials)

	_, _, err = svc.Login("missing@example.com", "password1", "")
	assert.ErrorIs(t, err, errBadCredentials)
}

func TestRoleFallsBackToEditor(t *testing.T) {
	svc := NewService(setupTestDB())

	assert.Equal(t, models.RoleEditor, svc.Role(9999))

	admin, err := svc.Create(&CreateUserDTO{
		Email: "admin@example.com", Password: "password1", Role: models.RoleAdmin,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, svc.Role(admin.ID))
}

func TestUpdatePasswordRehashes(t *testing.T) {
	svc := NewService(setupTestDB())

	u, err := svc.Create(&CreateUserDTO{Email: "a@example.com", Password: "password1"})
	assert.NoError(t, err)

	newPass := "password2"
	updated, err := svc.Update(u.ID, &UpdateUserDTO{Password: &newPass})
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("password2")))

	_, _, err = svc.Login("a@example.com", "password2", "")
	assert.NoError(t, err)
}

func TestEnsureSeedAdmin(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	assert.NoError(t, svc.EnsureSeedAdmin("admin@example.com", "password1"))

	var count int64
	db.Model(&models.UserModel{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// no-op when accounts exist or credentials are blank
	assert.NoError(t, svc.EnsureSeedAdmin("admin@example.com", "password1"))
	db.Model(&models.UserModel{}).Count(&count)
	assert.Equal(t, int64(1), count)

	token, u, err := svc.Login("admin@example.com", "password1", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleAdmin, u.Role)
}
