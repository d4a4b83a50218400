package skill

import (
	"testing"

	"github.com/libribooks/core/internal/database"
	"github.com/libribooks/core/internal/models"
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

func TestBooksOfLinkedCategory(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	cat := models.CategoryModel{Name: "Productivity", Slug: "productivity"}
	db.Create(&cat)
	db.Create(&models.BookModel{Slug: "deep-work", Title: "Deep Work", CategoryID: &cat.ID})
	db.Create(&models.BookModel{Slug: "unrelated", Title: "Unrelated"})

	sk, err := svc.Create(&CreateSkillDTO{
		Slug: "focus", Name: "Focus", CategoryID: &cat.ID,
	})
	assert.NoError(t, err)

	books, err := svc.BooksOf(sk)
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, "deep-work", books[0].Slug)
}

func TestBooksOfWithoutCategory(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	sk, err := svc.Create(&CreateSkillDTO{Slug: "orphan", Name: "Orphan"})
	assert.NoError(t, err)

	books, err := svc.BooksOf(sk)
	assert.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestCategorySurvivesRename(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	cat := models.CategoryModel{Name: "Productivity", Slug: "productivity"}
	db.Create(&cat)
	db.Create(&models.BookModel{Slug: "deep-work", Title: "Deep Work", CategoryID: &cat.ID})

	sk, err := svc.Create(&CreateSkillDTO{Slug: "focus", Name: "Focus", CategoryID: &cat.ID})
	assert.NoError(t, err)

	// renaming the category must not detach the skill's books
	db.Model(&cat).Updates(map[string]interface{}{"name": "Getting Things Done", "slug": "gtd"})

	books, err := svc.BooksOf(sk)
	assert.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestClearCategory(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	cat := models.CategoryModel{Name: "Productivity", Slug: "productivity"}
	db.Create(&cat)

	sk, err := svc.Create(&CreateSkillDTO{Slug: "focus", Name: "Focus", CategoryID: &cat.ID})
	assert.NoError(t, err)
	assert.NotNil(t, sk.CategoryID)

	updated, err := svc.Update(sk.ID, &UpdateSkillDTO{ClearCategory: true})
	assert.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}

func TestGetByQuerySlugAndID(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	sk, err := svc.Create(&CreateSkillDTO{Slug: "focus", Name: "Focus"})
	assert.NoError(t, err)

	bySlug, err := svc.GetByQuery("focus")
	assert.NoError(t, err)
	assert.NotNil(t, bySlug)

	byID, err := svc.GetByQuery("1")
	assert.NoError(t, err)
	assert.NotNil(t, byID)
	assert.Equal(t, sk.ID, byID.ID)

	missing, err := svc.GetByQuery("nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDuplicateSlugRejected(t *testing.T) {
	svc := NewService(setupTestDB())

	_, err := svc.Create(&CreateSkillDTO{Slug: "focus", Name: "Focus"})
	assert.NoError(t, err)

	_, err = svc.Create(&CreateSkillDTO{Slug: "focus", Name: "Other"})
	assert.ErrorIs(t, err, errSlugExists)
}
