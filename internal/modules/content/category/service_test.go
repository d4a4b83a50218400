package category

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

func TestGetByQuerySlugOrName(t *testing.T) {
	svc := NewService(setupTestDB())

	created, err := svc.Create(&CreateCategoryDTO{Name: "Science Fiction", Slug: "sci-fi"})
	assert.NoError(t, err)

	bySlug, err := svc.GetByQuery("sci-fi")
	assert.NoError(t, err)
	assert.NotNil(t, bySlug)
	assert.Equal(t, created.ID, bySlug.ID)

	byName, err := svc.GetByQuery("Science Fiction")
	assert.NoError(t, err)
	assert.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)

	missing, err := svc.GetByQuery("nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateRejectsDuplicateNameOrSlug(t *testing.T) {
	svc := NewService(setupTestDB())

	_, err := svc.Create(&CreateCategoryDTO{Name: "Sci-Fi", Slug: "sci-fi"})
	assert.NoError(t, err)

	_, err = svc.Create(&CreateCategoryDTO{Name: "Sci-Fi", Slug: "other"})
	assert.Error(t, err)

	_, err = svc.Create(&CreateCategoryDTO{Name: "Other", Slug: "sci-fi"})
	assert.Error(t, err)
}

func TestDeleteDetachesBooksAndSkills(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	cat, err := svc.Create(&CreateCategoryDTO{Name: "Sci-Fi", Slug: "sci-fi"})
	assert.NoError(t, err)

	book := models.BookModel{Slug: "dune", Title: "Dune", CategoryID: &cat.ID}
	db.Create(&book)
	skill := models.SkillModel{Slug: "worldbuilding", Name: "Worldbuilding", CategoryID: &cat.ID}
	db.Create(&skill)

	assert.NoError(t, svc.Delete(cat.ID))

	var gotBook models.BookModel
	db.First(&gotBook, book.ID)
	assert.Nil(t, gotBook.CategoryID)

	var gotSkill models.SkillModel
	db.First(&gotSkill, skill.ID)
	assert.Nil(t, gotSkill.CategoryID)

	gone, err := svc.GetByID(cat.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}
