package sitemap

import (
	"strings"
	"testing"

	"github.com/libribooks/core/internal/database"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/modules/settings"
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

func TestGenerateIncludesAllContentTypes(t *testing.T) {
	db := setupTestDB()
	st := settings.NewService(db)
	svc := NewService(db, st)

	db.Create(&models.BookModel{Slug: "dune", Title: "Dune"})
	db.Create(&models.ArticleModel{Slug: "reading-guide", Title: "Guide"})
	db.Create(&models.AuthorModel{Name: "Frank Herbert", Slug: "frank-herbert"})
	db.Create(&models.SkillModel{Slug: "focus", Name: "Focus"})
	db.Create(&models.CategoryModel{Name: "Sci-Fi", Slug: "sci-fi"})
	db.Create(&models.PageModel{Slug: "about", Title: "About"})

	out, err := svc.Generate()
	assert.NoError(t, err)
	xml := string(out)

	assert.True(t, strings.HasPrefix(xml, "<?xml"))
	assert.Contains(t, xml, "<loc>https://libribooks.com/</loc>")
	assert.Contains(t, xml, "https://libribooks.com/books/dune")
	assert.Contains(t, xml, "https://libribooks.com/articles/reading-guide")
	assert.Contains(t, xml, "https://libribooks.com/authors/frank-herbert")
	assert.Contains(t, xml, "https://libribooks.com/skills/focus")
	assert.Contains(t, xml, "https://libribooks.com/categories/sci-fi")
	assert.Contains(t, xml, "https://libribooks.com/about")
}

func TestGenerateUsesConfiguredBaseURL(t *testing.T) {
	db := setupTestDB()
	st := settings.NewService(db)
	svc := NewService(db, st)

	_, err := st.Update(settings.SectionGeneral, map[string]interface{}{
		"site_url": "https://books.example.org/",
	})
	assert.NoError(t, err)

	db.Create(&models.BookModel{Slug: "dune", Title: "Dune"})

	out, err := svc.Generate()
	assert.NoError(t, err)
	assert.Contains(t, string(out), "https://books.example.org/books/dune")
	// trailing slash on the base URL must not double up
	assert.NotContains(t, string(out), "org//books")
}

func TestGenerateSkipsAuthorsWithoutSlug(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db, settings.NewService(db))

	db.Create(&models.AuthorModel{Name: "No Slug"})

	out, err := svc.Generate()
	assert.NoError(t, err)
	assert.NotContains(t, string(out), "/authors/")
}
