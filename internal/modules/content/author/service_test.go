package author

import (
	"strings"
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

func TestCreateDerivesUniqueSlug(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	first, err := svc.Create(&CreateAuthorDTO{Name: "Ursula K. Le Guin"})
	assert.NoError(t, err)
	assert.Equal(t, "ursula-k-le-guin", first.Slug)

	second, err := svc.Create(&CreateAuthorDTO{Name: "Ursula K. Le Guin"})
	assert.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "ursula-k-le-guin"))
}

func TestCreateExplicitSlugConflict(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	_, err := svc.Create(&CreateAuthorDTO{Name: "A", Slug: "taken"})
	assert.NoError(t, err)

	_, err = svc.Create(&CreateAuthorDTO{Name: "B", Slug: "taken"})
	assert.ErrorIs(t, err, errSlugExists)
}

func TestResolveCreatesMissingAuthors(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	ids, err := svc.Resolve([]string{"Frank Herbert", "Jane Austen"})
	assert.NoError(t, err)
	assert.Len(t, ids, 2)

	created, err := svc.GetByID(ids[0])
	assert.NoError(t, err)
	assert.Equal(t, "Frank Herbert", created.Name)
	assert.Equal(t, placeholderBio, created.Bio)
	assert.Contains(t, created.Image, "https://images.libribooks.com/authors/stock-")
	assert.NotEmpty(t, created.Slug)
}

func TestResolveIsIdempotent(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	first, err := svc.Resolve([]string{"Frank Herbert"})
	assert.NoError(t, err)
	second, err := svc.Resolve([]string{"Frank Herbert"})
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	db.Model(&models.AuthorModel{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolveMatchesCaseInsensitively(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	ids, err := svc.Resolve([]string{"Frank Herbert"})
	assert.NoError(t, err)

	again, err := svc.Resolve([]string{"  frank herbert  ", "FRANK HERBERT"})
	assert.NoError(t, err)
	assert.Equal(t, []uint{ids[0], ids[0]}, again)

	var count int64
	db.Model(&models.AuthorModel{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolveDuplicatesInOneBatch(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	ids, err := svc.Resolve([]string{"Frank Herbert", "frank herbert"})
	assert.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1])

	var count int64
	db.Model(&models.AuthorModel{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolveSkipsBlankNames(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	ids, err := svc.Resolve([]string{"", "   ", "Frank Herbert"})
	assert.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestBackfillSlugs(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	db.Create(&models.AuthorModel{Name: "No Slug Author"})
	db.Create(&models.AuthorModel{Name: "Has Slug", Slug: "has-slug"})

	updated, err := svc.BackfillSlugs()
	assert.NoError(t, err)
	assert.Equal(t, 1, updated)

	a, err := svc.GetByQuery("no-slug-author")
	assert.NoError(t, err)
	assert.NotNil(t, a)
	assert.Equal(t, "No Slug Author", a.Name)
}

func TestGetByQueryNumericFallback(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	created, err := svc.Create(&CreateAuthorDTO{Name: "Frank Herbert"})
	assert.NoError(t, err)

	a, err := svc.GetByQuery("frank-herbert")
	assert.NoError(t, err)
	assert.NotNil(t, a)

	byID, err := svc.GetByQuery("1")
	assert.NoError(t, err)
	assert.NotNil(t, byID)
	assert.Equal(t, created.ID, byID.ID)
}

func TestDeleteCascadesBookLinks(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a, err := svc.Create(&CreateAuthorDTO{Name: "Frank Herbert"})
	assert.NoError(t, err)

	b := models.BookModel{Slug: "dune", Title: "Dune"}
	db.Create(&b)
	db.Create(&models.BookAuthorModel{BookID: b.ID, AuthorID: a.ID})

	assert.NoError(t, svc.Delete(a.ID))

	var links int64
	db.Model(&models.BookAuthorModel{}).Where("author_id = ?", a.ID).Count(&links)
	assert.Zero(t, links)
}
