package book

import (
	"fmt"
	"strconv"
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

func createTestAuthor(db *gorm.DB, name, slug string) *models.AuthorModel {
	a := &models.AuthorModel{Name: name, Slug: slug}
	db.Create(a)
	return a
}

func createTestTag(db *gorm.DB, name string) *models.TagModel {
	t := &models.TagModel{Name: name}
	db.Create(t)
	return t
}

func TestGetByQuerySlugFirstThenID(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	created, err := svc.Create(&CreateBookDTO{Slug: "dune", Title: "Dune"})
	assert.NoError(t, err)

	bySlug, err := svc.GetByQuery("dune")
	assert.NoError(t, err)
	assert.NotNil(t, bySlug)
	assert.Equal(t, created.ID, bySlug.ID)

	byID, err := svc.GetByQuery(strconv.FormatUint(uint64(created.ID), 10))
	assert.NoError(t, err)
	assert.NotNil(t, byID)
	assert.Equal(t, created.ID, byID.ID)

	missing, err := svc.GetByQuery("no-such-book")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetByQueryPrefersSlugOverID(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	first, err := svc.Create(&CreateBookDTO{Slug: "first", Title: "First"})
	assert.NoError(t, err)

	// A book whose slug is the numeric id of another book must win the
	// slug lookup.
	numericSlug := strconv.FormatUint(uint64(first.ID), 10)
	second, err := svc.Create(&CreateBookDTO{Slug: numericSlug, Title: "Second"})
	assert.NoError(t, err)

	got, err := svc.GetByQuery(numericSlug)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
}

func TestCreatePreservesAuthorOrder(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a1 := createTestAuthor(db, "Frank Herbert", "frank-herbert")
	a2 := createTestAuthor(db, "Brian Herbert", "brian-herbert")
	a3 := createTestAuthor(db, "Kevin Anderson", "kevin-anderson")

	b, err := svc.Create(&CreateBookDTO{
		Slug:      "dune",
		Title:     "Dune",
		AuthorIDs: []uint{a3.ID, a1.ID, a2.ID},
	})
	assert.NoError(t, err)

	refs, err := svc.AuthorsOf(b.ID)
	assert.NoError(t, err)
	assert.Len(t, refs, 3)
	assert.Equal(t, a3.ID, refs[0].ID)
	assert.Equal(t, a1.ID, refs[1].ID)
	assert.Equal(t, a2.ID, refs[2].ID)
}

func TestCreateDeduplicatesAuthorIDs(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a1 := createTestAuthor(db, "Frank Herbert", "frank-herbert")

	b, err := svc.Create(&CreateBookDTO{
		Slug:      "dune",
		Title:     "Dune",
		AuthorIDs: []uint{a1.ID, a1.ID, a1.ID},
	})
	assert.NoError(t, err)

	refs, err := svc.AuthorsOf(b.ID)
	assert.NoError(t, err)
	assert.Len(t, refs, 1)
}

func TestUpdateReplacesAuthorsWholesale(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a1 := createTestAuthor(db, "Frank Herbert", "frank-herbert")
	a2 := createTestAuthor(db, "Brian Herbert", "brian-herbert")

	b, err := svc.Create(&CreateBookDTO{
		Slug:      "dune",
		Title:     "Dune",
		AuthorIDs: []uint{a1.ID},
	})
	assert.NoError(t, err)

	_, err = svc.Update(b.ID, &UpdateBookDTO{AuthorIDs: []uint{a2.ID}})
	assert.NoError(t, err)

	refs, err := svc.AuthorsOf(b.ID)
	assert.NoError(t, err)
	assert.Len(t, refs, 1)
	assert.Equal(t, a2.ID, refs[0].ID)

	var joinRows int64
	db.Model(&models.BookAuthorModel{}).Where("book_id = ?", b.ID).Count(&joinRows)
	assert.Equal(t, int64(1), joinRows)
}

func TestUpdateNilSlicesLeaveRelationsUntouched(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a1 := createTestAuthor(db, "Frank Herbert", "frank-herbert")
	createTestTag(db, "sci-fi")

	b, err := svc.Create(&CreateBookDTO{
		Slug:      "dune",
		Title:     "Dune",
		AuthorIDs: []uint{a1.ID},
		Tags:      []string{"sci-fi"},
	})
	assert.NoError(t, err)

	newTitle := "Dune (Reread)"
	_, err = svc.Update(b.ID, &UpdateBookDTO{Title: &newTitle})
	assert.NoError(t, err)

	refs, err := svc.AuthorsOf(b.ID)
	assert.NoError(t, err)
	assert.Len(t, refs, 1)

	tags, err := svc.TagsOf(b.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"sci-fi"}, tags)
}

func TestUpdateEmptySliceClearsRelations(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a1 := createTestAuthor(db, "Frank Herbert", "frank-herbert")
	createTestTag(db, "sci-fi")

	b, err := svc.Create(&CreateBookDTO{
		Slug:      "dune",
		Title:     "Dune",
		AuthorIDs: []uint{a1.ID},
		Tags:      []string{"sci-fi"},
	})
	assert.NoError(t, err)

	_, err = svc.Update(b.ID, &UpdateBookDTO{
		AuthorIDs: []uint{},
		Tags:      []string{},
	})
	assert.NoError(t, err)

	refs, err := svc.AuthorsOf(b.ID)
	assert.NoError(t, err)
	assert.Empty(t, refs)

	tags, err := svc.TagsOf(b.ID)
	assert.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTagsUnknownNamesDropped(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	createTestTag(db, "sci-fi")
	createTestTag(db, "classic")

	b, err := svc.Create(&CreateBookDTO{
		Slug:  "dune",
		Title: "Dune",
		Tags:  []string{"classic", "sci-fi", "does-not-exist"},
	})
	assert.NoError(t, err)

	tags, err := svc.TagsOf(b.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"classic", "sci-fi"}, tags)
}

func TestCreateDuplicateSlugRejected(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	_, err := svc.Create(&CreateBookDTO{Slug: "dune", Title: "Dune"})
	assert.NoError(t, err)

	_, err = svc.Create(&CreateBookDTO{Slug: "dune", Title: "Dune Again"})
	assert.ErrorIs(t, err, errSlugExists)
}

func TestCreateResolvesAuthorNames(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a1 := createTestAuthor(db, "Frank Herbert", "frank-herbert")
	svc.SetAuthorResolver(func(names []string) ([]uint, error) {
		ids := make([]uint, 0, len(names))
		for _, n := range names {
			if n == "Frank Herbert" {
				ids = append(ids, a1.ID)
				continue
			}
			return nil, fmt.Errorf("unexpected name %q", n)
		}
		return ids, nil
	})

	b, err := svc.Create(&CreateBookDTO{
		Slug:        "dune",
		Title:       "Dune",
		AuthorNames: []string{"Frank Herbert"},
	})
	assert.NoError(t, err)

	refs, err := svc.AuthorsOf(b.ID)
	assert.NoError(t, err)
	assert.Len(t, refs, 1)
	assert.Equal(t, a1.ID, refs[0].ID)
}

func TestDeleteRemovesJoinRows(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a1 := createTestAuthor(db, "Frank Herbert", "frank-herbert")
	createTestTag(db, "sci-fi")

	b, err := svc.Create(&CreateBookDTO{
		Slug:      "dune",
		Title:     "Dune",
		AuthorIDs: []uint{a1.ID},
		Tags:      []string{"sci-fi"},
	})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(b.ID))

	var authorRows, tagRows int64
	db.Model(&models.BookAuthorModel{}).Where("book_id = ?", b.ID).Count(&authorRows)
	db.Model(&models.BookTagModel{}).Where("book_id = ?", b.ID).Count(&tagRows)
	assert.Zero(t, authorRows)
	assert.Zero(t, tagRows)

	got, err := svc.GetByID(b.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFeaturedFilter(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	featured := true
	_, err := svc.Create(&CreateBookDTO{Slug: "dune", Title: "Dune", Featured: &featured})
	assert.NoError(t, err)
	_, err = svc.Create(&CreateBookDTO{Slug: "emma", Title: "Emma"})
	assert.NoError(t, err)

	books, err := svc.Featured()
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, "dune", books[0].Slug)
}
