package article

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/database"
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

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	passthrough := func(c *gin.Context) { c.Next() }
	NewHandler(NewService(db)).RegisterRoutes(api, passthrough)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestArticleLifecycle(t *testing.T) {
	r := setupTestRouter(setupTestDB())

	// create
	w := doJSON(r, http.MethodPost, "/api/v1/articles", gin.H{
		"slug":        "how-to-read-more",
		"title":       "How to Read More",
		"content":     "Read every day.",
		"excerpt":     "A short guide.",
		"date":        "2026-01-15",
		"articleRole": "concept",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// read back by slug
	w = doJSON(r, http.MethodGet, "/api/v1/articles/how-to-read-more", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "How to Read More", got["title"])
	assert.Equal(t, "concept", got["article_role"])

	// update
	w = doJSON(r, http.MethodPatch, "/api/v1/articles/how-to-read-more", gin.H{
		"title": "How to Read More Books",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/articles/how-to-read-more", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "How to Read More Books", got["title"])

	// delete
	w = doJSON(r, http.MethodDelete, "/api/v1/articles/how-to-read-more", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/articles/how-to-read-more", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArticleDuplicateSlug(t *testing.T) {
	r := setupTestRouter(setupTestDB())

	body := gin.H{"slug": "dup", "title": "First", "content": "x"}
	assert.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/api/v1/articles", body).Code)

	body["title"] = "Second"
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, "/api/v1/articles", body).Code)
}

func TestArticleInvalidRoleRejected(t *testing.T) {
	r := setupTestRouter(setupTestDB())

	w := doJSON(r, http.MethodPost, "/api/v1/articles", gin.H{
		"slug":        "bad-role",
		"title":       "Bad",
		"content":     "x",
		"articleRole": "not-a-role",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestArticleListFilters(t *testing.T) {
	db := setupTestDB()
	r := setupTestRouter(db)
	svc := NewService(db)

	_, err := svc.Create(&CreateArticleDTO{
		Slug: "a", Title: "A", Content: "x",
		ArticleRole: "concept", SkillSlug: "speed-reading",
	})
	assert.NoError(t, err)
	_, err = svc.Create(&CreateArticleDTO{
		Slug: "b", Title: "B", Content: "x",
		ArticleRole: "comparison",
	})
	assert.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/v1/articles?role=concept", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data []map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 1)
	assert.Equal(t, "a", listResp.Data[0]["slug"])

	w = doJSON(r, http.MethodGet, "/api/v1/articles?skill=speed-reading", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 1)
}

func TestArticleDateParsing(t *testing.T) {
	db := setupTestDB()
	svc := NewService(db)

	a, err := svc.Create(&CreateArticleDTO{
		Slug: "dated", Title: "Dated", Content: "x", Date: "2026-02-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2026, a.Date.Year())

	_, err = svc.Create(&CreateArticleDTO{
		Slug: "bad-date", Title: "Bad", Content: "x", Date: "yesterday",
	})
	assert.Error(t, err)

	// empty date defaults to now
	b, err := svc.Create(&CreateArticleDTO{Slug: "undated", Title: "U", Content: "x"})
	assert.NoError(t, err)
	assert.False(t, b.Date.IsZero())
}
