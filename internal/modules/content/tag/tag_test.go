package tag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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

func TestListEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB()
	svc := NewService(db)

	for _, name := range []string{"sci-fi", "classic"} {
		_, err := svc.Create(name)
		assert.NoError(t, err)
	}

	r := gin.New()
	api := r.Group("/api/v1")
	passthrough := func(c *gin.Context) { c.Next() }
	NewHandler(svc).RegisterRoutes(api, passthrough)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.TagModel `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, "classic", body.Data[0].Name)
}
