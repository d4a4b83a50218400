package article

import (
	"time"

	"github.com/libribooks/core/internal/models"
)

// CreateArticleDTO is the request body for creating an article. Date
// accepts an ISO date (2006-01-02) or RFC 3339 timestamp.
type CreateArticleDTO struct {
	Slug            string               `json:"slug"    binding:"required"`
	Title           string               `json:"title"   binding:"required"`
	Excerpt         string               `json:"excerpt"`
	Content         string               `json:"content" binding:"required"`
	CoverImage      string               `json:"coverImage"`
	Author          string               `json:"author"`
	Date            string               `json:"date"`
	SkillSlug       string               `json:"skillSlug"`
	ArticleRole     string               `json:"articleRole"`
	KeywordLinks    []models.KeywordLink `json:"keywordLinks"`
	MetaTitle       string               `json:"metaTitle"`
	MetaDescription string               `json:"metaDescription"`
}

// UpdateArticleDTO is the request body for updating an article.
type UpdateArticleDTO struct {
	Slug            *string              `json:"slug"`
	Title           *string              `json:"title"`
	Excerpt         *string              `json:"excerpt"`
	Content         *string              `json:"content"`
	CoverImage      *string              `json:"coverImage"`
	Author          *string              `json:"author"`
	Date            *string              `json:"date"`
	SkillSlug       *string              `json:"skillSlug"`
	ArticleRole     *string              `json:"articleRole"`
	KeywordLinks    []models.KeywordLink `json:"keywordLinks"`
	MetaTitle       *string              `json:"metaTitle"`
	MetaDescription *string              `json:"metaDescription"`
}

// ListQuery holds query params for listing articles.
type ListQuery struct {
	Role  *string `form:"role"`
	Skill *string `form:"skill"`
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func validRole(role string) bool {
	switch role {
	case "", models.ArticleRolePillarSupport, models.ArticleRoleComparison,
		models.ArticleRoleConcept, models.ArticleRoleBookFocused:
		return true
	}
	return false
}
