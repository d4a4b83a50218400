package models

import "time"

// Article roles, used to slot an article into the SEO content structure.
const (
	ArticleRolePillarSupport = "pillar-support"
	ArticleRoleComparison    = "comparison"
	ArticleRoleConcept       = "concept"
	ArticleRoleBookFocused   = "book-focused"
)

// KeywordLink maps a keyword inside article content to a target URL.
type KeywordLink struct {
	Keyword string `json:"keyword"`
	URL     string `json:"url"`
}

// ArticleModel is an editorial article. Articles are addressed by slug
// throughout the API.
type ArticleModel struct {
	Base
	Slug            string        `json:"slug"             gorm:"uniqueIndex;not null"`
	Title           string        `json:"title"            gorm:"not null"`
	Excerpt         string        `json:"excerpt"          gorm:"type:text"`
	Content         string        `json:"content"          gorm:"type:longtext"`
	CoverImage      string        `json:"cover_image"      gorm:"column:cover_image_url"`
	Author          string        `json:"author"` // display name, not a FK
	Date            time.Time     `json:"date"`
	SkillSlug       string        `json:"skill_slug"       gorm:"index"`
	ArticleRole     string        `json:"article_role"     gorm:"index"`
	KeywordLinks    []KeywordLink `json:"keyword_links"    gorm:"type:longtext;serializer:json"`
	MetaTitle       string        `json:"meta_title"`
	MetaDescription string        `json:"meta_description" gorm:"type:text"`
}

func (ArticleModel) TableName() string { return "articles" }
