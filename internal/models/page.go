package models

// PageModel is a static site page (about, contact, faq, ...).
// The slug set is fixed; see page.AllowedSlugs.
type PageModel struct {
	Base
	Slug              string `json:"slug"               gorm:"uniqueIndex;not null"`
	Title             string `json:"title"              gorm:"not null"`
	Content           string `json:"content"            gorm:"type:longtext"`
	StructuredContent []QA   `json:"structured_content" gorm:"type:longtext;serializer:json"`
}

func (PageModel) TableName() string { return "pages" }
