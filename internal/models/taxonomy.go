package models

// CategoryModel groups books. Every book has at most one category.
type CategoryModel struct {
	Base
	Name          string `json:"name"           gorm:"uniqueIndex;not null"`
	Slug          string `json:"slug"           gorm:"uniqueIndex;not null"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	PillarContent string `json:"pillar_content" gorm:"type:longtext"`
	CoverImage    string `json:"cover_image"    gorm:"column:cover_image_url"`

	Books []BookModel `json:"books,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }

// TagModel is a flat book tag.
type TagModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (TagModel) TableName() string { return "tags" }

// SkillModel is an SEO-oriented guide overlay on a category. The category
// relation is a real foreign key rather than a name match, so renaming a
// category cannot silently detach its skill guide.
type SkillModel struct {
	Base
	Slug          string         `json:"slug"           gorm:"uniqueIndex;not null"`
	Name          string         `json:"name"           gorm:"not null"`
	Description   string         `json:"description"`
	PillarContent string         `json:"pillar_content" gorm:"type:longtext"`
	CoverImage    string         `json:"cover_image"    gorm:"column:cover_image_url"`
	Icon          string         `json:"icon"`
	CategoryID    *uint          `json:"category_id"    gorm:"index"`
	Category      *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (SkillModel) TableName() string { return "skills" }
