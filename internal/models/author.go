package models

// AuthorModel is a book author.
type AuthorModel struct {
	Base
	Slug  string `json:"slug"  gorm:"uniqueIndex"`
	Name  string `json:"name"  gorm:"not null;index"`
	Image string `json:"image" gorm:"column:image_url"`
	Bio   string `json:"bio"   gorm:"type:longtext"`
}

func (AuthorModel) TableName() string { return "authors" }
