package models

// PurchaseURLs holds per-format buy links for a book.
type PurchaseURLs struct {
	Paperback string `json:"paperback,omitempty"`
	Ebook     string `json:"ebook,omitempty"`
	Audiobook string `json:"audiobook,omitempty"`
}

// BookModel is a reviewed book.
type BookModel struct {
	Base
	Slug         string         `json:"slug"          gorm:"uniqueIndex;not null"`
	Title        string         `json:"title"         gorm:"not null"`
	CoverImage   string         `json:"cover_image"   gorm:"column:cover_image_url"`
	Review       string         `json:"review"        gorm:"type:longtext"`
	PurchaseURLs PurchaseURLs   `json:"purchase_urls" gorm:"type:longtext;serializer:json"`
	CategoryID   *uint          `json:"category_id"   gorm:"index"`
	Category     *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Quotes       StringSlice    `json:"quotes"        gorm:"type:longtext;serializer:json"`
	Featured     bool           `json:"featured"      gorm:"default:false;index"`
	FAQ          []QA           `json:"faq"           gorm:"type:longtext;serializer:json"`
}

func (BookModel) TableName() string { return "books" }

// BookAuthorModel links books to authors. Position preserves the order the
// authors were submitted in, so reads can return a stable ordered list
// instead of relying on join result order.
type BookAuthorModel struct {
	BookID   uint `json:"book_id"   gorm:"primaryKey;autoIncrement:false"`
	AuthorID uint `json:"author_id" gorm:"primaryKey;autoIncrement:false"`
	Position int  `json:"position"  gorm:"not null;default:0"`
}

func (BookAuthorModel) TableName() string { return "book_authors" }

// BookTagModel links books to tags.
type BookTagModel struct {
	BookID uint `json:"book_id" gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `json:"tag_id"  gorm:"primaryKey;autoIncrement:false"`
}

func (BookTagModel) TableName() string { return "book_tags" }
