package book

import (
	"time"

	"github.com/libribooks/core/internal/models"
)

// CreateBookDTO is the request body for creating a book. Authors may be
// supplied as ids, as free-text names (dashboard form), or both; names are
// resolved (and auto-created) before the ids, and the combined order is
// preserved.
type CreateBookDTO struct {
	Slug         string               `json:"slug"         binding:"required"`
	Title        string               `json:"title"        binding:"required"`
	CoverImage   string               `json:"coverImage"`
	Review       string               `json:"review"`
	PurchaseURLs *models.PurchaseURLs `json:"purchaseUrls"`
	CategoryID   *uint                `json:"categoryId"`
	AuthorIDs    []uint               `json:"authorIds"`
	AuthorNames  []string             `json:"authorNames"`
	Tags         []string             `json:"tags"`
	Quotes       []string             `json:"quotes"`
	Featured     *bool                `json:"featured"`
	FAQ          []models.QA          `json:"faq"`
}

// UpdateBookDTO is the request body for updating a book (all fields optional).
// Nil slices leave the corresponding relation untouched; non-nil slices
// replace it wholesale.
type UpdateBookDTO struct {
	Slug         *string              `json:"slug"`
	Title        *string              `json:"title"`
	CoverImage   *string              `json:"coverImage"`
	Review       *string              `json:"review"`
	PurchaseURLs *models.PurchaseURLs `json:"purchaseUrls"`
	CategoryID   *uint                `json:"categoryId"`
	AuthorIDs    []uint               `json:"authorIds"`
	AuthorNames  []string             `json:"authorNames"`
	Tags         []string             `json:"tags"`
	Quotes       []string             `json:"quotes"`
	Featured     *bool                `json:"featured"`
	FAQ          []models.QA          `json:"faq"`
}

// ListQuery holds query params for listing books.
type ListQuery struct {
	Category *string `form:"category"`
	Tag      *string `form:"tag"`
	Featured *bool   `form:"featured"`
}

// AuthorRef is an ordered author reference on a book. Keeping id and name
// in one element avoids the parallel-array index correlation the old
// storage shape relied on.
type AuthorRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// bookResponse is the API response shape for a book.
type bookResponse struct {
	ID           uint                `json:"id"`
	Slug         string              `json:"slug"`
	Title        string              `json:"title"`
	CoverImage   string              `json:"coverImage"`
	Review       string              `json:"review"`
	PurchaseURLs models.PurchaseURLs `json:"purchaseUrls"`
	CategoryID   *uint               `json:"categoryId"`
	Category     string              `json:"category"`
	Authors      []AuthorRef         `json:"authors"`
	Tags         []string            `json:"tags"`
	Quotes       []string            `json:"quotes"`
	Featured     bool                `json:"featured"`
	FAQ          []models.QA         `json:"faq"`
	Created      time.Time           `json:"created"`
	Modified     time.Time           `json:"modified"`
}

func toResponse(b *models.BookModel, authors []AuthorRef, tags []string) bookResponse {
	if authors == nil {
		authors = []AuthorRef{}
	}
	if tags == nil {
		tags = []string{}
	}
	quotes := []string(b.Quotes)
	if quotes == nil {
		quotes = []string{}
	}
	faq := b.FAQ
	if faq == nil {
		faq = []models.QA{}
	}
	categoryName := ""
	if b.Category != nil {
		categoryName = b.Category.Name
	}
	return bookResponse{
		ID:           b.ID,
		Slug:         b.Slug,
		Title:        b.Title,
		CoverImage:   b.CoverImage,
		Review:       b.Review,
		PurchaseURLs: b.PurchaseURLs,
		CategoryID:   b.CategoryID,
		Category:     categoryName,
		Authors:      authors,
		Tags:         tags,
		Quotes:       quotes,
		Featured:     b.Featured,
		FAQ:          faq,
		Created:      b.CreatedAt,
		Modified:     b.UpdatedAt,
	}
}
