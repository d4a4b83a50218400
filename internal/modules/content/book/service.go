package book

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/pagination"
	"github.com/libribooks/core/internal/pkg/response"
	"gorm.io/gorm"
)

var errSlugExists = fmt.Errorf("slug already exists")

// AuthorResolver maps free-text author names to author ids, creating
// authors for names that do not exist yet.
type AuthorResolver func(names []string) ([]uint, error)

// Service handles book business logic, including the many-to-many
// relationship writes for authors and tags.
type Service struct {
	db             *gorm.DB
	resolveAuthors AuthorResolver
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SetAuthorResolver wires the author-on-the-fly resolution used by the
// dashboard book form (optional).
func (s *Service) SetAuthorResolver(fn AuthorResolver) { s.resolveAuthors = fn }

// List returns a paginated list of books.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.BookModel, response.Pagination, error) {
	tx := s.db.Model(&models.BookModel{}).
		Preload("Category").
		Order("books.created_at DESC")

	if lq.Category != nil {
		tx = tx.Joins("JOIN categories ON categories.id = books.category_id").
			Where("categories.slug = ?", *lq.Category)
	}
	if lq.Tag != nil {
		tx = tx.Joins("JOIN book_tags ON book_tags.book_id = books.id").
			Joins("JOIN tags ON tags.id = book_tags.tag_id").
			Where("tags.name = ?", *lq.Tag)
	}
	if lq.Featured != nil {
		tx = tx.Where("books.featured = ?", *lq.Featured)
	}

	var books []models.BookModel
	pag, err := pagination.Paginate(tx, q, &books)
	return books, pag, err
}

// Featured returns all featured books, newest first.
func (s *Service) Featured() ([]models.BookModel, error) {
	var books []models.BookModel
	err := s.db.Preload("Category").
		Where("featured = ?", true).
		Order("created_at DESC").
		Find(&books).Error
	return books, err
}

// GetByID fetches a single book by id.
func (s *Service) GetByID(id uint) (*models.BookModel, error) {
	var b models.BookModel
	if err := s.db.Preload("Category").First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// GetBySlug fetches a single book by slug.
func (s *Service) GetBySlug(slug string) (*models.BookModel, error) {
	var b models.BookModel
	if err := s.db.Preload("Category").Where("slug = ?", slug).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// GetByQuery fetches a book by slug, falling back to a numeric id lookup
// when the query parses as a number. The fallback keeps links to records
// created before slugs existed working.
func (s *Service) GetByQuery(query string) (*models.BookModel, error) {
	if b, err := s.GetBySlug(query); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}

	id, err := strconv.ParseUint(query, 10, 32)
	if err != nil {
		return nil, nil
	}
	return s.GetByID(uint(id))
}

// Create inserts a book and its relationship rows in one transaction.
func (s *Service) Create(dto *CreateBookDTO) (*models.BookModel, error) {
	var count int64
	s.db.Model(&models.BookModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, errSlugExists
	}

	authorIDs, err := s.combineAuthorIDs(dto.AuthorNames, dto.AuthorIDs)
	if err != nil {
		return nil, err
	}

	b := models.BookModel{
		Slug:       dto.Slug,
		Title:      dto.Title,
		CoverImage: dto.CoverImage,
		Review:     dto.Review,
		CategoryID: dto.CategoryID,
		Quotes:     dto.Quotes,
		FAQ:        dto.FAQ,
	}
	if dto.PurchaseURLs != nil {
		b.PurchaseURLs = *dto.PurchaseURLs
	}
	if dto.Featured != nil {
		b.Featured = *dto.Featured
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		if len(authorIDs) > 0 {
			if err := replaceAuthors(tx, b.ID, authorIDs); err != nil {
				return err
			}
		}
		if len(dto.Tags) > 0 {
			if err := replaceTags(tx, b.ID, dto.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(b.ID)
}

// Update patches a book by id. Supplied author/tag sets replace the
// existing relation rows wholesale; the delete+reinsert pair runs inside a
// transaction so there is no window where the book has lost its authors.
func (s *Service) Update(id uint, dto *UpdateBookDTO) (*models.BookModel, error) {
	b, err := s.GetByID(id)
	if err != nil || b == nil {
		return b, err
	}

	if dto.Slug != nil && *dto.Slug != b.Slug {
		var count int64
		s.db.Model(&models.BookModel{}).Where("slug = ? AND id <> ?", *dto.Slug, id).Count(&count)
		if count > 0 {
			return nil, errSlugExists
		}
	}

	authorIDs, err := s.combineAuthorIDs(dto.AuthorNames, dto.AuthorIDs)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil {
		updates["slug"] = *dto.Slug
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.CoverImage != nil {
		updates["cover_image_url"] = *dto.CoverImage
	}
	if dto.Review != nil {
		updates["review"] = *dto.Review
	}
	if dto.PurchaseURLs != nil {
		updates["purchase_urls"] = *dto.PurchaseURLs
	}
	if dto.CategoryID != nil {
		updates["category_id"] = *dto.CategoryID
	}
	if dto.Quotes != nil {
		updates["quotes"] = models.StringSlice(dto.Quotes)
	}
	if dto.Featured != nil {
		updates["featured"] = *dto.Featured
	}
	if dto.FAQ != nil {
		updates["faq"] = dto.FAQ
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.BookModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if dto.AuthorIDs != nil || dto.AuthorNames != nil {
			if err := replaceAuthors(tx, id, authorIDs); err != nil {
				return err
			}
		}
		if dto.Tags != nil {
			if err := replaceTags(tx, id, dto.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a book and its relationship rows.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&models.BookAuthorModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookTagModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BookModel{}, "id = ?", id).Error
	})
}

// combineAuthorIDs resolves free-text names (auto-creating unknown authors)
// and appends explicit ids, preserving input order.
func (s *Service) combineAuthorIDs(names []string, ids []uint) ([]uint, error) {
	var combined []uint
	if len(names) > 0 {
		if s.resolveAuthors == nil {
			return nil, errors.New("author names given but no resolver configured")
		}
		resolved, err := s.resolveAuthors(names)
		if err != nil {
			return nil, err
		}
		combined = append(combined, resolved...)
	}
	combined = append(combined, ids...)
	return combined, nil
}
