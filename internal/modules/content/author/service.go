package author

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/pagination"
	"github.com/libribooks/core/internal/pkg/response"
	"github.com/libribooks/core/internal/pkg/slugify"
	"gorm.io/gorm"
)

const (
	placeholderBio  = "Biography coming soon."
	stockImageCount = 12
)

var errSlugExists = fmt.Errorf("slug already exists")

// CreateAuthorDTO is the request body for creating an author.
type CreateAuthorDTO struct {
	Name  string `json:"name" binding:"required"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
	Bio   string `json:"bio"`
}

// UpdateAuthorDTO is the request body for updating an author.
type UpdateAuthorDTO struct {
	Name  *string `json:"name"`
	Slug  *string `json:"slug"`
	Image *string `json:"image"`
	Bio   *string `json:"bio"`
}

// Service handles author business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a paginated list of authors.
func (s *Service) List(q pagination.Query) ([]models.AuthorModel, response.Pagination, error) {
	tx := s.db.Model(&models.AuthorModel{}).Order("name ASC")
	var authors []models.AuthorModel
	pag, err := pagination.Paginate(tx, q, &authors)
	return authors, pag, err
}

// All returns every author, for dashboard pickers.
func (s *Service) All() ([]models.AuthorModel, error) {
	var authors []models.AuthorModel
	return authors, s.db.Order("name ASC").Find(&authors).Error
}

// GetByID fetches a single author by id.
func (s *Service) GetByID(id uint) (*models.AuthorModel, error) {
	var a models.AuthorModel
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// GetByQuery fetches an author by slug, falling back to a numeric id.
func (s *Service) GetByQuery(query string) (*models.AuthorModel, error) {
	var a models.AuthorModel
	err := s.db.Where("slug = ?", query).First(&a).Error
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, perr := strconv.ParseUint(query, 10, 32)
	if perr != nil {
		return nil, nil
	}
	return s.GetByID(uint(id))
}

// Create inserts a new author. A missing slug is derived from the name and
// made unique.
func (s *Service) Create(dto *CreateAuthorDTO) (*models.AuthorModel, error) {
	slug := strings.TrimSpace(dto.Slug)
	if slug == "" {
		slug = s.uniqueSlug(slugify.Make(dto.Name))
	} else {
		var count int64
		s.db.Model(&models.AuthorModel{}).Where("slug = ?", slug).Count(&count)
		if count > 0 {
			return nil, errSlugExists
		}
	}

	a := models.AuthorModel{
		Name:  strings.TrimSpace(dto.Name),
		Slug:  slug,
		Image: dto.Image,
		Bio:   dto.Bio,
	}
	return &a, s.db.Create(&a).Error
}

// Update patches an author by id.
func (s *Service) Update(id uint, dto *UpdateAuthorDTO) (*models.AuthorModel, error) {
	a, err := s.GetByID(id)
	if err != nil || a == nil {
		return a, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Slug != nil {
		updates["slug"] = *dto.Slug
	}
	if dto.Image != nil {
		updates["image_url"] = *dto.Image
	}
	if dto.Bio != nil {
		updates["bio"] = *dto.Bio
	}
	return a, s.db.Model(a).Updates(updates).Error
}

// Delete removes an author and its book links.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&models.BookAuthorModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AuthorModel{}, "id = ?", id).Error
	})
}

// Resolve maps free-text author names to ids in input order. Names are
// matched case-insensitively against existing authors; misses are created
// with a placeholder bio and a randomized stock portrait. Submitting the
// same name twice never creates a duplicate row.
func (s *Service) Resolve(names []string) ([]uint, error) {
	existing, err := s.All()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]uint, len(existing))
	for _, a := range existing {
		byName[strings.ToLower(strings.TrimSpace(a.Name))] = a.ID
	}

	var ids []uint
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if id, ok := byName[key]; ok {
			ids = append(ids, id)
			continue
		}

		a := models.AuthorModel{
			Name:  name,
			Slug:  s.uniqueSlug(slugify.Make(name)),
			Image: stockImageURL(),
			Bio:   placeholderBio,
		}
		if err := s.db.Create(&a).Error; err != nil {
			return nil, err
		}
		byName[key] = a.ID
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// BackfillSlugs generates slugs for author rows that have none. Returns the
// number of rows updated.
func (s *Service) BackfillSlugs() (int, error) {
	var authors []models.AuthorModel
	if err := s.db.Where("slug IS NULL OR slug = ''").Find(&authors).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, a := range authors {
		slug := s.uniqueSlug(slugify.Make(a.Name))
		if err := s.db.Model(&models.AuthorModel{}).Where("id = ?", a.ID).Update("slug", slug).Error; err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func (s *Service) uniqueSlug(base string) string {
	return slugify.Unique(base, func(candidate string) bool {
		var count int64
		s.db.Model(&models.AuthorModel{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})
}

func stockImageURL() string {
	return fmt.Sprintf("https://images.libribooks.com/authors/stock-%02d.jpg", rand.IntN(stockImageCount)+1)
}
