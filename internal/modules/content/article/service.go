package article

import (
	"errors"
	"fmt"

	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/pagination"
	"github.com/libribooks/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	errSlugExists  = fmt.Errorf("slug already exists")
	errInvalidRole = fmt.Errorf("invalid article role")
)

// Service handles article business logic. Articles are addressed by slug.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a paginated list of articles, newest first.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.ArticleModel, response.Pagination, error) {
	tx := s.db.Model(&models.ArticleModel{}).Order("date DESC, id DESC")

	if lq.Role != nil {
		tx = tx.Where("article_role = ?", *lq.Role)
	}
	if lq.Skill != nil {
		tx = tx.Where("skill_slug = ?", *lq.Skill)
	}

	var articles []models.ArticleModel
	pag, err := pagination.Paginate(tx, q, &articles)
	return articles, pag, err
}

// Latest returns the n most recent articles.
func (s *Service) Latest(n int) ([]models.ArticleModel, error) {
	var articles []models.ArticleModel
	return articles, s.db.Order("date DESC, id DESC").Limit(n).Find(&articles).Error
}

// GetBySlug fetches a single article by slug.
func (s *Service) GetBySlug(slug string) (*models.ArticleModel, error) {
	var a models.ArticleModel
	if err := s.db.Where("slug = ?", slug).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new article.
func (s *Service) Create(dto *CreateArticleDTO) (*models.ArticleModel, error) {
	if !validRole(dto.ArticleRole) {
		return nil, errInvalidRole
	}

	var count int64
	s.db.Model(&models.ArticleModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, errSlugExists
	}

	date, err := parseDate(dto.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	a := models.ArticleModel{
		Slug:            dto.Slug,
		Title:           dto.Title,
		Excerpt:         dto.Excerpt,
		Content:         dto.Content,
		CoverImage:      dto.CoverImage,
		Author:          dto.Author,
		Date:            date,
		SkillSlug:       dto.SkillSlug,
		ArticleRole:     dto.ArticleRole,
		KeywordLinks:    dto.KeywordLinks,
		MetaTitle:       dto.MetaTitle,
		MetaDescription: dto.MetaDescription,
	}
	return &a, s.db.Create(&a).Error
}

// Update patches an article by its current slug.
func (s *Service) Update(slug string, dto *UpdateArticleDTO) (*models.ArticleModel, error) {
	a, err := s.GetBySlug(slug)
	if err != nil || a == nil {
		return a, err
	}

	if dto.ArticleRole != nil && !validRole(*dto.ArticleRole) {
		return nil, errInvalidRole
	}
	if dto.Slug != nil && *dto.Slug != a.Slug {
		var count int64
		s.db.Model(&models.ArticleModel{}).Where("slug = ?", *dto.Slug).Count(&count)
		if count > 0 {
			return nil, errSlugExists
		}
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil {
		updates["slug"] = *dto.Slug
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Excerpt != nil {
		updates["excerpt"] = *dto.Excerpt
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.CoverImage != nil {
		updates["cover_image_url"] = *dto.CoverImage
	}
	if dto.Author != nil {
		updates["author"] = *dto.Author
	}
	if dto.Date != nil {
		date, err := parseDate(*dto.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		updates["date"] = date
	}
	if dto.SkillSlug != nil {
		updates["skill_slug"] = *dto.SkillSlug
	}
	if dto.ArticleRole != nil {
		updates["article_role"] = *dto.ArticleRole
	}
	if dto.KeywordLinks != nil {
		updates["keyword_links"] = dto.KeywordLinks
	}
	if dto.MetaTitle != nil {
		updates["meta_title"] = *dto.MetaTitle
	}
	if dto.MetaDescription != nil {
		updates["meta_description"] = *dto.MetaDescription
	}

	if err := s.db.Model(a).Updates(updates).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an article by slug.
func (s *Service) Delete(slug string) error {
	return s.db.Where("slug = ?", slug).Delete(&models.ArticleModel{}).Error
}
