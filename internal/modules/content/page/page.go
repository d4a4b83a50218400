// Package page manages the fixed set of static site pages. Pages cannot be
// created or deleted through the API; only their content changes.
package page

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/response"
	"gorm.io/gorm"
)

// AllowedSlugs is the closed set of page slugs the site serves.
var AllowedSlugs = []string{
	"about",
	"contact",
	"faq",
	"terms",
	"privacy-policy",
	"cookie-policy",
}

var errUnknownSlug = fmt.Errorf("unknown page slug")

func slugAllowed(slug string) bool {
	for _, s := range AllowedSlugs {
		if s == slug {
			return true
		}
	}
	return false
}

type UpdatePageDTO struct {
	Title             *string     `json:"title"`
	Content           *string     `json:"content"`
	StructuredContent []models.QA `json:"structured_content"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns all pages ordered by slug.
func (s *Service) List() ([]models.PageModel, error) {
	var pages []models.PageModel
	return pages, s.db.Order("slug ASC").Find(&pages).Error
}

// GetBySlug fetches a page. Returns (nil, nil) when the page row does not
// exist yet, even for an allowed slug.
func (s *Service) GetBySlug(slug string) (*models.PageModel, error) {
	var p models.PageModel
	if err := s.db.Where("slug = ?", slug).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Update patches a page, creating the row on first write for an allowed slug.
func (s *Service) Update(slug string, dto *UpdatePageDTO) (*models.PageModel, error) {
	if !slugAllowed(slug) {
		return nil, errUnknownSlug
	}

	p, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &models.PageModel{Slug: slug, Title: slug}
		if err := s.db.Create(p).Error; err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.StructuredContent != nil {
		updates["structured_content"] = dto.StructuredContent
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := s.db.Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Seed inserts empty rows for allowed slugs that are missing. Called on
// startup so the dashboard always lists the full page set.
func (s *Service) Seed() error {
	for _, slug := range AllowedSlugs {
		existing, err := s.GetBySlug(slug)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.db.Create(&models.PageModel{Slug: slug, Title: slug}).Error; err != nil {
			return err
		}
	}
	return nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	pages := rg.Group("/pages")
	{
		pages.GET("", h.list)
		pages.GET("/:slug", h.getBySlug)
		pages.PUT("/:slug", adminMW, h.update)
		pages.PATCH("/:slug", adminMW, h.update)
	}
}

func (h *Handler) list(c *gin.Context) {
	pages, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, pages)
}

func (h *Handler) getBySlug(c *gin.Context) {
	p, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, p)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Update(c.Param("slug"), &dto)
	if err != nil {
		if errors.Is(err, errUnknownSlug) {
			response.NotFoundMsg(c, "unknown page slug")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, p)
}
