// Package skill manages SEO skill guides. A skill overlays a category: the
// books of a skill are the books of its linked category.
package skill

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/response"
	"gorm.io/gorm"
)

var errSlugExists = fmt.Errorf("slug already exists")

type CreateSkillDTO struct {
	Slug          string `json:"slug" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	PillarContent string `json:"pillar_content"`
	CoverImage    string `json:"cover_image"`
	Icon          string `json:"icon"`
	CategoryID    *uint  `json:"category_id"`
}

type UpdateSkillDTO struct {
	Slug          *string `json:"slug"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	PillarContent *string `json:"pillar_content"`
	CoverImage    *string `json:"cover_image"`
	Icon          *string `json:"icon"`
	CategoryID    *uint   `json:"category_id"`
	ClearCategory bool    `json:"clear_category"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List() ([]models.SkillModel, error) {
	var skills []models.SkillModel
	return skills, s.db.Preload("Category").Order("name ASC").Find(&skills).Error
}

func (s *Service) GetByID(id uint) (*models.SkillModel, error) {
	var sk models.SkillModel
	if err := s.db.Preload("Category").First(&sk, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sk, nil
}

// GetByQuery resolves a skill by slug first, then numeric id.
func (s *Service) GetByQuery(query string) (*models.SkillModel, error) {
	var sk models.SkillModel
	err := s.db.Preload("Category").Where("slug = ?", query).First(&sk).Error
	if err == nil {
		return &sk, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if id, perr := strconv.ParseUint(query, 10, 64); perr == nil {
		return s.GetByID(uint(id))
	}
	return nil, nil
}

// BooksOf returns the books of the skill's linked category, or an empty
// slice when no category is linked.
func (s *Service) BooksOf(sk *models.SkillModel) ([]models.BookModel, error) {
	books := []models.BookModel{}
	if sk.CategoryID == nil {
		return books, nil
	}
	err := s.db.Where("category_id = ?", *sk.CategoryID).
		Order("featured DESC, title ASC").Find(&books).Error
	return books, err
}

func (s *Service) Create(dto *CreateSkillDTO) (*models.SkillModel, error) {
	var count int64
	s.db.Model(&models.SkillModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, errSlugExists
	}

	sk := models.SkillModel{
		Slug:          dto.Slug,
		Name:          dto.Name,
		Description:   dto.Description,
		PillarContent: dto.PillarContent,
		CoverImage:    dto.CoverImage,
		Icon:          dto.Icon,
		CategoryID:    dto.CategoryID,
	}
	if err := s.db.Create(&sk).Error; err != nil {
		return nil, err
	}
	return s.GetByID(sk.ID)
}

func (s *Service) Update(id uint, dto *UpdateSkillDTO) (*models.SkillModel, error) {
	sk, err := s.GetByID(id)
	if err != nil || sk == nil {
		return sk, err
	}

	if dto.Slug != nil && *dto.Slug != sk.Slug {
		var count int64
		s.db.Model(&models.SkillModel{}).Where("slug = ? AND id <> ?", *dto.Slug, id).Count(&count)
		if count > 0 {
			return nil, errSlugExists
		}
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil {
		updates["slug"] = *dto.Slug
	}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.PillarContent != nil {
		updates["pillar_content"] = *dto.PillarContent
	}
	if dto.CoverImage != nil {
		updates["cover_image_url"] = *dto.CoverImage
	}
	if dto.Icon != nil {
		updates["icon"] = *dto.Icon
	}
	if dto.ClearCategory {
		updates["category_id"] = nil
	} else if dto.CategoryID != nil {
		updates["category_id"] = *dto.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.SkillModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id uint) error {
	return s.db.Delete(&models.SkillModel{}, id).Error
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	skills := rg.Group("/skills")
	{
		skills.GET("", h.list)
		skills.GET("/:query", h.getByQuery)
		skills.GET("/:query/books", h.booksOf)
		skills.POST("", authMW, h.create)
		skills.PUT("/:query", authMW, h.update)
		skills.PATCH("/:query", authMW, h.update)
		skills.DELETE("/:query", authMW, h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	skills, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, skills)
}

func (h *Handler) getByQuery(c *gin.Context) {
	sk, err := h.svc.GetByQuery(c.Param("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sk == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, sk)
}

func (h *Handler) booksOf(c *gin.Context) {
	sk, err := h.svc.GetByQuery(c.Param("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sk == nil {
		response.NotFound(c)
		return
	}

	books, err := h.svc.BooksOf(sk)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, books)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSkillDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sk, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errSlugExists) {
			response.Conflict(c, "slug already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, sk)
}

func (h *Handler) update(c *gin.Context) {
	sk, err := h.svc.GetByQuery(c.Param("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sk == nil {
		response.NotFound(c)
		return
	}

	var dto UpdateSkillDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.svc.Update(sk.ID, &dto)
	if err != nil {
		if errors.Is(err, errSlugExists) {
			response.Conflict(c, "slug already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, updated)
}

func (h *Handler) delete(c *gin.Context) {
	sk, err := h.svc.GetByQuery(c.Param("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sk == nil {
		response.NotFound(c)
		return
	}
	if err := h.svc.Delete(sk.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
