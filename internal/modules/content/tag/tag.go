package tag

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/response"
	"gorm.io/gorm"
)

type CreateTagDTO struct {
	Name string `json:"name" binding:"required"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List() ([]models.TagModel, error) {
	var tags []models.TagModel
	return tags, s.db.Order("name ASC").Find(&tags).Error
}

func (s *Service) GetByID(id uint) (*models.TagModel, error) {
	var t models.TagModel
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *Service) Create(name string) (*models.TagModel, error) {
	var count int64
	s.db.Model(&models.TagModel{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("tag already exists")
	}
	t := models.TagModel{Name: name}
	return &t, s.db.Create(&t).Error
}

// Delete removes a tag and its book links.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.BookTagModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TagModel{}, "id = ?", id).Error
	})
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	tags := rg.Group("/tags")
	tags.GET("", h.list)

	authed := tags.Group("", authMW)
	authed.POST("", h.create)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	tags, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, tags)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateTagDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.Create(dto.Name)
	if err != nil {
		if err.Error() == "tag already exists" {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, t)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	if err := h.svc.Delete(uint(id)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
