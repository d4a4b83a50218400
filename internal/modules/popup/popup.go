// Package popup manages dashboard-controlled popup ads. Popup content is
// stored as authored, but the public endpoint strips script content before
// serving it.
package popup

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/response"
	"gorm.io/gorm"
)

// scriptTags matches paired and self-closing script elements along with
// their enclosed source.
var scriptTags = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>|<script\b[^>]*/?>`)

// stripScripts removes script elements and leaves all other markup as
// authored. Popup content is dashboard-authored ad HTML, so styling,
// links and embeds must survive the round trip.
func stripScripts(html string) string {
	return scriptTags.ReplaceAllString(html, "")
}

type CreatePopupDTO struct {
	Name            string `json:"name" binding:"required"`
	Content         string `json:"content"`
	DisplayDelay    int    `json:"display_delay"`
	DisplayDuration int    `json:"display_duration"`
	IsActive        bool   `json:"is_active"`
}

type UpdatePopupDTO struct {
	Name            *string `json:"name"`
	Content         *string `json:"content"`
	DisplayDelay    *int    `json:"display_delay"`
	DisplayDuration *int    `json:"display_duration"`
	IsActive        *bool   `json:"is_active"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List() ([]models.PopupAdModel, error) {
	var popups []models.PopupAdModel
	return popups, s.db.Order("id DESC").Find(&popups).Error
}

func (s *Service) GetByID(id uint) (*models.PopupAdModel, error) {
	var p models.PopupAdModel
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Active returns the single active popup with script tags stripped from
// its content, or (nil, nil) when no popup is active.
func (s *Service) Active() (*models.PopupAdModel, error) {
	var p models.PopupAdModel
	if err := s.db.Where("is_active = ?", true).Order("id DESC").First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	p.Content = stripScripts(p.Content)
	return &p, nil
}

func (s *Service) Create(dto *CreatePopupDTO) (*models.PopupAdModel, error) {
	p := models.PopupAdModel{
		Name:            dto.Name,
		Content:         dto.Content,
		DisplayDelay:    dto.DisplayDelay,
		DisplayDuration: dto.DisplayDuration,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if dto.IsActive {
			return activate(tx, p.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(p.ID)
}

func (s *Service) Update(id uint, dto *UpdatePopupDTO) (*models.PopupAdModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.DisplayDelay != nil {
		updates["display_delay"] = *dto.DisplayDelay
	}
	if dto.DisplayDuration != nil {
		updates["display_duration"] = *dto.DisplayDuration
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.PopupAdModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if dto.IsActive != nil {
			if *dto.IsActive {
				return activate(tx, id)
			}
			return tx.Model(&models.PopupAdModel{}).Where("id = ?", id).
				Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Activate makes the given popup the single active one.
func (s *Service) Activate(id uint) (*models.PopupAdModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return activate(tx, id)
	}); err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id uint) error {
	return s.db.Delete(&models.PopupAdModel{}, id).Error
}

// activate flips the given popup active and every other popup inactive
// inside the caller's transaction.
func activate(tx *gorm.DB, id uint) error {
	if err := tx.Model(&models.PopupAdModel{}).Where("id <> ?", id).
		Update("is_active", false).Error; err != nil {
		return err
	}
	return tx.Model(&models.PopupAdModel{}).Where("id = ?", id).
		Update("is_active", true).Error
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	popups := rg.Group("/popups")
	{
		popups.GET("/active", h.active)
		popups.GET("", adminMW, h.list)
		popups.GET("/:id", adminMW, h.getByID)
		popups.POST("", adminMW, h.create)
		popups.PUT("/:id", adminMW, h.update)
		popups.PATCH("/:id", adminMW, h.update)
		popups.POST("/:id/activate", adminMW, h.activate)
		popups.DELETE("/:id", adminMW, h.delete)
	}
}

func (h *Handler) active(c *gin.Context) {
	p, err := h.svc.Active()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "no active popup")
		return
	}
	response.OK(c, p)
}

func (h *Handler) list(c *gin.Context) {
	popups, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, popups)
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	p, err := h.svc.GetByID(id)
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

func (h *Handler) create(c *gin.Context) {
	var dto CreatePopupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	var dto UpdatePopupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(id, &dto)
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

func (h *Handler) activate(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	p, err := h.svc.Activate(id)
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

func (h *Handler) delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	p, err := h.svc.GetByID(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFound(c)
		return
	}
	if err := h.svc.Delete(id); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
