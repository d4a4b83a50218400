// Package message handles contact-form submissions. Submission is public;
// everything else is dashboard-only.
package message

import (
	"errors"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/pagination"
	"github.com/libribooks/core/internal/pkg/response"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Contact submissions are plain text. Any HTML an anonymous visitor
// manages to post is flattened before storage so the inbox never holds
// markup.
var plainText = bluemonday.StrictPolicy()

func flatten(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}

type CreateMessageDTO struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

type ListQuery struct {
	Unread *bool `form:"unread"`
}

// Notifier is called after a new message is stored, e.g. to send a mail
// notification. Wired optionally from the app layer.
type Notifier func(m *models.MessageModel)

type Service struct {
	db     *gorm.DB
	notify Notifier
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SetNotifier installs an optional new-message notifier.
func (s *Service) SetNotifier(fn Notifier) {
	s.notify = fn
}

func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.MessageModel, response.Pagination, error) {
	tx := s.db.Model(&models.MessageModel{}).Order("id DESC")
	if lq.Unread != nil {
		tx = tx.Where("is_read = ?", !*lq.Unread)
	}
	var messages []models.MessageModel
	pag, err := pagination.Paginate(tx, q, &messages)
	return messages, pag, err
}

func (s *Service) GetByID(id uint) (*models.MessageModel, error) {
	var m models.MessageModel
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) Create(dto *CreateMessageDTO) (*models.MessageModel, error) {
	m := models.MessageModel{
		Name:    flatten(dto.Name),
		Email:   strings.TrimSpace(dto.Email),
		Message: flatten(dto.Message),
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}
	if s.notify != nil {
		go s.notify(&m)
	}
	return &m, nil
}

// MarkRead sets a message's read flag.
func (s *Service) MarkRead(id uint, read bool) (*models.MessageModel, error) {
	m, err := s.GetByID(id)
	if err != nil || m == nil {
		return m, err
	}
	if err := s.db.Model(m).Update("is_read", read).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Delete(id uint) error {
	return s.db.Delete(&models.MessageModel{}, id).Error
}

// UnreadCount returns the number of unread messages, for the dashboard badge.
func (s *Service) UnreadCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.MessageModel{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

// PruneRead hard-deletes read messages older than the retention window.
// Run from the scheduler.
func (s *Service) PruneRead(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := s.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.MessageModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		zap.L().Info("pruned read messages", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	rg.POST("/contact", h.create)

	messages := rg.Group("/messages", adminMW)
	{
		messages.GET("", h.list)
		messages.GET("/unread-count", h.unreadCount)
		messages.GET("/:id", h.getByID)
		messages.PATCH("/:id/read", h.markRead)
		messages.PATCH("/:id/unread", h.markUnread)
		messages.DELETE("/:id", h.delete)
	}
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateMessageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, m)
}

func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	messages, pag, err := h.svc.List(pagination.FromContext(c), lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, messages, pag)
}

func (h *Handler) unreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	m, err := h.svc.GetByID(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, m)
}

func (h *Handler) markRead(c *gin.Context)   { h.setRead(c, true) }
func (h *Handler) markUnread(c *gin.Context) { h.setRead(c, false) }

func (h *Handler) setRead(c *gin.Context, read bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	m, err := h.svc.MarkRead(id, read)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, m)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	m, err := h.svc.GetByID(id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if m == nil {
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
