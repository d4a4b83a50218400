package article

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/pkg/pagination"
	"github.com/libribooks/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	articles := rg.Group("/articles")
	{
		articles.GET("", h.list)
		articles.GET("/:slug", h.getBySlug)
		articles.POST("", authMW, h.create)
		articles.PUT("/:slug", authMW, h.update)
		articles.PATCH("/:slug", authMW, h.update)
		articles.DELETE("/:slug", authMW, h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	articles, pag, err := h.svc.List(pagination.FromContext(c), lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, articles, pag)
}

func (h *Handler) getBySlug(c *gin.Context) {
	a, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, a)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.svc.Create(&dto)
	if err != nil {
		switch {
		case errors.Is(err, errSlugExists):
			response.Conflict(c, "slug already exists")
		case errors.Is(err, errInvalidRole):
			response.UnprocessableEntity(c, "invalid article role")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, a)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.svc.Update(c.Param("slug"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errSlugExists):
			response.Conflict(c, "slug already exists")
		case errors.Is(err, errInvalidRole):
			response.UnprocessableEntity(c, "invalid article role")
		default:
			response.InternalError(c, err)
		}
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, a)
}

func (h *Handler) delete(c *gin.Context) {
	a, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	if err := h.svc.Delete(a.Slug); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
