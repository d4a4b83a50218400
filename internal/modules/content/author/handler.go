package author

import (
	"strconv"

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

// RegisterRoutes mounts author routes. adminMW additionally restricts the
// slug backfill to admins.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	authors := rg.Group("/authors")
	authors.GET("", h.list)
	authors.GET("/:query", h.getByQuery)

	authed := authors.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
	authed.POST("/backfill-slugs", adminMW, h.backfillSlugs)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	authors, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, authors, pag)
}

func (h *Handler) getByQuery(c *gin.Context) {
	a, err := h.svc.GetByQuery(c.Param("query"))
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
	var dto CreateAuthorDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Create(&dto)
	if err != nil {
		if err == errSlugExists {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, a)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	var dto UpdateAuthorDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := h.svc.Update(uint(id), &dto)
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

// backfillSlugs POST /authors/backfill-slugs, one-off repair for author
// rows created before slugs existed.
func (h *Handler) backfillSlugs(c *gin.Context) {
	updated, err := h.svc.BackfillSlugs()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"updated": updated})
}
