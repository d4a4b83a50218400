package book

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/pagination"
	"github.com/libribooks/core/internal/pkg/response"
)

// Events receives content-change notifications for dashboard clients.
type Events interface {
	BroadcastAdmin(event string, payload interface{})
}

const eventBookUpdated = "BOOK_UPDATED"

// Handler handles book HTTP requests.
type Handler struct {
	svc    *Service
	events Events
}

func NewHandler(svc *Service, events Events) *Handler {
	return &Handler{svc: svc, events: events}
}

// RegisterRoutes mounts book routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	books := rg.Group("/books")

	books.GET("", h.list)
	books.GET("/featured", h.featured)
	books.GET("/:query", h.getByQuery)

	authed := books.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// list GET /books
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	books, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items, err := h.toResponses(books)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// featured GET /books/featured
func (h *Handler) featured(c *gin.Context) {
	books, err := h.svc.Featured()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items, err := h.toResponses(books)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// getByQuery GET /books/:query, slug lookup with numeric id fallback.
func (h *Handler) getByQuery(c *gin.Context) {
	b, err := h.svc.GetByQuery(c.Param("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFound(c)
		return
	}
	resp, err := h.toOneResponse(b)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, resp)
}

// create POST /books
func (h *Handler) create(c *gin.Context) {
	var dto CreateBookDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := h.svc.Create(&dto)
	if err != nil {
		if err == errSlugExists {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	resp, err := h.toOneResponse(b)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.broadcast("create", b.ID)
	response.Created(c, resp)
}

// update PUT/PATCH /books/:id
func (h *Handler) update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}

	var dto UpdateBookDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	b, err := h.svc.Update(id, &dto)
	if err != nil {
		if err == errSlugExists {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFound(c)
		return
	}
	resp, err := h.toOneResponse(b)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.broadcast("update", b.ID)
	response.OK(c, resp)
}

// delete DELETE /books/:id
func (h *Handler) delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	if err := h.svc.Delete(id); err != nil {
		response.InternalError(c, err)
		return
	}
	h.broadcast("delete", id)
	response.NoContent(c)
}

func (h *Handler) broadcast(action string, id uint) {
	if h.events == nil {
		return
	}
	h.events.BroadcastAdmin(eventBookUpdated, gin.H{"action": action, "id": id})
}

func (h *Handler) toOneResponse(b *models.BookModel) (bookResponse, error) {
	authors, err := h.svc.AuthorsOf(b.ID)
	if err != nil {
		return bookResponse{}, err
	}
	tags, err := h.svc.TagsOf(b.ID)
	if err != nil {
		return bookResponse{}, err
	}
	return toResponse(b, authors, tags), nil
}

func (h *Handler) toResponses(books []models.BookModel) ([]bookResponse, error) {
	items := make([]bookResponse, len(books))
	for i := range books {
		resp, err := h.toOneResponse(&books[i])
		if err != nil {
			return nil, err
		}
		items[i] = resp
	}
	return items, nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
