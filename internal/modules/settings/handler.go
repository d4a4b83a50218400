package settings

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the settings endpoints. Reads are public (the site
// needs general/seo/appearance to render); writes are admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	st := rg.Group("/settings")
	{
		st.GET("", h.getAll)
		st.GET("/:section", h.get)
		st.PUT("/:section", adminMW, h.update)
		st.PATCH("/:section", adminMW, h.update)
	}
}

func (h *Handler) getAll(c *gin.Context) {
	all, err := h.svc.GetAll()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, all)
}

func (h *Handler) get(c *gin.Context) {
	section, err := h.svc.Get(c.Param("section"))
	if err != nil {
		if errors.Is(err, errUnknownSection) {
			response.NotFoundMsg(c, "unknown settings section")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, section)
}

func (h *Handler) update(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	merged, err := h.svc.Update(c.Param("section"), patch)
	if err != nil {
		if errors.Is(err, errUnknownSection) {
			response.NotFoundMsg(c, "unknown settings section")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, merged)
}
