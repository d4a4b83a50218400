// Package markdown renders review and article drafts to HTML so the
// dashboard can preview exactly what the site will serve.
package markdown

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/pkg/response"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// Render converts markdown text to HTML.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type renderDTO struct {
	Text string `json:"text" binding:"required"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/markdown/render", authMW, h.render)
}

func (h *Handler) render(c *gin.Context) {
	var dto renderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	html, err := Render(dto.Text)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"html": html})
}
