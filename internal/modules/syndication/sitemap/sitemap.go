// Package sitemap renders the XML sitemap from live content.
package sitemap

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/modules/settings"
	"gorm.io/gorm"
)

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Service struct {
	db       *gorm.DB
	settings *settings.Service
}

func NewService(db *gorm.DB, st *settings.Service) *Service {
	return &Service{db: db, settings: st}
}

// Generate builds the sitemap from books, articles, authors, skills,
// categories and the static pages.
func (s *Service) Generate() ([]byte, error) {
	base, err := s.settings.SiteURL()
	if err != nil {
		return nil, err
	}
	base = strings.TrimRight(base, "/")

	set := urlSet{Xmlns: xmlns}
	add := func(path string, mod time.Time, freq, priority string) {
		entry := urlEntry{Loc: base + path, ChangeFreq: freq, Priority: priority}
		if !mod.IsZero() {
			entry.LastMod = mod.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, entry)
	}

	add("/", time.Now(), "daily", "1.0")

	var books []models.BookModel
	if err := s.db.Order("id ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	for _, b := range books {
		add("/books/"+b.Slug, b.UpdatedAt, "weekly", "0.8")
	}

	var articles []models.ArticleModel
	if err := s.db.Order("id ASC").Find(&articles).Error; err != nil {
		return nil, err
	}
	for _, a := range articles {
		add("/articles/"+a.Slug, a.UpdatedAt, "weekly", "0.7")
	}

	var authors []models.AuthorModel
	if err := s.db.Order("id ASC").Find(&authors).Error; err != nil {
		return nil, err
	}
	for _, a := range authors {
		if a.Slug == "" {
			continue
		}
		add("/authors/"+a.Slug, a.UpdatedAt, "monthly", "0.5")
	}

	var skills []models.SkillModel
	if err := s.db.Order("id ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	for _, sk := range skills {
		add("/skills/"+sk.Slug, sk.UpdatedAt, "weekly", "0.6")
	}

	var categories []models.CategoryModel
	if err := s.db.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	for _, cat := range categories {
		add("/categories/"+cat.Slug, cat.UpdatedAt, "weekly", "0.6")
	}

	var pages []models.PageModel
	if err := s.db.Order("id ASC").Find(&pages).Error; err != nil {
		return nil, err
	}
	for _, p := range pages {
		add("/"+p.Slug, p.UpdatedAt, "monthly", "0.3")
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the sitemap on the engine root rather than the API
// group, so crawlers find it at the conventional path.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/sitemap.xml", h.serve)
}

func (h *Handler) serve(c *gin.Context) {
	out, err := h.svc.Generate()
	if err != nil {
		c.String(http.StatusInternalServerError, "sitemap generation failed")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", out)
}
