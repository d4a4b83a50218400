// Package aggregate serves the combined home payload so the site front page
// renders from one request.
package aggregate

import (
	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/modules/content/article"
	"github.com/libribooks/core/internal/modules/content/book"
	"github.com/libribooks/core/internal/modules/content/category"
	"github.com/libribooks/core/internal/modules/settings"
	"github.com/libribooks/core/internal/pkg/response"
)

const latestArticleCount = 6

type Service struct {
	books      *book.Service
	articles   *article.Service
	categories *category.Service
	settings   *settings.Service
}

func NewService(books *book.Service, articles *article.Service, categories *category.Service, st *settings.Service) *Service {
	return &Service{
		books:      books,
		articles:   articles,
		categories: categories,
		settings:   st,
	}
}

// Home assembles the front-page payload: featured books, the latest
// articles, all categories and the public settings sections.
func (s *Service) Home() (gin.H, error) {
	featured, err := s.books.Featured()
	if err != nil {
		return nil, err
	}
	latest, err := s.articles.Latest(latestArticleCount)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.List()
	if err != nil {
		return nil, err
	}
	general, err := s.settings.Get(settings.SectionGeneral)
	if err != nil {
		return nil, err
	}
	seo, err := s.settings.Get(settings.SectionSEO)
	if err != nil {
		return nil, err
	}
	appearance, err := s.settings.Get(settings.SectionAppearance)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"featured_books":  featured,
		"latest_articles": latest,
		"categories":      categories,
		"settings": gin.H{
			settings.SectionGeneral:    general,
			settings.SectionSEO:        seo,
			settings.SectionAppearance: appearance,
		},
	}, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/aggregate", h.home)
}

func (h *Handler) home(c *gin.Context) {
	payload, err := h.svc.Home()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, payload)
}
