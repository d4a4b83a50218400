package app

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/libribooks/core/internal/middleware"
	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/modules/aggregate"
	"github.com/libribooks/core/internal/modules/auth/user"
	"github.com/libribooks/core/internal/modules/content/article"
	"github.com/libribooks/core/internal/modules/content/author"
	"github.com/libribooks/core/internal/modules/content/book"
	"github.com/libribooks/core/internal/modules/content/category"
	"github.com/libribooks/core/internal/modules/content/page"
	"github.com/libribooks/core/internal/modules/content/skill"
	"github.com/libribooks/core/internal/modules/content/tag"
	"github.com/libribooks/core/internal/modules/gateway"
	"github.com/libribooks/core/internal/modules/markdown"
	"github.com/libribooks/core/internal/modules/message"
	"github.com/libribooks/core/internal/modules/popup"
	"github.com/libribooks/core/internal/modules/settings"
	"github.com/libribooks/core/internal/modules/syndication/sitemap"
	pkgmail "github.com/libribooks/core/internal/pkg/mail"
	pkgredis "github.com/libribooks/core/internal/pkg/redis"
	"github.com/libribooks/core/internal/pkg/response"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)
	adminMW := middleware.RequireAdmin(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "libribooks-core",
		"version":  "1.0.0",
		"homepage": "https://libribooks.com",
	}

	// Token resolution must run before the rate limiter so authenticated
	// traffic is exempt from it. Rate limiting and idempotence run on every
	// route (requires Redis).
	r.Use(middleware.OptionalAuth(db))
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	// Shared services
	settingsSvc := settings.NewService(db)
	bookSvc := book.NewService(db)
	authorSvc := author.NewService(db)
	categorySvc := category.NewService(db)
	tagSvc := tag.NewService(db)
	articleSvc := article.NewService(db)
	pageSvc := page.NewService(db)
	skillSvc := skill.NewService(db)
	popupSvc := popup.NewService(db)
	messageSvc := message.NewService(db)
	userSvc := user.NewService(db)
	aggregateSvc := aggregate.NewService(bookSvc, articleSvc, categorySvc, settingsSvc)
	sitemapSvc := sitemap.NewService(db, settingsSvc)

	bookSvc.SetAuthorResolver(authorSvc.Resolve)
	messageSvc.SetNotifier(newMessageNotifier(settingsSvc, a.hub, a.logger))

	if err := pageSvc.Seed(); err != nil {
		a.logger.Warn("page seed failed", zap.Error(err))
	}
	if err := userSvc.EnsureSeedAdmin(os.Getenv("LB_ADMIN_EMAIL"), os.Getenv("LB_ADMIN_PASSWORD")); err != nil {
		a.logger.Warn("admin seed failed", zap.Error(err))
	}

	// Root-level endpoints
	root := r.Group("")
	sitemap.NewHandler(sitemapSvc).RegisterRoutes(root)

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   a.cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(),
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	api.POST("/clean_cache", adminMW, func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
	})

	// Auth & users
	user.NewHandler(userSvc).RegisterRoutes(api, authMW, adminMW)

	// Content
	book.NewHandler(bookSvc, a.hub).RegisterRoutes(api, authMW)
	author.NewHandler(authorSvc).RegisterRoutes(api, authMW, adminMW)
	category.NewHandler(categorySvc).RegisterRoutes(api, authMW)
	tag.NewHandler(tagSvc).RegisterRoutes(api, authMW)
	article.NewHandler(articleSvc).RegisterRoutes(api, authMW)
	page.NewHandler(pageSvc).RegisterRoutes(api, adminMW)
	skill.NewHandler(skillSvc).RegisterRoutes(api, authMW)

	// Site features
	popup.NewHandler(popupSvc).RegisterRoutes(api, adminMW)
	message.NewHandler(messageSvc).RegisterRoutes(api, adminMW)
	settings.NewHandler(settingsSvc).RegisterRoutes(api, adminMW)
	aggregate.NewHandler(aggregateSvc).RegisterRoutes(api)
	markdown.NewHandler().RegisterRoutes(api, authMW)

	// Gateway
	gateway.RegisterRoutes(api, a.hub)
}

// httpCacheSkipPaths lists API paths that must never be served stale.
func httpCacheSkipPaths() []string {
	return []string{
		apiPrefix + "/auth/*",
		apiPrefix + "/users/*",
		apiPrefix + "/messages/*",
		apiPrefix + "/settings/*",
		apiPrefix + "/socket.io*",
		apiPrefix + "/gateway/*",
		apiPrefix + "/popups/active",
	}
}

// newMessageNotifier builds the contact-form notifier: broadcast to the
// dashboard, then mail the configured address when SMTP is enabled.
func newMessageNotifier(settingsSvc *settings.Service, hub *gateway.Hub, logger *zap.Logger) message.Notifier {
	return func(m *models.MessageModel) {
		hub.BroadcastAdmin("NEW_MESSAGE", m)

		mailCfg, notifyEmail, err := settingsSvc.MailConfig()
		if err != nil || notifyEmail == "" {
			return
		}
		cfg := decodeMailConfig(mailCfg)
		if !cfg.Enable {
			return
		}
		sender := pkgmail.New(cfg)
		err = sender.Send(pkgmail.Message{
			To:      []string{notifyEmail},
			Subject: "New contact message from " + m.Name,
			Text:    "From: " + m.Name + " <" + m.Email + ">\n\n" + m.Message,
		})
		if err != nil {
			logger.Warn("contact notification mail failed", zap.Error(err))
		}
	}
}

func decodeMailConfig(raw map[string]interface{}) pkgmail.Config {
	cfg := pkgmail.Config{}
	if raw == nil {
		return cfg
	}
	if v, ok := raw["enable"].(bool); ok {
		cfg.Enable = v
	}
	if v, ok := raw["host"].(string); ok {
		cfg.Host = v
	}
	switch v := raw["port"].(type) {
	case float64:
		cfg.Port = int(v)
	case int:
		cfg.Port = v
	}
	if v, ok := raw["user"].(string); ok {
		cfg.User = v
	}
	if v, ok := raw["pass"].(string); ok {
		cfg.Pass = v
	}
	if v, ok := raw["from"].(string); ok {
		cfg.From = v
	}
	return cfg
}
