package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"estate/internal/middleware"
	"estate/internal/observability"
	"estate/internal/service"
)

// BuildInfo is reported by /health and /version
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// Services are the dependencies behind the API routes
type Services struct {
	Search     *service.SearchService
	Chat       *service.ChatService
	Valuation  *service.ValuationService
	Contact    *service.ContactService
	Newsletter *service.NewsletterService
	Market     *service.MarketService
	Catalog    *service.CatalogService
	Auth       *service.AuthService
}

// RouterOptions configure the cross-cutting middleware
type RouterOptions struct {
	AllowedOrigins string
	Build          BuildInfo
	Logger         *slog.Logger
	Metrics        *observability.Metrics // nil disables /metrics
	RateLimiter    *middleware.RateLimiter
}

// NewRouter wires every route onto a fresh engine
func NewRouter(svcs Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Logger, opts.Metrics))
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "estate",
			"version":    opts.Build.Version,
			"build_time": opts.Build.BuildTime,
			"git_commit": opts.Build.GitCommit,
		})
	})
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    opts.Build.Version,
			"build_time": opts.Build.BuildTime,
			"git_commit": opts.Build.GitCommit,
		})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	limited := func(c *gin.Context) { c.Next() }
	if opts.RateLimiter != nil {
		limited = opts.RateLimiter.Limit()
	}

	searchHandler := NewSearchHandler(svcs.Search)
	chatHandler := NewChatHandler(svcs.Chat)
	valuationHandler := NewValuationHandler(svcs.Valuation)
	contactHandler := NewContactHandler(svcs.Contact)
	marketHandler := NewMarketHandler(svcs.Market)
	catalogHandler := NewCatalogHandler(svcs.Catalog)
	authHandler := NewAuthHandler(svcs.Auth)
	newsletterHandler := NewNewsletterHandler(svcs.Newsletter)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search", searchHandler.Search)
		apiV1.POST("/search/stream", searchHandler.SearchStream)
		apiV1.GET("/search/suggestions", searchHandler.Suggestions)

		chat := apiV1.Group("/chat")
		chat.POST("/sessions", limited, chatHandler.StartSession)
		chat.GET("/sessions/:id/messages", chatHandler.History)
		chat.POST("/sessions/:id/messages", limited, chatHandler.Send)
		chat.POST("/sessions/:id/stream", limited, chatHandler.Stream)
		chat.GET("/quick-actions", chatHandler.QuickActions)

		apiV1.POST("/valuations", valuationHandler.Estimate)
		apiV1.POST("/mortgage", valuationHandler.Mortgage)
		apiV1.POST("/contact", limited, contactHandler.Submit)
		apiV1.POST("/newsletter", limited, newsletterHandler.Subscribe)

		apiV1.GET("/recommendations", marketHandler.Recommendations)
		apiV1.GET("/market", marketHandler.Analysis)

		apiV1.GET("/properties", catalogHandler.List)
		apiV1.GET("/properties/stats", catalogHandler.Stats)
		apiV1.GET("/properties/:id", catalogHandler.Get)

		admin := apiV1.Group("/properties", middleware.RequireAuth(svcs.Auth), middleware.RequireAdmin())
		admin.POST("", catalogHandler.Create)
		admin.PUT("/:id", catalogHandler.Update)
		admin.DELETE("/:id", catalogHandler.Delete)

		auth := apiV1.Group("/auth")
		auth.POST("/signup", limited, authHandler.Signup)
		auth.POST("/login", limited, authHandler.Login)
		auth.GET("/me", middleware.RequireAuth(svcs.Auth), authHandler.Me)
		auth.PATCH("/me", middleware.RequireAuth(svcs.Auth), authHandler.UpdateProfile)
	}

	return router
}

func corsConfig(allowedOrigins string) cors.Config {
	corsCfg := cors.DefaultConfig()
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Content-Type", "Authorization", middleware.HeaderRequestID}
	corsCfg.ExposeHeaders = []string{middleware.HeaderRequestID}
	return corsCfg
}
