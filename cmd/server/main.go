package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"estate/internal/config"
	"estate/internal/handler"
	"estate/internal/logger"
	"estate/internal/middleware"
	"estate/internal/model"
	"estate/internal/observability"
	"estate/internal/repository"
	"estate/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)
	slog.SetDefault(appLogger)
	appLogger.Info("Estate assistant", "version", Version, "build_time", BuildTime, "git_commit", GitCommit)

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := openCatalog(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to open catalog store", "backend", cfg.Catalog.Backend, "error", err)
		os.Exit(1)
	}
	defer catalog.Close()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.New()
	}

	assistant := service.NewAssistant(cfg.OpenAI, appLogger)

	authService := service.NewAuthService(cfg.Auth.AdminEmail, cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, appLogger)
	chatService := service.NewChatService(service.NewDispatcher(), assistant, service.ChatOptions{
		Delay:         service.NewUniformDelay(cfg.Chat.MinDelay, cfg.Chat.MaxDelay),
		FollowUpDelay: cfg.Chat.FollowUpDelay,
		SessionTTL:    cfg.Chat.SessionTTL,
	}, appLogger, metrics)

	svcs := handler.Services{
		Search: service.NewSearchService(
			service.NewQueryParser(),
			assistant,
			model.SearchCatalog(),
			service.FixedDelay(cfg.Search.Delay),
			cfg.Search.HistorySize,
			appLogger,
			metrics,
		),
		Chat:       chatService,
		Valuation:  service.NewValuationService(service.FixedDelay(cfg.Valuation.Delay), cfg.Valuation.ReferenceYear, appLogger, metrics),
		Contact:    service.NewContactService(service.FixedDelay(cfg.Contact.Delay), appLogger, metrics),
		Newsletter: service.NewNewsletterService(service.FixedDelay(cfg.Newsletter.Delay), appLogger, metrics),
		Market:     service.NewMarketService(service.FixedDelay(cfg.Search.Delay)),
		Catalog:    service.NewCatalogService(catalog, appLogger),
		Auth:       authService,
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, appLogger)
	go limiter.RunCleanup(ctx, 10*time.Minute, 30*time.Minute)
	if cfg.Chat.SessionTTL > 0 {
		go chatService.RunJanitor(ctx, time.Minute)
	}

	appLogger.Info("✅ Services initialized", "catalog_backend", cfg.Catalog.Backend, "assistant", assistant.Enabled())

	router := handler.NewRouter(svcs, handler.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Build:          handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
		Logger:         appLogger,
		Metrics:        metrics,
		RateLimiter:    limiter,
	})
	setupStaticFiles(router, cfg.Server.StaticDir, appLogger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("🚀 Starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
	appLogger.Info("✅ Server stopped")
}

// openCatalog connects the configured catalog backend and seeds it when empty
func openCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.CatalogRepository, error) {
	seed := model.DefaultCatalog()

	switch cfg.Catalog.Backend {
	case config.CatalogBackendRedis:
		client, err := repository.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		catalog, err := repository.NewRedisCatalog(ctx, client, cfg.Redis.CatalogKey, seed)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		logger.Info("✅ Connected to Redis catalog", "addr", cfg.Redis.Addr, "key", cfg.Redis.CatalogKey)
		return catalog, nil

	case config.CatalogBackendPostgres:
		catalog, err := repository.NewPostgresCatalog(ctx, cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections, cfg.PostgreSQL.MaxIdleConnections, seed)
		if err != nil {
			return nil, err
		}
		logger.Info("✅ Connected to PostgreSQL catalog", "database", cfg.PostgreSQL.Database)
		return catalog, nil

	default:
		logger.Info("Using in-memory catalog")
		return repository.NewMemoryCatalog(seed), nil
	}
}
