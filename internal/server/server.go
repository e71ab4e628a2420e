// Package server exposes the HTTP API for meal edits, tier discovery and the
// staleness dashboard.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/tiffinlabs/mealgrid/internal/audit/domain"
	catalogdomain "github.com/tiffinlabs/mealgrid/internal/catalog/domain"
	"github.com/tiffinlabs/mealgrid/internal/config"
	dashboarddomain "github.com/tiffinlabs/mealgrid/internal/dashboard/domain"
	mealconfigdomain "github.com/tiffinlabs/mealgrid/internal/mealconfig/domain"
	"github.com/tiffinlabs/mealgrid/internal/observability/logger"
	propagationdomain "github.com/tiffinlabs/mealgrid/internal/propagation/domain"
	subscriptiondomain "github.com/tiffinlabs/mealgrid/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterAPIRoutes),
	fx.Invoke(RunHTTP),
)

type ServerParam struct {
	fx.In

	Log            *zap.Logger
	Cfg            config.Config
	DB             *gorm.DB
	CatalogSvc     catalogdomain.Service
	ConfigSvc      mealconfigdomain.Service
	SubscriptionSv subscriptiondomain.Service
	PropagationSvc propagationdomain.Service
	DashboardSvc   dashboarddomain.Service
	AuditSvc       auditdomain.Service
}

type Server struct {
	log             *zap.Logger
	cfg             config.Config
	db              *gorm.DB
	catalogSvc      catalogdomain.Service
	configSvc       mealconfigdomain.Service
	subscriptionSvc subscriptiondomain.Service
	propagationSvc  propagationdomain.Service
	dashboardSvc    dashboarddomain.Service
	auditSvc        auditdomain.Service
	editLimiter     *rateLimiter
}

func NewServer(p ServerParam) *Server {
	limit := p.Cfg.RateLimit.Limit
	window := p.Cfg.RateLimit.Window
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Server{
		log:             p.Log.Named("server"),
		cfg:             p.Cfg,
		db:              p.DB,
		catalogSvc:      p.CatalogSvc,
		configSvc:       p.ConfigSvc,
		subscriptionSvc: p.SubscriptionSv,
		propagationSvc:  p.PropagationSvc,
		dashboardSvc:    p.DashboardSvc,
		auditSvc:        p.AuditSvc,
		editLimiter:     newRateLimiter(limit, window),
	}
}

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(actorMiddleware())
	return engine
}

func RegisterAPIRoutes(engine *gin.Engine, s *Server) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/v1")
	{
		sellers := v1.Group("/sellers/:id")
		{
			sellers.POST("/meals", s.EditMeal)
			sellers.GET("/tiers", s.ListTiers)
			sellers.GET("/offerings", s.ListOfferings)
			sellers.GET("/meal-configurations/:tier", s.GetMealConfiguration)
			sellers.GET("/meal-suggestions", s.MealSuggestions)
			sellers.GET("/audit-logs", s.ListAuditLogs)
		}
		v1.PATCH("/subscriptions/:id/meal", s.EditSubscriptionMeal)
		v1.GET("/dashboard/staleness", s.Staleness)
	}
}

func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
