package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/crmlite/internal/config"
	"github.com/smallbiznis/crmlite/internal/department"
	departmentdomain "github.com/smallbiznis/crmlite/internal/department/domain"
	"github.com/smallbiznis/crmlite/internal/observability"
	obsmiddleware "github.com/smallbiznis/crmlite/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/crmlite/internal/observability/metrics"
	obstracing "github.com/smallbiznis/crmlite/internal/observability/tracing"
	"github.com/smallbiznis/crmlite/internal/presale"
	presaledomain "github.com/smallbiznis/crmlite/internal/presale/domain"
	"github.com/smallbiznis/crmlite/internal/ratelimit"
	"github.com/smallbiznis/crmlite/internal/report"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	presale.Module,
	department.Module,
	report.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	if httpMetrics != nil {
		r.Use(httpMetrics.GinMiddleware())
	}
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	presaleSvc    presaledomain.Service
	departmentSvc departmentdomain.Service
	reportLimiter *ratelimit.ReportLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	PresaleSvc    presaledomain.Service
	DepartmentSvc departmentdomain.Service
	ReportLimiter *ratelimit.ReportLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		presaleSvc:    p.PresaleSvc,
		departmentSvc: p.DepartmentSvc,
		reportLimiter: p.ReportLimiter,
	}
	svc.registerAPIRoutes()
	svc.registerFallback()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Pre-sales --------
	api.GET("/presales", s.ListPreSales)
	api.POST("/presales", s.CreatePreSale)
	api.GET("/presales/:id", s.GetPreSaleByID)
	api.PUT("/presales/:id", s.UpdatePreSale)
	api.DELETE("/presales/:id", s.DeletePreSale)
	api.GET("/presales/:id/exists", s.PreSaleExists)

	// -------- Categories --------
	api.GET("/presale-statuses", s.ListPreSaleStatuses)
	api.GET("/presale-results", s.ListPreSaleResults)
	api.GET("/presale-regions", s.ListPreSaleRegions)
	api.GET("/presale-group-statuses", s.ListPreSaleGroupStatuses)

	// -------- Groups --------
	api.GET("/presale-groups", s.ListPreSaleGroups)
	api.POST("/presale-groups", s.CreatePreSaleGroup)
	api.GET("/presale-groups/:id", s.GetPreSaleGroupByID)
	api.PUT("/presale-groups/:id", s.UpdatePreSaleGroup)
	api.DELETE("/presale-groups/:id", s.DeletePreSaleGroup)
	api.GET("/presale-groups/:id/exists", s.PreSaleGroupExists)
	api.GET("/presale-groups/:id/presales", s.ListPreSalesByGroup)
	api.GET("/presale-groups/:id/report", s.ReportRateLimit(), s.DownloadGroupReport)

	// -------- Departments --------
	api.GET("/departments", s.ListDepartments)
	api.GET("/departments/main", s.ListMainDepartments)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
