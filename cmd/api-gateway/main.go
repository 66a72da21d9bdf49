package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-admin-gateway/api/swagger"
	"github.com/noah-isme/school-admin-gateway/internal/handler"
	internalmiddleware "github.com/noah-isme/school-admin-gateway/internal/middleware"
	"github.com/noah-isme/school-admin-gateway/internal/repository"
	"github.com/noah-isme/school-admin-gateway/internal/service"
	"github.com/noah-isme/school-admin-gateway/pkg/cache"
	"github.com/noah-isme/school-admin-gateway/pkg/config"
	"github.com/noah-isme/school-admin-gateway/pkg/jobs"
	"github.com/noah-isme/school-admin-gateway/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-admin-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-admin-gateway/pkg/middleware/requestid"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
	"github.com/noah-isme/school-admin-gateway/pkg/storage"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

// @title School Admin Gateway
// @version 1.0.0
// @description Backend-for-frontend over the school administration API: payment grids, students, bodega, packages and workshops.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	client := upstream.New(upstream.Config{
		BaseURL:  cfg.Upstream.BaseURL,
		Timeout:  cfg.Upstream.Timeout,
		Observer: metricsSvc,
		Logger:   logr,
	})

	studentRepo := repository.NewStudentRepository(client)
	paymentRepo := repository.NewPaymentRepository(client)
	statsRepo := repository.NewStatsRepository(client)
	productRepo := repository.NewProductRepository(client)
	packageRepo := repository.NewPackageRepository(client)
	workshopRepo := repository.NewWorkshopRepository(client)

	checks := map[string]handler.Pinger{
		"upstream": handler.PingFunc(func(ctx context.Context) error {
			_, err := statsRepo.Get(ctx)
			return err
		}),
	}

	var cacheStore service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, inventory cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
			checks["redis"] = cacheRepo
			cacheStore = cacheRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheStore, metricsSvc, cfg.Cache.TTL, logr, cacheStore != nil)

	clock := service.NewServerClock(statsRepo, logr)
	dashboardSvc := service.NewDashboardService(statsRepo, clock, logr)
	gridSvc := service.NewPaymentGridService(paymentRepo, studentRepo, clock, metricsSvc, logr, service.PaymentGridConfig{
		Years:             cfg.Grid.Years,
		MonthLabels:       cfg.Grid.MonthLabels,
		SpecialTypes:      specialTypes(cfg.Grid.SpecialTypes),
		SessionTTL:        cfg.Grid.SessionTTL,
		CallTimeout:       cfg.Upstream.Timeout,
		LedgerConcurrency: cfg.Grid.LedgerLimit,
	})
	gridSvc.StartJanitor(ctx)

	studentSvc := service.NewStudentService(studentRepo, gridSvc, validate, logr)
	inventorySvc := service.NewInventoryService(productRepo, cacheSvc, cfg.Cache.TTL, validate, logr)
	packageSvc := service.NewPackageService(packageRepo, productRepo, validate, logr)
	workshopSvc := service.NewWorkshopService(workshopRepo, validate, logr)

	gridHandler := handler.NewGridHandler(gridSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	inventoryHandler := handler.NewInventoryHandler(inventorySvc)
	packageHandler := handler.NewPackageHandler(packageSvc)
	workshopHandler := handler.NewWorkshopHandler(workshopSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	var reportHandler *handler.ReportHandler
	if cfg.Reports.Enabled {
		queue, h, err := setupReports(ctx, cfg, gridSvc, validate, logr)
		if err != nil {
			logr.Fatal("failed to set up reports", zap.Error(err))
		}
		defer queue.Stop()
		reportHandler = h
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/status", metricsHandler.Status)
	api.GET("/dashboard/stats", dashboardHandler.Stats)

	api.GET("/grid/config", gridHandler.Config)
	api.GET("/students", studentHandler.List)
	api.POST("/students", studentHandler.Register)
	api.DELETE("/students/:carnet", studentHandler.Delete)
	api.GET("/students/:carnet/grid", gridHandler.Grid)
	api.POST("/students/:carnet/grid/toggle", gridHandler.Toggle)

	api.GET("/products", inventoryHandler.List)
	api.POST("/products", inventoryHandler.Create)
	api.GET("/products/:code", inventoryHandler.Get)
	api.GET("/inventory/alerts", inventoryHandler.Alerts)

	api.GET("/packages", packageHandler.List)
	api.POST("/packages", packageHandler.Create)
	api.PUT("/packages/:id", packageHandler.Update)
	api.DELETE("/packages/:id", packageHandler.Delete)

	workshops := api.Group("/workshops")
	workshops.GET("", workshopHandler.List)
	workshops.POST("", workshopHandler.Create)
	workshops.GET("/:id", workshopHandler.Detail)
	workshops.POST("/:id/students/:carnet", workshopHandler.Enroll)
	workshops.DELETE("/:id/students/:carnet", workshopHandler.Unenroll)
	workshops.POST("/:id/students/:carnet/toggle", workshopHandler.TogglePayment)
	workshops.PUT("/:id/students/:carnet/package", workshopHandler.AssignPackage)
	workshops.POST("/:id/packages/:packageId", workshopHandler.LinkPackage)
	workshops.DELETE("/:id/packages/:packageId", workshopHandler.UnlinkPackage)
	workshops.POST("/:id/diplomas", workshopHandler.GenerateDiplomas)

	if reportHandler != nil {
		api.POST("/reports/payments", reportHandler.GeneratePaymentLedger)
		api.GET("/reports/:id", reportHandler.ReportStatus)
		api.GET("/export/:token", reportHandler.Download)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("upstream", client.BaseURL()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func setupReports(ctx context.Context, cfg *config.Config, grid *service.PaymentGridService, validate *validator.Validate, logr *zap.Logger) (*jobs.Queue, *handler.ReportHandler, error) {
	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exporter := service.NewExportService(grid, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.ResultTTL,
	}, logr, nil, nil)

	repo := repository.NewReportRepository()
	worker := service.NewReportWorker(repo, exporter, logr)

	var reports *service.ReportService
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: 5 * time.Second,
		OnExhaust:  func(job jobs.Job, err error) { reports.MarkExhausted(job, err) },
		Logger:     logr,
	})
	reports = service.NewReportService(repo, queue, exporter, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.ResultTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	queue.Start(ctx)
	reports.StartCleanup(ctx)
	return queue, handler.NewReportHandler(reports), nil
}

func specialTypes(in []config.SpecialType) []paygrid.SpecialType {
	out := make([]paygrid.SpecialType, 0, len(in))
	for _, st := range in {
		out = append(out, paygrid.SpecialType{ID: st.ID, Label: st.Label})
	}
	return out
}
