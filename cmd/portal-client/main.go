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

	_ "github.com/noah-isme/coursereg-client/api/swagger"
	"github.com/noah-isme/coursereg-client/internal/handler"
	"github.com/noah-isme/coursereg-client/internal/middleware"
	"github.com/noah-isme/coursereg-client/internal/repository"
	"github.com/noah-isme/coursereg-client/internal/service"
	"github.com/noah-isme/coursereg-client/pkg/config"
	"github.com/noah-isme/coursereg-client/pkg/logger"
	corsmiddleware "github.com/noah-isme/coursereg-client/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/coursereg-client/pkg/middleware/requestid"
	"github.com/noah-isme/coursereg-client/pkg/session"
	"github.com/noah-isme/coursereg-client/pkg/stream"
)

// @title Course Registration Portal Client
// @version 0.1.0
// @description Local API over the enrollment sync engine: live catalog, bulk enroll/unenroll and timetable.
// @BasePath /api/v1
// @schemes http

type handlers struct {
	metrics    *handler.MetricsHandler
	courses    *handler.CourseHandler
	selections *handler.SelectionHandler
	enrollment *handler.EnrollmentHandler
	timetable  *handler.TimetableHandler
	student    *handler.StudentHandler
}

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

	credential := session.NewCredential(cfg.Portal.Authorization)
	claims, _ := credential.Inspect()
	logr = logger.WithSession(logr, credential.SessionID(), claims.Subject)
	if err := credential.Check(); err != nil {
		logr.Warn("portal credential unusable; portal calls will be rejected", zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()
	portal := service.NewPortalHTTPClient(cfg.Portal.BaseURL, credential, service.DefaultPortalHTTPClient(cfg.Portal.Timeout), metricsSvc, logr.Named("portal"))

	catalog := repository.NewCourseCatalog()
	enrolled := repository.NewEnrolledSet()
	selections := repository.NewSelectionRegistry()

	courseSvc := service.NewCourseService(portal, catalog, enrolled, metricsSvc, logr.Named("catalog"))
	bulkSvc := service.NewBulkEnrollmentService(portal, catalog, enrolled, selections, metricsSvc, logr.Named("enrollment"))
	selectionSvc := service.NewSelectionService(selections, catalog, enrolled, validate, logr.Named("selection"))
	timetableSvc := service.NewTimetableService(catalog, enrolled)

	seatStream := stream.NewClient(stream.Config{
		URL:     portal.URL(cfg.Stream.Path),
		Headers: map[string]string{"Authorization": credential.Header()},
	})
	liveSvc := service.NewLiveCountService(catalog, seatStream, credential, metricsSvc, logr.Named("seat_stream"))

	timetableHandler := handler.NewTimetableHandler(timetableSvc, nil)
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(timetableSvc, courseSvc, service.ExportConfig{Title: cfg.Exports.Title}, validate, logr.Named("export"), nil, nil)
		timetableHandler = handler.NewTimetableHandler(timetableSvc, exportSvc)
	}

	h := handlers{
		metrics:    handler.NewMetricsHandler(metricsSvc, courseSvc),
		courses:    handler.NewCourseHandler(courseSvc),
		selections: handler.NewSelectionHandler(selectionSvc),
		enrollment: handler.NewEnrollmentHandler(bulkSvc),
		timetable:  timetableHandler,
		student:    handler.NewStudentHandler(courseSvc),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := courseSvc.Load(ctx); err != nil {
		logr.Warn("starting with an empty catalog", zap.Error(err))
	}
	if _, err := bulkSvc.RefreshEnrolled(ctx); err != nil {
		logr.Warn("starting without enrolled courses", zap.Error(err))
	}

	liveDone := make(chan struct{})
	go func() {
		defer close(liveDone)
		runLiveCounts(ctx, liveSvc, cfg.Stream, logr)
	}()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	registerRoutes(r, cfg, h)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.Warn("http shutdown error", zap.Error(err))
		}
	}()

	logr.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env), zap.String("portal", cfg.Portal.BaseURL))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.Fatal("server failed", zap.Error(err))
	}
	stop()
	<-liveDone
	logr.Info("server stopped")
}

func registerRoutes(r *gin.Engine, cfg *config.Config, h handlers) {
	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", h.metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/metrics/summary", h.metrics.Summary)

	courses := api.Group("/courses")
	courses.GET("", h.courses.List)
	courses.GET("/registered", h.courses.Registered)
	courses.POST("/registered/refresh", h.enrollment.RefreshEnrolled)
	courses.GET("/registered/export", h.timetable.ExportRegistered)

	selections := api.Group("/selections")
	selections.GET("/:page", h.selections.Get)
	selections.PUT("/:page", h.selections.Update)
	selections.DELETE("/:page", h.selections.Clear)

	enrollments := api.Group("/enrollments")
	enrollments.POST("/enroll", h.enrollment.Enroll)
	enrollments.POST("/unenroll", h.enrollment.Unenroll)
	enrollments.GET("/results/:page", h.enrollment.Result)

	api.GET("/timetable", h.timetable.Get)
	api.GET("/timetable/export", h.timetable.Export)
	api.GET("/student", h.student.Get)
}

// runLiveCounts keeps one seat-count subscription open for the life of ctx,
// opening a new one after cfg.ReconnectDelay when the portal drops it.
func runLiveCounts(ctx context.Context, live *service.LiveCountService, cfg config.StreamConfig, logr *zap.Logger) {
	for {
		err := live.WithLiveCounts(ctx, func(ctx context.Context, handle *service.LiveCountHandle) error {
			select {
			case <-ctx.Done():
				return nil
			case <-handle.Done():
				return handle.Err()
			}
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logr.Warn("seat count stream ended", zap.Error(err))
		} else {
			logr.Info("seat count stream closed by portal")
		}
		if !cfg.Reconnect {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.ReconnectDelay):
		}
	}
}
