package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/smarttimetable/timetable-ace-api/api/swagger"
	"github.com/smarttimetable/timetable-ace-api/internal/handler"
	"github.com/smarttimetable/timetable-ace-api/internal/middleware"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	"github.com/smarttimetable/timetable-ace-api/internal/repository"
	"github.com/smarttimetable/timetable-ace-api/internal/scheduler"
	"github.com/smarttimetable/timetable-ace-api/internal/service"
	"github.com/smarttimetable/timetable-ace-api/pkg/cache"
	"github.com/smarttimetable/timetable-ace-api/pkg/config"
	"github.com/smarttimetable/timetable-ace-api/pkg/database"
	"github.com/smarttimetable/timetable-ace-api/pkg/logger"
	corsmiddleware "github.com/smarttimetable/timetable-ace-api/pkg/middleware/cors"
	reqidmiddleware "github.com/smarttimetable/timetable-ace-api/pkg/middleware/requestid"
	"github.com/smarttimetable/timetable-ace-api/pkg/storage"
)

// @title Timetable Ace API
// @version 1.0.0
// @description Backend for the academic timetable dashboard: datasets, constraints, AI-backed generation, exports.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	constraintsRepo := repository.NewConstraintsRepository(db)
	resultRepo := repository.NewResultRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditService := service.NewAuditService(auditRepo, service.AuditConfig{
		QueueSize:         cfg.Audit.QueueSize,
		WorkerConcurrency: cfg.Audit.WorkerConcurrency,
		WorkerRetries:     cfg.Audit.WorkerRetries,
	}, logr)
	auditCtx, auditCancel := context.WithCancel(context.Background())
	auditService.Start(auditCtx)
	defer func() {
		auditCancel()
		auditService.Stop()
	}()

	authService := service.NewAuthService(userRepo, auditService, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "timetable-ace-api",
	})

	studentService := service.NewStudentService(studentRepo, cacheService, auditService, validate, logr)
	facultyService := service.NewFacultyService(facultyRepo, cacheService, auditService, validate, logr)
	courseService := service.NewCourseService(courseRepo, cacheService, auditService, validate, logr)
	roomService := service.NewRoomService(roomRepo, cacheService, auditService, validate, logr)
	constraintService := service.NewConstraintService(constraintsRepo, cacheService, auditService, logr)

	engine := scheduler.NewGeminiEngine(cfg.Generator, logr)
	simulationService := service.NewSimulationService(logr)
	generationService := service.NewGenerationService(
		studentRepo, facultyRepo, courseRepo, roomRepo,
		constraintsRepo, resultRepo,
		simulationService, engine,
		cacheService, auditService, metricsService, logr,
	)

	dashboardService := service.NewDashboardService(service.DashboardServiceParams{
		Students:    studentRepo,
		Faculty:     facultyRepo,
		Courses:     courseRepo,
		Rooms:       roomRepo,
		Constraints: constraintsRepo,
		Results:     resultRepo,
		Cache:       cacheService,
		Logger:      logr,
		Config:      service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService = service.NewExportService(resultRepo, fileStore, signer, auditService, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, validate, logr)

		cleanupTicker := time.NewTicker(cfg.Exports.CleanupInterval)
		defer cleanupTicker.Stop()
		go func() {
			for range cleanupTicker.C {
				if removed, err := exportService.Cleanup(0); err != nil {
					logr.Sugar().Warnw("export cleanup failed", "error", err)
				} else if len(removed) > 0 {
					logr.Sugar().Infow("export cleanup", "removed", len(removed))
				}
			}
		}()
	}

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	facultyHandler := handler.NewFacultyHandler(facultyService)
	courseHandler := handler.NewCourseHandler(courseService)
	roomHandler := handler.NewRoomHandler(roomService)
	constraintsHandler := handler.NewConstraintsHandler(constraintService)
	timetableHandler := handler.NewTimetableHandler(generationService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	auditHandler := handler.NewAuditHandler(auditService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty)

	students := protected.Group("/students")
	{
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.POST("", adminOnly, studentHandler.Create)
		students.PUT("/:id", adminOnly, studentHandler.Update)
		students.DELETE("/:id", adminOnly, studentHandler.Delete)
	}

	faculty := protected.Group("/faculty")
	{
		faculty.GET("", facultyHandler.List)
		faculty.GET("/:id", facultyHandler.Get)
		faculty.POST("", adminOnly, facultyHandler.Create)
		faculty.PUT("/:id", adminOnly, facultyHandler.Update)
		faculty.DELETE("/:id", adminOnly, facultyHandler.Delete)
	}

	courses := protected.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
		courses.POST("", adminOnly, courseHandler.Create)
		courses.PUT("/:id", adminOnly, courseHandler.Update)
		courses.DELETE("/:id", adminOnly, courseHandler.Delete)
	}

	rooms := protected.Group("/rooms")
	{
		rooms.GET("", roomHandler.List)
		rooms.GET("/:id", roomHandler.Get)
		rooms.POST("", adminOnly, roomHandler.Create)
		rooms.PUT("/:id", adminOnly, roomHandler.Update)
		rooms.DELETE("/:id", adminOnly, roomHandler.Delete)
	}

	protected.GET("/constraints", staff, constraintsHandler.Get)
	protected.PUT("/constraints", adminOnly, constraintsHandler.Update)

	timetable := protected.Group("/timetable")
	{
		timetable.POST("/generate", adminOnly, timetableHandler.Generate)
		timetable.GET("/latest", timetableHandler.Latest)
		timetable.DELETE("", adminOnly, timetableHandler.Clear)
	}

	if cfg.Dashboard.Enabled {
		protected.GET("/dashboard/summary", dashboardHandler.Summary)
	}

	if exportService != nil {
		exportHandler := handler.NewExportHandler(exportService)
		timetable.POST("/export", staff, exportHandler.Export)
		// Download links carry their own signed token, no JWT required.
		api.GET("/export/:token", exportHandler.Download)
	}

	protected.GET("/audit-logs", adminOnly, auditHandler.List)
	protected.GET("/system/metrics", adminOnly, metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
