package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linewatch/xray-monitor/internal/api/handler"
	"github.com/linewatch/xray-monitor/internal/api/middleware"
	"github.com/linewatch/xray-monitor/internal/auth/state"
	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/service"
	"github.com/linewatch/xray-monitor/internal/infrastructure/config"
	mongodb "github.com/linewatch/xray-monitor/internal/infrastructure/db/mongo"
	redisdb "github.com/linewatch/xray-monitor/internal/infrastructure/db/redis"
	"github.com/linewatch/xray-monitor/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and starts
// the background workers (event dispatcher, danger-zone watcher). Workers
// stop when ctx is cancelled.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("inspection"))

	// --- Repositories ---
	principalRepo := mongodb.NewPrincipalRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	alertRepo := mongodb.NewAlertRepository(db)

	// --- Auth state store (explicit object, no singleton) ---
	authState := state.NewStore(profileRepo, log)

	// --- Redis-backed stores ---
	tracker := redisdb.NewActivityTracker(rdb, cfg.TokenTTL)
	dedup := redisdb.NewDedupChecker(rdb)

	// --- Services ---
	authService := service.NewAuthService(principalRepo, profileRepo, service.AuthOptions{
		JWTSecret:                cfg.JWTSecret,
		TokenTTL:                 cfg.TokenTTL,
		AllowSelfServiceAdmin:    cfg.AllowSelfServiceAdmin,
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
		ReconcileAttempts:        cfg.ReconcileAttempts,
		ReconcileBackoff:         cfg.ReconcileBackoff,
	}, log)
	adminService := service.NewAdminService(profileRepo, authState, tracker, log)
	dashboardService := service.NewDashboardService(log)
	dashboardService.StartWatcher(ctx, cfg.DangerZoneInterval)
	alertService := service.NewAlertService(alertRepo, dedup, log)

	dispatcher := queue.NewDispatcher(cfg.EventWorkers, alertService, log)
	dispatcher.Start(ctx)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, tracker)
	adminHandler := handler.NewAdminHandler(adminService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	alertHandler := handler.NewAlertHandler(alertService)
	eventHandler := handler.NewEventHandler(dispatcher)

	authMW := middleware.Auth(cfg.JWTSecret)
	guardAny := middleware.Guard(authState, tracker, "")
	guardAdmin := middleware.Guard(authState, tracker, domain.RoleAdmin)

	// --- Auth routes (public) ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout, authMW)

	// --- Protected monitoring routes (any approved role) ---
	v1 := e.Group("/v1", authMW, guardAny)
	v1.GET("/dashboard/summary", dashboardHandler.Summary)
	v1.GET("/dashboard/zones", dashboardHandler.ZoneSeries)
	v1.GET("/dashboard/production", dashboardHandler.HourlyProduction)
	v1.GET("/dashboard/defect-types", dashboardHandler.DefectTypes)
	v1.GET("/alerts/recent", alertHandler.Recent)
	v1.POST("/events", eventHandler.Receive)
	v1.POST("/events/batch", eventHandler.ReceiveBatch)

	// --- Admin console (role=admin) ---
	admin := e.Group("/v1/admin", authMW, guardAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id", adminHandler.UpdateUser)
	admin.GET("/sessions", adminHandler.ActiveSessions)

	// --- Public alert detail (as the original detail view) ---
	e.GET("/v1/alerts/:id", alertHandler.Detail)

	// --- Health probes / observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
