package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/baselinehq/pricing-api/docs"
	"github.com/baselinehq/pricing-api/internal/api/handler"
	"github.com/baselinehq/pricing-api/internal/api/middleware"
	"github.com/baselinehq/pricing-api/internal/core/service"
	mongodb "github.com/baselinehq/pricing-api/internal/infrastructure/db/mongo"
	redisdb "github.com/baselinehq/pricing-api/internal/infrastructure/db/redis"
	"github.com/baselinehq/pricing-api/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the device-tracking dispatcher, which the caller must
// Start and owns the lifetime of.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "x-user-token"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		MaxAge:       600,
	}))
	e.Use(echoprometheus.NewMiddleware("baseline"))

	// --- Dependencies ---
	store := redisdb.NewEntitlementStore(rdb)
	userRepo := mongodb.NewUserRepository(db)
	gateway := service.NewAuthGateway(userRepo, jwtSecret, 24*time.Hour)
	entitlements := service.NewEntitlementService(store, gateway, log)
	verification := service.NewVerificationService(store, log)
	dispatcher := queue.NewDispatcher(0, entitlements, log)

	entitlementHandler := handler.NewEntitlementHandler(entitlements, dispatcher)
	authHandler := handler.NewAuthHandler(gateway, entitlements)
	verificationHandler := handler.NewVerificationHandler(verification)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- API routes ---
	v1 := e.Group("/v1")
	v1.POST("/signup", entitlementHandler.Signup)
	v1.POST("/login", authHandler.Login)
	v1.POST("/upgrade", entitlementHandler.Upgrade)
	v1.POST("/calculate", entitlementHandler.Calculate, authMiddleware)
	v1.GET("/user", entitlementHandler.GetUser, authMiddleware)
	v1.POST("/track-device", entitlementHandler.TrackDevice)
	v1.POST("/check-device", entitlementHandler.CheckDevice)
	v1.POST("/send-verification", verificationHandler.SendVerification)
	v1.POST("/verify-email", verificationHandler.VerifyEmail)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, dispatcher
}
