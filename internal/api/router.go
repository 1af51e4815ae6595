package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ecommerce-platform/auth-service/internal/api/handler"
	"github.com/ecommerce-platform/auth-service/internal/api/middleware"
	"github.com/ecommerce-platform/auth-service/internal/core/domain"
	"github.com/ecommerce-platform/auth-service/internal/core/ports"
	"github.com/ecommerce-platform/auth-service/internal/infrastructure/http/handlers"
	"github.com/ecommerce-platform/auth-service/internal/security"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	authService ports.AuthService,
	userService ports.UserService,
	codec *security.TokenCodec,
	db *mongo.Database,
	rdb *redis.Client,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService, userService)
	authMiddleware := middleware.Auth(codec, userService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/logout-all", authHandler.LogoutAll, authMiddleware)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Admin routes ---
	admin := e.Group("/api/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/logout-all", authHandler.AdminLogoutAll)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
