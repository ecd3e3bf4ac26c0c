// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/metrics"
	"github.com/iliyamo/auth-service/internal/middleware"
)

// Deps are the collaborators routes need.
type Deps struct {
	Auth      *handler.AuthHandler
	Metrics   *metrics.Metrics
	DB        handler.Pinger
	RateLimit echo.MiddlewareFunc
	Log       *zap.Logger
}

// New builds the echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog(d.Log))
	e.Use(middleware.Metrics(d.Metrics))

	RegisterRoutes(e, d)
	RegisterAuth(e, d.Auth, d.RateLimit)
	return e
}

// RegisterRoutes registers operational endpoints that sit outside /api.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(d.DB))
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
}

// RegisterAuth registers the credential API under /api/v1. The limiter, if
// any, guards every route in the group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/v1")
	if limiter != nil {
		g.Use(limiter)
	}

	g.POST("/register", a.Register)
	g.GET("/register/validation/:validationToken", a.VerifyEmail)
	g.POST("/register/validation", a.ResendVerification)

	g.POST("/logon", a.Login)
	g.DELETE("/logon", a.Logout)
	g.POST("/token", a.Token)
	g.POST("/auth", a.Authorize)

	g.GET("/me", a.Me)
	g.POST("/me", a.Me)

	// /password/recovery is static and wins over the :recoveryToken param.
	g.POST("/password/recovery", a.RequestRecovery)
	g.POST("/password/:recoveryToken", a.ResetPassword)
}
