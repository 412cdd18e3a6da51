package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/rorogames/fishing-backend/internal/handler"    // import the handlers that implement business logic
	"github.com/rorogames/fishing-backend/internal/middleware" // import middleware for JWT authentication, rate limiting and caching
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, used
// by load balancers or monitoring systems to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes.  Unauthenticated
// operations live under /v1/auth, while the protected /v1/me endpoint sits
// behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// External identity login: exchanges a provider access token for a local
	// session, creating the account on first use.
	g.POST("/external", a.External)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterGame registers the fishing and store endpoints.  All of them
// require a valid access token.  The fishing attempt additionally passes
// the Redis token bucket so one player cannot spam casts, and the store
// catalog response is served through the Redis cache.
func RegisterGame(e *echo.Echo, g *handler.GameHandler, s *handler.StoreHandler, jwtSecret string, rateLimit echo.MiddlewareFunc, cache echo.MiddlewareFunc) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	auth.POST("/game/fish", g.Fish, rateLimit)
	auth.GET("/game/inventory", g.Inventory)

	auth.GET("/store/items", s.Items, cache)
	auth.POST("/store/items/:id/purchase", s.Purchase)
}
