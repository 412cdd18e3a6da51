package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/rorogames/fishing-backend/internal/config"
	"github.com/rorogames/fishing-backend/internal/database"
	"github.com/rorogames/fishing-backend/internal/game"
	"github.com/rorogames/fishing-backend/internal/handler"
	"github.com/rorogames/fishing-backend/internal/identity"
	"github.com/rorogames/fishing-backend/internal/middleware"
	"github.com/rorogames/fishing-backend/internal/queue"
	"github.com/rorogames/fishing-backend/internal/repository"
	"github.com/rorogames/fishing-backend/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	fish := repository.NewFishRepo(db)
	items := repository.NewItemRepo(db)

	fishing := game.NewFishingEngine(db, fish, users, nil)
	purchases := game.NewPurchaseEngine(db, items, users)

	var provider identity.Provider
	if cfg.IdentityUserinfoURL != "" {
		provider = identity.NewHTTPProvider(cfg.IdentityUserinfoURL)
	}

	// Redis backs rate limiting and catalog caching; both degrade to no-ops
	// when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Background consumer mirrors game events into logs/game.log.
	go func() {
		if err := queue.StartGameEventConsumer(); err != nil {
			log.Printf("game-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, provider), cfg.JWTSecret)
	router.RegisterGame(e, handler.NewGameHandler(fishing, fish), handler.NewStoreHandler(items, purchases), cfg.JWTSecret, rateLimit, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
