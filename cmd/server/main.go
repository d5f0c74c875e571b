package main

import (
	"context"

	"github.com/pmoroz/filmrate/internal/app"
	"github.com/pmoroz/filmrate/internal/cache"
	"github.com/pmoroz/filmrate/internal/config"
	"github.com/pmoroz/filmrate/internal/db"
	"github.com/pmoroz/filmrate/internal/logger"
	"github.com/pmoroz/filmrate/internal/server"
	"github.com/pmoroz/filmrate/internal/service/films"
	"github.com/pmoroz/filmrate/internal/service/reviews"
	"github.com/pmoroz/filmrate/internal/service/users"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Inject logger into app context
	appCtx := app.New(database, redisCache, log)

	registrars := []server.Registrar{
		users.NewRegistrar(appCtx),
		films.NewRegistrar(appCtx),
		reviews.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
