package main

import (
	"context"

	"github.com/emreb/cinematch/internal/app"
	"github.com/emreb/cinematch/internal/cache"
	"github.com/emreb/cinematch/internal/classifier"
	"github.com/emreb/cinematch/internal/config"
	"github.com/emreb/cinematch/internal/db"
	"github.com/emreb/cinematch/internal/logger"
	"github.com/emreb/cinematch/internal/server"
	"github.com/emreb/cinematch/internal/service/collection"
	"github.com/emreb/cinematch/internal/service/game"
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

	appCtx := app.New(database, redisCache, log)

	gameSvc := game.NewService(appCtx, classifier.NewClient(cfg))
	colSvc := collection.NewService(appCtx)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	router := server.Router(appCtx, gameSvc, colSvc)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.Run(cfg, appCtx, router); err != nil {
		log.Error("HTTP server failed", "err", err)
	}
}
