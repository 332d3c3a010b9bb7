package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/emreb/cinematch/internal/config"
	"github.com/emreb/cinematch/internal/db"
	"github.com/emreb/cinematch/internal/ingest"
	"github.com/emreb/cinematch/internal/logger"
)

// Offline catalog backfill. Typical order on a fresh database:
//
//	ingest -job=genres
//	ingest -job=discover -pages=50
//	ingest -job=platforms
//	ingest -job=ratings
//	ingest -job=dates
//	ingest -job=genre-repair
func main() {
	job := flag.String("job", "", "one of: genres, discover, platforms, ratings, dates, genre-repair")
	pages := flag.Int("pages", 5, "number of discover pages to fetch")
	flag.Parse()

	cfg := config.New()
	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: logger.Format(cfg.Log.Format), Component: "ingest"})
	log := logger.L()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	client, err := ingest.NewTMDBClient(cfg)
	if err != nil {
		log.Error("failed to init tmdb client", "err", err)
		os.Exit(1)
	}

	jobs := ingest.NewJobs(database, client, log)
	ctx := context.Background()

	switch *job {
	case "genres":
		err = jobs.Genres(ctx)
	case "discover":
		err = jobs.Discover(ctx, *pages)
	case "platforms":
		err = jobs.Platforms(ctx)
	case "ratings":
		err = jobs.Ratings(ctx)
	case "dates":
		err = jobs.Dates(ctx)
	case "genre-repair":
		err = jobs.GenreRepair(ctx)
	default:
		fmt.Fprintln(os.Stderr, "unknown or missing -job")
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error("job failed", "job", *job, "err", err)
		os.Exit(1)
	}
	log.Info("job finished", "job", *job)
}
