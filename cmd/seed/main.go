package main

import (
	"os"
	"time"

	"github.com/noteshub/noteshub/internal/config"
	"github.com/noteshub/noteshub/internal/db"
	"github.com/noteshub/noteshub/internal/observability"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	ctx, cancel := config.WithTimeout(10 * time.Second)

	defer cancel()

	if err := db.SeedDemo(ctx, pool); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}

	log.Info("seed complete")
}
