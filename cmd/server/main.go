package main

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/okulova/allocation-engine/internal/adapter/cache"
	"github.com/okulova/allocation-engine/internal/adapter/in_memory"
	"github.com/okulova/allocation-engine/internal/adapter/pg"
	"github.com/okulova/allocation-engine/internal/api/http"
	"github.com/okulova/allocation-engine/internal/config"
	"github.com/okulova/allocation-engine/internal/core"
	"github.com/okulova/allocation-engine/internal/port"
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	log, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	var journal port.Journal
	if cfg.PostgresDSN != "" {
		pgJournal, err := pg.NewJournal(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect to Postgres", zap.Error(err))
		}
		journal = pgJournal
		log.Info("audit journal: postgres")
	} else {
		journal = in_memory.NewJournal()
		log.Info("audit journal: in-memory")
	}
	defer journal.Close(ctx)

	var bookCache port.Cache
	if cfg.RedisAddr != "" {
		bookCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		log.Info("snapshot cache: redis", zap.String("addr", cfg.RedisAddr))
	} else {
		bookCache = in_memory.NewCache()
		log.Info("snapshot cache: in-memory")
	}

	directory := core.NewDirectory(journal, bookCache)
	if cfg.DemoSeed {
		if err := directory.Seed(ctx); err != nil {
			log.Fatal("failed to seed demo books", zap.Error(err))
		}
		log.Info("seeded demo books", zap.Int("count", directory.Count()))
	}

	server := http.NewHTTPServer(directory, log)
	server.RateLimit = cfg.RateLimit

	log.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
	if err := server.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
