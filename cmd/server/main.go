package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/candle.works/internal/config"
	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/db"
	"github.com/Simplici0/candle.works/internal/logging"
	"github.com/Simplici0/candle.works/internal/migrations"
	"github.com/Simplici0/candle.works/internal/seed"
	"github.com/Simplici0/candle.works/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.IsDev(),
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return err
	}

	seedCfg := seed.DefaultConfig()
	if cfg.MaterialsFile != "" {
		materials, err := config.LoadMaterials(cfg.MaterialsFile)
		if err != nil {
			return err
		}
		seedCfg.Materials = materials
	}
	stats, err := seed.Run(database, seedCfg)
	if err != nil {
		return err
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))

	srv := &server{
		store:    store.New(database),
		log:      logger,
		overhead: cfg.MonthlyOverhead,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("listening",
		zap.String("addr", httpServer.Addr),
		zap.String("db", cfg.DBPath),
		zap.Float64("monthly_overhead", cfg.MonthlyOverhead),
		zap.Strings("market_positions", positionNames()),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func positionNames() []string {
	positions := costing.MarketPositions()
	names := make([]string, 0, len(positions))
	for _, p := range positions {
		names = append(names, string(p))
	}
	return names
}
