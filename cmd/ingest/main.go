package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"jobfeed-engine/internal/cache"
	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/ingest"
	"jobfeed-engine/internal/logger"
	"jobfeed-engine/internal/rank"
	"jobfeed-engine/internal/store"
)

func main() {
	cfgPath := flag.String("config", filepath.Join("config", "config.yml"), "config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		// still usable from defaults and the environment
		cfg = config.Defaults()
		config.OverlayEnv(&cfg)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Warn().Err(err).Str("path", *cfgPath).Msg("config not loaded; using defaults")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatal().Msg("usage: ingest -config config.yml export.json...")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(filepath.Join(cfg.App.DataDir, "jobs.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	im := &ingest.Importer{
		Store: db,
		Normalizer: ingest.Normalizer{
			Scorer: rank.RuleScorer{Cfg: cfg.Scoring},
			FAANG:  cfg.Ingest.FAANGCompanies,
		},
		DataDir:  cfg.App.DataDir,
		Parallel: cfg.Ingest.ParallelFiles,
	}
	if cfg.Cache.RedisURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		rc, err := cache.Dial(dialCtx, cfg.Cache.RedisURL)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable; stats cache will expire on its own")
		} else {
			defer rc.Close()
			im.Cache = rc
		}
	}

	res, err := im.Run(ctx, paths...)
	if errors.Is(err, ingest.ErrWriterBusy) {
		log.Error().Str("data_dir", cfg.App.DataDir).Msg("another import is running")
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
	log.Info().Int("added", res.Added).Int("updated", res.Updated).Int("total", res.Total).Msg("done")
}
