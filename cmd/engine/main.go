package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"jobfeed-engine/internal/cache"
	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/httpapi"
	"jobfeed-engine/internal/logger"
	"jobfeed-engine/internal/query"
	"jobfeed-engine/internal/scheduler"
	"jobfeed-engine/internal/store"
)

func main() {
	defaultCfgPath := flag.String("config", filepath.Join("config", "config.yml"), "default config copied into the data dir on first run")
	flag.Parse()

	// Bootstrap from the default file so the data dir is known before the
	// user copy exists.
	boot := config.Defaults()
	if c, err := config.Load(*defaultCfgPath); err == nil {
		boot = c
	} else {
		config.OverlayEnv(&boot)
	}
	logger.Init(boot.Logging.Level, boot.Logging.Format)

	dataDir := boot.App.DataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("data_dir", dataDir).Msg("create data dir")
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir, *defaultCfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config bootstrap failed")
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		// the data dir is fixed for the life of the process
		cfg.App.DataDir = dataDir
		return cfg, config.Validate(cfg)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatal().Err(err).Str("path", userCfgPath).Msg("config load failed")
	}
	cfgVal.Store(cfg)
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	dbPath := filepath.Join(dataDir, "jobs.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", dbPath).Msg("open store")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	maintCfg := scheduler.Config{
		CheckpointSchedule: cfg.Maintenance.CheckpointSchedule,
		CleanupSchedule:    cfg.Maintenance.CleanupSchedule,
		RetentionDays:      cfg.Maintenance.RetentionDays,
		DataDir:            dataDir,
	}
	opts := query.Options{
		DefaultPerPage: cfg.Query.DefaultPerPage,
		MaxPerPage:     cfg.Query.MaxPerPage,
		StatsTTL:       time.Duration(cfg.Cache.StatsTTLSeconds) * time.Second,
	}
	if cfg.Cache.RedisURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		rc, err := cache.Dial(dialCtx, cfg.Cache.RedisURL)
		cancel()
		if err != nil {
			// stats still work uncached
			log.Warn().Err(err).Msg("redis unavailable; stats cache disabled")
		} else {
			defer rc.Close()
			opts.Cache = rc
			maintCfg.Cache = rc
		}
	}
	engine := query.New(db, opts)

	hub := events.NewHub()

	maint := scheduler.New(db, hub, maintCfg)
	if err := maint.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler start")
	}
	defer maint.Stop()

	var limiter *httpapi.ClientLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = httpapi.NewClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	handler := httpapi.NewRouter(httpapi.Deps{
		Jobs:        engine,
		Saver:       db,
		DB:          db,
		Hub:         hub,
		DataDir:     dataDir,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		Limiter:     limiter,
	})

	addr := net.JoinHostPort(cfg.App.Bind, strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("listen")
	}
	log.Info().Str("addr", "http://"+addr).Str("db", dbPath).Msg("engine listening")

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// no WriteTimeout: /events streams
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown")
		}
	}
}
