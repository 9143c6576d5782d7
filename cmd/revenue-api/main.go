package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/joelkehle/revenue-readiness/internal/config"
	"github.com/joelkehle/revenue-readiness/internal/events"
	"github.com/joelkehle/revenue-readiness/internal/httpapi"
	"github.com/joelkehle/revenue-readiness/internal/insights"
	"github.com/joelkehle/revenue-readiness/internal/limiter"
	"github.com/joelkehle/revenue-readiness/internal/metrics"
	"github.com/joelkehle/revenue-readiness/internal/render"
	"github.com/joelkehle/revenue-readiness/internal/revenue"
	"github.com/joelkehle/revenue-readiness/internal/scraper"
	"github.com/joelkehle/revenue-readiness/internal/service"
	"github.com/joelkehle/revenue-readiness/internal/store"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	if !cfg.EnvFileLoaded {
		logger.Debug("No .env file found, using environment variables")
	}
	logger.Info("Starting revenue-api...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := initTracing(ctx, cfg.OTLPEndpoint)
	if err != nil {
		logger.WithError(err).Warn("Tracing disabled")
	}

	st, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer st.Close()
	logger.WithField("driver", cfg.DBDriver).Info("Connected to database")

	limiterCfg := limiter.Config{Limit: cfg.FreePreviewLimit, Window: cfg.FreePreviewWindow}
	var quota limiter.Limiter = limiter.NewStoreLimiter(st, limiterCfg)
	if cfg.RedisAddr != "" {
		rdb, err := limiter.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, preview quota kept in the database")
		} else {
			defer rdb.Close()
			quota = limiter.NewRedisLimiter(rdb, limiterCfg)
			logger.WithField("addr", cfg.RedisAddr).Info("Preview quota kept in Redis")
		}
	}

	entry := logrus.NewEntry(logger)
	publisher, err := events.Connect(cfg.NATSURL, entry)
	if err != nil {
		logger.WithError(err).Warn("Event publishing disabled")
		publisher = events.Noop{}
	}
	defer publisher.Close()

	m := metrics.NewDefault()
	svc := service.New(service.Deps{
		Engine:   revenue.NewEngine(),
		Repo:     st,
		Limiter:  quota,
		Fetcher:  newFetcher(cfg, logger),
		Insights: insights.NewAggregator(st, entry),
		Events:   publisher,
		Metrics:  m,
		PDF:      render.NewChromiumPDFRenderer(cfg.ChromeBin),
		Flags:    cfg.Flags,
		Log:      entry,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpapi.NewServer(httpapi.Options{
			Service:     svc,
			Metrics:     m.Handler(),
			Log:         logger,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":         cfg.Port,
			"beta":         cfg.Flags.BetaMode,
			"monetization": cfg.Flags.MonetizationEnabled,
		}).Info("revenue-api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Tracer flush failed")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// newFetcher picks the website enrichment backend. "chrome" renders
// JavaScript-heavy pages; "off" disables enrichment.
func newFetcher(cfg *config.Config, logger *logrus.Logger) scraper.Fetcher {
	switch cfg.ScrapeMode {
	case "off", "none":
		logger.Info("Website enrichment disabled")
		return nil
	case "chrome":
		logger.Info("Website enrichment via headless Chrome")
		return scraper.NewChromeFetcher(cfg.ChromeBin, cfg.ScrapeTimeout)
	default:
		return scraper.NewHTTPFetcher(cfg.ScrapeTimeout)
	}
}
