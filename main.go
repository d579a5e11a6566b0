package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"surveyreport/internal/config"
	"surveyreport/internal/db"
	"surveyreport/internal/http/handlers"
	appmw "surveyreport/internal/http/middleware"
	"surveyreport/internal/report"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	handlers.InitPrometheusMetrics()

	// A failed connection is not fatal: the server still starts and every
	// submission is answered with a storage-unavailable error.
	var store report.Store
	dbStore, err := db.Connect(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("could not connect to database, reports will be rejected", zap.Error(err))
	} else {
		store = handlers.InstrumentStore(dbStore)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := dbStore.Close(ctx); err != nil {
				logger.Warn("error closing database", zap.Error(err))
			}
		}()
	}

	asm := report.NewAssembler(store, logger.Named("report"))

	r := router.New()
	r.GET("/healthz", handlers.Healthz)
	r.GET("/metrics", handlers.MetricsHandler())
	r.POST("/final-report", handlers.FinalReport(asm, cfg, logger.Named("http")))

	// Global middleware chain: request id, request logger, CORS, then router.
	handler := appmw.RequestID(handlers.RequestLogger(logger)(appmw.CORS(cfg)(r.Handler)))

	srv := &fasthttp.Server{
		Handler: handler,
		Name:    "surveyreport",
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("surveyreport listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := srv.ShutdownWithContext(context.Background()); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
