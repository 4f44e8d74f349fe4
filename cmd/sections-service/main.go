package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-audio-sections/internal/config"
	"github.com/pribylovaa/go-audio-sections/internal/mapper"
	"github.com/pribylovaa/go-audio-sections/internal/metrics"
	"github.com/pribylovaa/go-audio-sections/internal/remote"
	"github.com/pribylovaa/go-audio-sections/internal/service"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
	"github.com/pribylovaa/go-audio-sections/internal/storage/postgres"
	"github.com/pribylovaa/go-audio-sections/internal/storage/sqlite"
	sectionshttp "github.com/pribylovaa/go-audio-sections/internal/transport/http"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting sections-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := openStorage(dbCtx, cfg.Storage)
	dbCancel()
	if err != nil {
		log.Error("storage_open_failed",
			slog.String("driver", cfg.Storage.Driver),
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("storage_opened", slog.String("driver", cfg.Storage.Driver))

	client, err := remote.New(&http.Client{Timeout: cfg.Remote.Timeout}, cfg.Remote.HomeURL, cfg.Remote.SearchURL)
	if err != nil {
		log.Error("remote_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	mtr := metrics.New(prometheus.DefaultRegisterer)
	mp := mapper.New()

	mediator := service.NewMediator(client, mp, store, service.MediatorOptions{
		AnchorAware: cfg.Paging.AnchorAware,
		Metrics:     mtr,
	})
	pager := service.NewPager(mediator, store, service.PagerOptions{
		DefaultLimit: cfg.LimitsConfig.Default,
		MaxLimit:     cfg.LimitsConfig.Max,
	})
	defer pager.Close()

	search := service.NewSearch(client, mp, mtr)
	log.Info("service_initialized", slog.Bool("anchor_aware", cfg.Paging.AnchorAware))

	var ready atomic.Bool

	apiHandler := sectionshttp.NewRouter(pager, search, sectionshttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
		Ready:   ready.Load,
	})

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           apiHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.Metrics.Addr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("http_listen_start", slog.String("addr", httpAddr))

	metricsLn, err := net.Listen("tcp", metricsSrv.Addr)
	if err != nil {
		log.Error("metrics_listen_failed", slog.String("addr", metricsSrv.Addr), slog.String("err", err.Error()))
		_ = ln.Close()
		os.Exit(1)
	}
	log.Info("metrics_listen_start", slog.String("addr", metricsSrv.Addr))

	serveErrCh := make(chan error, 2)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		if err := metricsSrv.Serve(metricsLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- fmt.Errorf("metrics: %w", err)
		}
	}()

	// Первичное наполнение кэша. Ошибка не фатальна: состояние REFRESH
	// уходит в error и чинится через POST /sections/retry.
	go func() {
		res, err := pager.Refresh(rootCtx)
		if err != nil {
			log.Warn("initial_refresh_failed", slog.String("err", err.Error()))
			return
		}
		log.Info("initial_refresh_ok", slog.Bool("end_of_pagination", res.EndOfPaginationReached))
	}()

	ready.Store(true)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		log.Error("serve_failed", slog.String("err", err.Error()))
	}

	ready.Store(false)
	pager.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("metrics_shutdown_incomplete", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
}

// openStorage открывает кэш выбранного драйвера.
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.URL)
	default:
		return sqlite.New(ctx, cfg.SQLitePath)
	}
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
