package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tls-constraints/internal/admission"
	"tls-constraints/internal/config"
	"tls-constraints/internal/metrics"
	"tls-constraints/internal/middlewares"
	"tls-constraints/internal/relay"
	"tls-constraints/internal/reservation"
	"tls-constraints/internal/tenants"
	"tls-constraints/internal/upstream"
	"tls-constraints/internal/version"

	"github.com/jmhodges/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	appCtx      *middlewares.AppContext
	httpServer  *http.Server
	debugServer *http.Server
	engine      *relay.Engine
	redisClient *redis.Client
	cancel      context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger := setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	var redisClient *redis.Client
	if cfg.Store.Type == "redis" {
		redisClient = newRedisClient(cfg, logger)

		collector := redisprometheus.NewCollector(metrics.Namespace, "reservations", redisClient)
		if err := prometheus.Register(collector); err != nil {
			logger.Debug("failed to register redis reservations collector: already registered", "error", err)
		}
	}

	store, err := reservation.NewStore(cfg, logger, redisClient)
	if err != nil {
		cancel()
		return nil, err
	}

	registry := tenants.NewRegistry(logger)
	upstreamClient := upstream.NewClient(cfg.Upstream, logger)

	filters := admission.NewChain(cfg, store, logger)
	controller := admission.NewController(filters, logger)

	engine := relay.NewEngine(
		controller,
		registry,
		upstreamClient,
		clock.New(),
		cfg.Relay.QueueSize,
		cfg.Relay.RetryInterval,
		logger,
	)

	appCtx := middlewares.NewAppContext(ctx, cfg, logger, store, registry, engine, upstreamClient)

	router := setupRouter(appCtx)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	var debugServer *http.Server
	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		debugServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler: setupDebugRouter(),
		}
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		appCtx:      appCtx,
		httpServer:  httpServer,
		debugServer: debugServer,
		engine:      engine,
		redisClient: redisClient,
		cancel:      cancel,
	}, nil
}

func newRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.Redis.Sentinel != nil {
		logger.Info("connecting to redis via sentinel",
			"master", cfg.Redis.Sentinel.MasterName,
			"sentinels", cfg.Redis.Sentinel.SentinelAddresses)

		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.Redis.Sentinel.MasterName,
			SentinelAddrs:    cfg.Redis.Sentinel.SentinelAddresses,
			SentinelUsername: cfg.Redis.Sentinel.SentinelUsername,
			SentinelPassword: cfg.Redis.Sentinel.SentinelPassword,
			Username:         cfg.Redis.Username,
			Password:         cfg.Redis.Password,
			DB:               cfg.Redis.ReservationsIndex,
			MinIdleConns:     2,
		})
	}

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.ReservationsIndex,
		MinIdleConns: 2,
	})
}

func (s *Server) Start() error {
	s.logger.Info("tls-constraints starting", "version", version.GetFullVersion())

	go func() {
		if err := s.engine.Run(s.appCtx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("relay engine stopped", "error", err)
			s.cancel()
		}
	}()

	go func() {
		s.logger.Info("Server Started", "port", s.cfg.Server.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", "error", err)
			s.cancel()
		}
	}()

	if s.debugServer != nil {
		go func() {
			s.logger.Info("Debug server starting", "address", s.debugServer.Addr)
			if err := s.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Debug server failed to start", "error", err)
				s.cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		s.logger.Info("Shutdown signal received")
	case <-s.appCtx.Done():
		s.logger.Info("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info("Shutting Down Server")
	s.cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("error closing redis client", "error", err)
		}
	}

	s.logger.Info("Server Exited")
	return nil
}
