package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"hello-service/config"
	"hello-service/middleware/accesslog"
	"hello-service/middleware/metrics"
	"hello-service/middleware/ratelimit"
	"hello-service/middleware/ratelimit/domain"
	"hello-service/middleware/ratelimit/infra"
	"hello-service/server"
	"hello-service/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// run monta a cadeia de middlewares, abre os listeners e serve até ctx acabar.
// onReady, se não nil, recebe os endereços efetivos (público e métricas).
func run(ctx context.Context, cfg config.Config, log *zap.Logger, onReady func(public, admin net.Addr)) error {
	// janitor e clientes não sobrevivem a um retorno antecipado
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mws []func(http.Handler) http.Handler
	mws = append(mws, accesslog.Middleware(log))

	reg := prometheus.NewRegistry()
	if cfg.MetricsAddr != "" {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := metrics.New(reg, "hello_service")
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		mws = append(mws, m.Middleware)
	}

	mws = append(mws, ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Max:            cfg.Concurrency.Max,
		AcquireTimeout: cfg.Concurrency.Timeout,
		Logger:         log,
	}))

	if cfg.Rate.Enabled {
		store := infra.NewStore(cfg.Rate.RPS, cfg.Rate.Burst)
		store.StartJanitor(ctx, log)

		var stats infra.MultiStats
		if cfg.MetricsAddr != "" {
			ps, err := infra.NewPrometheusStatsStore(reg, "hello_service")
			if err != nil {
				return fmt.Errorf("ratelimit metrics: %w", err)
			}
			stats = append(stats, ps)
		}
		if cfg.Stats.Enabled {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Stats.RedisAddr,
				Password: cfg.Stats.RedisPassword,
				DB:       cfg.Stats.RedisDB,
			})
			defer func() { _ = rdb.Close() }()

			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			err := rdb.Ping(pingCtx).Err()
			pingCancel()
			if err != nil {
				return fmt.Errorf("redis stats ping: %w", err)
			}

			stats = append(stats, infra.NewRedisStatsStore(rdb,
				infra.WithStatsPrefix(cfg.Stats.Prefix),
				infra.WithStatsTTL(cfg.Stats.TTL),
				infra.WithStatsBucket(cfg.Stats.Bucket),
				infra.WithStatsTrackKeys(cfg.Stats.TrackKeys),
			))
		}

		var statsStore domain.StatsStore
		if len(stats) > 0 {
			statsStore = stats
		}

		mws = append(mws, ratelimit.Middleware(ratelimit.Options{
			Store:               store,
			Stats:               statsStore,
			KeyHeader:           cfg.Rate.KeyHeader,
			TrustXForwardedFor:  cfg.Rate.TrustXFF,
			RetryAfter:          cfg.Rate.RetryAfter,
			AddRateLimitHeaders: cfg.Rate.AddHeaders,
			SkipPaths:           []string{service.HealthPath},
			Logger:              log,
		}))
	}

	h := service.NewRouter(service.Options{
		Name:        cfg.ServiceName,
		Version:     cfg.ServiceVersion,
		Middlewares: mws,
	})

	srv, err := server.Listen(cfg.ListenAddr(), h,
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithLogger(log),
	)
	if err != nil {
		return err
	}

	log.Info("listening",
		zap.String("addr", srv.Addr().String()),
		zap.String("version", cfg.ServiceVersion),
	)
	log.Info("rate",
		zap.Bool("enabled", cfg.Rate.Enabled),
		zap.Float64("rps", cfg.Rate.RPS),
		zap.Int("burst", cfg.Rate.Burst),
		zap.String("keyHeader", cfg.Rate.KeyHeader),
		zap.Bool("trustXFF", cfg.Rate.TrustXFF),
		zap.Bool("stats", cfg.Stats.Enabled),
	)
	log.Info("concurrency",
		zap.Int("max", cfg.Concurrency.Max),
		zap.Duration("acquireTimeout", cfg.Concurrency.Timeout),
	)

	var admin *server.Server
	if cfg.MetricsAddr != "" {
		admin, err = server.Listen(cfg.MetricsAddr, metricsMux(reg),
			server.WithShutdownTimeout(cfg.ShutdownTimeout),
			server.WithLogger(log.Named("admin")),
		)
		if err != nil {
			_ = srv.Close()
			return fmt.Errorf("metrics listener: %w", err)
		}
		log.Info("metrics listening", zap.String("addr", admin.Addr().String()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx) })
	var adminAddr net.Addr
	if admin != nil {
		adminAddr = admin.Addr()
		g.Go(func() error { return admin.Serve(gctx) })
	}

	if onReady != nil {
		onReady(srv.Addr(), adminAddr)
	}
	return g.Wait()
}

func metricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler(reg))
	return mux
}
