package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/internal/oracle"
	httpapi "github.com/radieske/worldcup-predictor/internal/predictor-service/http"
	"github.com/radieske/worldcup-predictor/internal/predictor-service/ws"
	"github.com/radieske/worldcup-predictor/internal/preset"
	"github.com/radieske/worldcup-predictor/internal/shared/cache"
	"github.com/radieske/worldcup-predictor/internal/shared/config"
	"github.com/radieske/worldcup-predictor/internal/shared/db"
	"github.com/radieske/worldcup-predictor/internal/shared/kafka"
	"github.com/radieske/worldcup-predictor/internal/shared/logger"
	"github.com/radieske/worldcup-predictor/internal/shared/metrics"
	"github.com/radieske/worldcup-predictor/internal/tournament"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// conecta com db Postgres e garante o schema
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if err := db.Migrate(ctx, pg); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// catálogo de seleções (carregado uma vez)
	catalog, err := oracle.LoadCatalog(ctx, pg)
	if err != nil {
		log.Fatal("failed to load team catalog", zap.Error(err))
	}
	log.Info("team catalog loaded", zap.Int("teams", catalog.Len()), zap.Int("available", len(catalog.Available())))

	mc := metrics.NewCollectors(prometheus.DefaultRegisterer, "predictor")

	// oráculo: modelo base + memo + Redis
	orc := &oracle.Cached{
		Inner:   oracle.New(catalog, nil),
		Store:   oracle.RedisStore{R: redisClient},
		TTL:     cfg.OracleCacheTTL,
		Log:     log,
		OnHit:   mc.Hit,
		OnMiss:  mc.Miss,
		OnError: mc.Error,
	}

	engine := tournament.NewEngine(orc, tournament.Options{
		Workers: cfg.SimWorkers,
		Logger:  log,
		OnTrial: mc.Trials.Inc,
	})

	// presets: Redis -> Postgres -> arquivos locais
	presets := &preset.Chain{
		Sources: []preset.Source{
			preset.NewRedisSource(redisClient, cfg.PresetCacheTTL),
			preset.PostgresSource{DB: pg},
			preset.FileSource{Dir: cfg.PresetDir},
		},
		Log:     log,
		OnHit:   mc.PresetLoaded,
		OnError: mc.Error,
	}

	if kafka.DevEnv(cfg.Env) {
		if err := kafka.EnsureTopics(ctx, cfg.Brokers(), log, cfg.TopicSimRequested); err != nil {
			log.Warn("kafka topics not ensured", zap.Error(err))
		}
	}

	// producer Kafka para pedidos de recomputação
	pub := &kafka.Publisher{W: kafka.NewWriter(cfg.Brokers(), cfg.TopicSimRequested)}
	defer pub.Close()
	log.Info("kafka writer ready", zap.String("topic", cfg.TopicSimRequested))

	// websocket: repassa simulation_completed vindos do Redis Pub/Sub
	hub := ws.NewHub(log, func(r *http.Request) bool {
		return httpapi.OriginAllowed(cfg.CORSOrigins, r.Header.Get("Origin"))
	})
	go ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log)

	api := &httpapi.API{
		Log:         log,
		Catalog:     catalog,
		Oracle:      orc,
		Engine:      engine,
		Presets:     presets,
		Publisher:   pub,
		WS:          hub.HandleWS,
		Metrics:     mc,
		MaxSims:     cfg.MaxTournamentSims,
		DefaultSims: cfg.DefaultTournamentSims,
		RefreshSims: cfg.MaxTournamentSims * 20, // mesmo fator do preset-worker
		SimTimeout:  cfg.SimTimeout,
		Origins:     cfg.CORSOrigins,
	}

	// sobe servidor de métricas e health
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, log,
		metrics.Check{Name: "postgres", Ping: pg.PingContext},
		metrics.Check{Name: "redis", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = msrv.Shutdown(shutdownCtx)
	log.Info("predictor-service stopped")
}
