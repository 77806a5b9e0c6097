package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/internal/oracle"
	"github.com/radieske/worldcup-predictor/internal/preset"
	"github.com/radieske/worldcup-predictor/internal/preset-worker/consumer"
	"github.com/radieske/worldcup-predictor/internal/preset-worker/pubsub"
	"github.com/radieske/worldcup-predictor/internal/preset-worker/repository"
	"github.com/radieske/worldcup-predictor/internal/preset-worker/scheduler"
	"github.com/radieske/worldcup-predictor/internal/shared/cache"
	"github.com/radieske/worldcup-predictor/internal/shared/config"
	"github.com/radieske/worldcup-predictor/internal/shared/db"
	"github.com/radieske/worldcup-predictor/internal/shared/kafka"
	"github.com/radieske/worldcup-predictor/internal/shared/logger"
	"github.com/radieske/worldcup-predictor/internal/shared/metrics"
	"github.com/radieske/worldcup-predictor/internal/tournament"
)

// refreshFactor multiplica o teto online para as execuções offline
const refreshFactor = 20

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()
	if err := db.Migrate(ctx, pg); err != nil {
		log.Fatal("postgres migrate", zap.Error(err))
	}

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	catalog, err := oracle.LoadCatalog(ctx, pg)
	if err != nil {
		log.Fatal("load team catalog", zap.Error(err))
	}

	// Métricas Prometheus para monitoramento do processamento
	mc := metrics.NewCollectors(prometheus.DefaultRegisterer, "preset_worker")
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "preset_worker_messages_consumed_total", Help: "mensagens consumidas"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "preset_worker_db_writes_total", Help: "escritas no banco (upsert+history)"})
	prometheus.MustRegister(consumed, persist)

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

	// Cache Redis de presets: também é o primeiro elo da cadeia de leitura
	presetCache := preset.NewRedisSource(redisClient, cfg.PresetCacheTTL)
	presets := &preset.Chain{
		Sources: []preset.Source{
			presetCache,
			preset.PostgresSource{DB: pg},
			preset.FileSource{Dir: cfg.PresetDir},
		},
		Log:     log,
		OnHit:   mc.PresetLoaded,
		OnError: mc.Error,
	}

	if kafka.DevEnv(cfg.Env) {
		if err := kafka.EnsureTopics(ctx, cfg.Brokers(), log, cfg.TopicSimRequested, cfg.TopicSimCompleted); err != nil {
			log.Warn("kafka topics not ensured", zap.Error(err))
		}
	}

	// Configura o consumer Kafka (consumer group preset-worker)
	reader := kafka.NewReader(cfg.Brokers(), cfg.TopicSimRequested, "preset-worker")
	defer reader.Close()

	pub := &kafka.Publisher{W: kafka.NewWriter(cfg.Brokers(), cfg.TopicSimCompleted)}
	defer pub.Close()

	proc := &consumer.Processor{
		Log:         log,
		Reader:      reader,
		Engine:      engine,
		Presets:     presets,
		Repo:        repository.NewPostgresRepo(pg),
		Cache:       presetCache,
		Publisher:   pub,
		Broadcaster: pubsub.NewRedisBroadcaster(redisClient, cfg.RedisPubSubChannel),
		MaxSims:     cfg.MaxTournamentSims * refreshFactor,
		DefaultSims: cfg.MaxTournamentSims * refreshFactor,
		OnConsumed:  consumed.Inc,
		OnSimulated: mc.ObserveSimulation,
		OnPersist:   persist.Inc,
		OnError:     mc.Error,
	}

	// Aquecimento dos presets conhecidos e refresh periódico opcional
	requests := &kafka.Publisher{W: kafka.NewWriter(cfg.Brokers(), cfg.TopicSimRequested)}
	defer requests.Close()
	sched := &scheduler.Scheduler{
		Log:       log,
		Publisher: requests,
		Presets:   presets,
		IDs:       preset.KnownIDs(),
		NSims:     cfg.MaxTournamentSims * refreshFactor,
		Interval:  cfg.PresetRefreshInterval,
	}
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			log.Warn("scheduler stopped", zap.Error(err))
		}
	}()

	// Servidor HTTP para métricas e health check
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, log,
		metrics.Check{Name: "postgres", Ping: pg.PingContext},
		metrics.Check{Name: "redis", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	)

	log.Info("preset-worker started",
		zap.String("topic", cfg.TopicSimRequested),
		zap.Int("teams", catalog.Len()),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = msrv.Shutdown(shutdownCtx)
	log.Info("preset-worker stopped")
}
