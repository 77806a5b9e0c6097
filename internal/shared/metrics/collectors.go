package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors agrupa as métricas de simulação compartilhadas pelos serviços
type Collectors struct {
	Simulations *prometheus.CounterVec   // por formato
	Trials      prometheus.Counter       // trials concluídos
	Duration    *prometheus.HistogramVec // por formato
	CacheHits   *prometheus.CounterVec   // por camada (memo, redis)
	CacheMisses *prometheus.CounterVec
	PresetLoads *prometheus.CounterVec // por fonte (redis, postgres, file)
	Errors      *prometheus.CounterVec // por estágio
}

// NewCollectors cria e registra as métricas no registerer informado.
// prefix diferencia os serviços (ex.: "predictor", "preset_worker").
func NewCollectors(reg prometheus.Registerer, prefix string) *Collectors {
	c := &Collectors{
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_simulations_total", Help: "simulações de torneio executadas",
		}, []string{"format"}),
		Trials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_trials_total", Help: "trials de Monte Carlo concluídos",
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_simulation_duration_seconds",
			Help:    "duração de uma agregação completa",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"format"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_oracle_cache_hits_total", Help: "hits no cache do oráculo",
		}, []string{"layer"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_oracle_cache_misses_total", Help: "misses no cache do oráculo",
		}, []string{"layer"}),
		PresetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_preset_loads_total", Help: "presets resolvidos por fonte",
		}, []string{"source"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_errors_total", Help: "erros por estágio",
		}, []string{"stage"}),
	}
	reg.MustRegister(c.Simulations, c.Trials, c.Duration, c.CacheHits, c.CacheMisses, c.PresetLoads, c.Errors)
	return c
}

// ObserveSimulation registra uma agregação concluída
func (c *Collectors) ObserveSimulation(format string, took time.Duration) {
	c.Simulations.WithLabelValues(format).Inc()
	c.Duration.WithLabelValues(format).Observe(took.Seconds())
}

func (c *Collectors) Hit(layer string)   { c.CacheHits.WithLabelValues(layer).Inc() }
func (c *Collectors) Miss(layer string)  { c.CacheMisses.WithLabelValues(layer).Inc() }
func (c *Collectors) Error(stage string) { c.Errors.WithLabelValues(stage).Inc() }

func (c *Collectors) PresetLoaded(source string) { c.PresetLoads.WithLabelValues(source).Inc() }
