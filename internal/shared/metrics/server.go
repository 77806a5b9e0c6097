package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Check é uma dependência verificada pelo /healthz
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Handler monta o mux de /metrics e /healthz. As checagens rodam em ordem
// e a primeira falha responde 503.
func Handler(g prometheus.Gatherer, checks ...Check) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, c := range checks {
			if err := c.Ping(ctx); err != nil {
				http.Error(w, fmt.Sprintf("%s not healthy: %v", c.Name, err), http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// StartMetricsServer sobe, numa goroutine, o servidor de /metrics e /healthz
// usando o registry padrão do Prometheus.
func StartMetricsServer(port string, log *zap.Logger, checks ...Check) *http.Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           Handler(prometheus.DefaultGatherer, checks...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics/health listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
