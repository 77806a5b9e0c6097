package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/internal/oracle"
	"github.com/radieske/worldcup-predictor/internal/predictor-service/dto"
	"github.com/radieske/worldcup-predictor/internal/preset"
	"github.com/radieske/worldcup-predictor/internal/shared/metrics"
	"github.com/radieske/worldcup-predictor/internal/tournament"
)

// PresetLoader resolve um preset pelo id (normalmente um *preset.Chain)
type PresetLoader interface {
	Load(ctx context.Context, id string) (preset.Preset, error)
}

// Publisher envia eventos para o Kafka
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// API expõe os endpoints REST de previsão e simulação
type API struct {
	Log       *zap.Logger
	Catalog   *oracle.Catalog
	Oracle    tournament.Oracle
	Engine    *tournament.Engine
	Presets   PresetLoader
	Publisher Publisher           // nil desabilita o refresh de presets
	WS        http.HandlerFunc    // nil desabilita /ws
	Metrics   *metrics.Collectors // opcional

	MaxSims     int           // teto de n_sims por requisição
	DefaultSims int           // n_sims quando omitido
	RefreshSims int           // n_sims padrão do refresh offline
	SimTimeout  time.Duration // limite de latência de /api/simulate
	Origins     []string      // CORS; vazio = "*"
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.cors)

	r.Get("/", a.root)
	r.Get("/api/teams", a.listTeams)                       // seleções por Elo
	r.Post("/api/predict", a.predict)                      // previsão de uma partida
	r.Post("/api/simulate", a.simulate)                    // Monte Carlo com grupos customizados
	r.Get("/api/presets", a.listPresets)                   // presets conhecidos
	r.Get("/api/presets/{name}", a.getPreset)              // preset + resultado pré-computado
	r.Post("/api/presets/{name}/refresh", a.refreshPreset) // agenda recomputação no worker
	if a.WS != nil {
		r.Get("/ws", a.WS)
	}
	return r
}

// OriginAllowed: lista vazia libera tudo
func OriginAllowed(origins []string, origin string) bool {
	return len(origins) == 0 || slices.Contains(origins, origin)
}

func (a *API) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(a.Origins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && OriginAllowed(a.Origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

func (a *API) countError(stage string) {
	if a.Metrics != nil {
		a.Metrics.Error(stage)
	}
}
