package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/internal/oracle"
	"github.com/radieske/worldcup-predictor/internal/predictor-service/dto"
	"github.com/radieske/worldcup-predictor/internal/preset"
	"github.com/radieske/worldcup-predictor/internal/tournament"
	"github.com/radieske/worldcup-predictor/pkg/contracts/events"
)

func (a *API) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "World Cup Predictor API"})
}

// listTeams retorna as seleções com dados de elenco, maior Elo primeiro
func (a *API) listTeams(w http.ResponseWriter, _ *http.Request) {
	teams := a.Catalog.Available()
	out := make([]dto.TeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, dto.TeamResponse{
			Name:      t.Name,
			ISOCode:   t.ISOCode,
			EloRating: math.Round(t.Rating()*10) / 10,
			FlagURL:   oracle.FlagURL(t.ISOCode),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.HomeTeam == "" || req.AwayTeam == "" {
		writeError(w, http.StatusBadRequest, "home_team and away_team are required")
		return
	}

	mc := tournament.DefaultMatchContext
	if req.IsNeutral != nil {
		mc.IsNeutral = *req.IsNeutral
	}
	if req.IsWorldCup != nil {
		mc.IsWorldCup = *req.IsWorldCup
	}

	p, err := a.Oracle.Predict(r.Context(), req.HomeTeam, req.AwayTeam, mc)
	if err != nil {
		if errors.Is(err, tournament.ErrTeamDataMissing) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Missing data for one or both teams: %s, %s", req.HomeTeam, req.AwayTeam))
			return
		}
		a.countError("predict")
		writeError(w, http.StatusInternalServerError, "Prediction failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// simulate roda o Monte Carlo dentro de SimTimeout; estourado o tempo,
// devolve as contagens dos trials já concluídos.
func (a *API) simulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	format := tournament.Format32
	if req.Format != "" {
		format = tournament.Format(req.Format)
	}
	groups, err := tournament.NormalizeGroups(req.Groups)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n := a.DefaultSims
	if req.NSims != nil {
		n = *req.NSims
	}
	n = min(n, a.MaxSims)

	ctx, cancel := context.WithTimeout(r.Context(), a.SimTimeout)
	defer cancel()

	start := time.Now()
	res, err := a.Engine.SimulateTournament(ctx, groups, format, n)
	partial := false
	switch {
	case err == nil:
	case tournament.IsInputError(err):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded) && res.NSims > 0:
		partial = true
		a.Log.Warn("simulation hit time limit", zap.Int("requested", n), zap.Int("completed", res.NSims))
	case errors.Is(err, context.DeadlineExceeded):
		a.countError("simulate_timeout")
		writeError(w, http.StatusGatewayTimeout, "simulation timed out")
		return
	case errors.Is(err, context.Canceled):
		return // cliente desconectou
	default:
		a.countError("simulate")
		a.Log.Error("simulation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Simulation failed: "+err.Error())
		return
	}

	if a.Metrics != nil {
		a.Metrics.ObserveSimulation(string(format), time.Since(start))
	}
	writeJSON(w, http.StatusOK, dto.SimulateResponse{
		Champions:     res.Champions,
		Finalists:     res.Finalists,
		Semifinalists: res.Semifinalists,
		NSims:         res.NSims,
		Requested:     n,
		Partial:       partial,
	})
}

func (a *API) listPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]preset.Info{"presets": preset.Known})
}

func (a *API) getPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := preset.Lookup(name); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Preset '%s' not found", name))
		return
	}

	p, err := a.Presets.Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, preset.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Preset '%s' data not found", name))
			return
		}
		a.countError("preset")
		writeError(w, http.StatusInternalServerError, "Failed to load preset: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// refreshPreset agenda a recomputação do preset no preset-worker
func (a *API) refreshPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := preset.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Preset '%s' not found", name))
		return
	}
	if a.Publisher == nil {
		writeError(w, http.StatusServiceUnavailable, "refresh disabled")
		return
	}

	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.NSims <= 0 {
		req.NSims = a.RefreshSims
	}

	ev := events.SimulationRequested{
		RunID:       uuid.NewString(),
		PresetID:    info.ID,
		Format:      info.Format,
		NSims:       req.NSims,
		Seed:        req.Seed,
		RequestedAt: time.Now().UTC(),
	}
	if err := a.Publisher.PublishJSON(r.Context(), info.ID, ev); err != nil {
		a.countError("publish")
		a.Log.Error("publish simulation_requested failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to enqueue refresh")
		return
	}
	writeJSON(w, http.StatusAccepted, dto.RefreshResponse{RunID: ev.RunID, PresetID: info.ID, Status: "queued"})
}
