package events

import (
	"encoding/json"
	"time"
)

// Evento publicado no tópico "simulation_requested"
// Groups vazio: o worker resolve os grupos pelo PresetID
type SimulationRequested struct {
	RunID       string              `json:"run_id"`
	PresetID    string              `json:"preset_id"`
	Format      string              `json:"format,omitempty"` // "32_team" | "48_team"
	Groups      map[string][]string `json:"groups,omitempty"`
	NSims       int                 `json:"n_sims"`
	Seed        *uint64             `json:"seed,omitempty"`
	RequestedAt time.Time           `json:"requested_at"`
}

// Evento emitido pelo preset-worker depois de persistir o resultado
type SimulationCompleted struct {
	RunID         string              `json:"run_id"`
	PresetID      string              `json:"preset_id"`
	Format        string              `json:"format"`
	Groups        map[string][]string `json:"groups"`
	Champions     map[string]int      `json:"champions"`
	Finalists     map[string]int      `json:"finalists"`
	Semifinalists map[string]int      `json:"semifinalists"`
	NSims         int                 `json:"n_sims"`
	DurationMs    int64               `json:"duration_ms"`
	CompletedAt   time.Time           `json:"completed_at"`
}

// Broadcast é o envelope publicado no Redis Pub/Sub e repassado pelo websocket
// aos clientes inscritos no preset
type Broadcast struct {
	PresetID string          `json:"presetId"`
	Type     string          `json:"type"` // "simulation_completed"
	Payload  json.RawMessage `json:"payload"`
}
