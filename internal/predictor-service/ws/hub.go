package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/pkg/contracts/events"
)

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// PresetID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type     string `json:"type"`
	PresetID string `json:"presetId"`
}

// client serializa escritas: gorilla não aceita writers concorrentes na mesma conexão
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas por preset
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu   sync.RWMutex
	subs map[string]map[*client]struct{} // presetID -> clientes
}

// NewHub cria o Hub com política de origem (CORS) customizada
func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS mantém a conexão: subscribe/unsubscribe por preset e ping/pong
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.subscribe(msg.PresetID, c)
		case "unsubscribe":
			h.unsubscribe(msg.PresetID, c)
		case "ping":
			_ = c.write([]byte(`{"type":"pong"}`))
		}
	}

	// desconectou: sai de todas as assinaturas
	h.mu.Lock()
	for id, set := range h.subs {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, id)
		}
	}
	h.mu.Unlock()
}

func (h *Hub) subscribe(presetID string, c *client) {
	if presetID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[presetID]; !ok {
		h.subs[presetID] = make(map[*client]struct{})
	}
	h.subs[presetID][c] = struct{}{}
}

func (h *Hub) unsubscribe(presetID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[presetID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, presetID)
		}
	}
}

// Subscribers conta os clientes inscritos em um preset
func (h *Hub) Subscribers(presetID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[presetID])
}

// Broadcast envia a mensagem para todos os inscritos no preset
func (h *Hub) Broadcast(msg events.Broadcast) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.subs[msg.PresetID]))
	for c := range h.subs[msg.PresetID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	b, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("ws broadcast marshal failed", zap.Error(err))
		return
	}
	for _, c := range targets {
		if err := c.write(b); err != nil {
			h.log.Debug("ws write failed", zap.Error(err))
		}
	}
}
