package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/worldcup-predictor/pkg/contracts/events"
)

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// send manda a mensagem e espera o pong, garantindo que o hub já processou
func send(t *testing.T, conn *websocket.Conn, msg ClientMsg) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	var pong map[string]string
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["type"])
}

func allowAll(*http.Request) bool { return true }

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	h := NewHub(zap.NewNop(), allowAll)
	conn := dial(t, h)

	send(t, conn, ClientMsg{Type: "subscribe", PresetID: "wc2026"})
	assert.Equal(t, 1, h.Subscribers("wc2026"))

	h.Broadcast(events.Broadcast{PresetID: "wc2022", Type: "simulation_completed", Payload: json.RawMessage(`{"n_sims":1}`)})
	h.Broadcast(events.Broadcast{PresetID: "wc2026", Type: "simulation_completed", Payload: json.RawMessage(`{"n_sims":2}`)})

	var got events.Broadcast
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "wc2026", got.PresetID)
	assert.JSONEq(t, `{"n_sims":2}`, string(got.Payload))
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub(zap.NewNop(), allowAll)
	conn := dial(t, h)

	send(t, conn, ClientMsg{Type: "subscribe", PresetID: "wc2022"})
	send(t, conn, ClientMsg{Type: "unsubscribe", PresetID: "wc2022"})
	assert.Zero(t, h.Subscribers("wc2022"))

	send(t, conn, ClientMsg{Type: "subscribe"}) // sem preset: ignorado
	assert.Zero(t, h.Subscribers(""))
}

func TestRelay(t *testing.T) {
	h := NewHub(zap.NewNop(), allowAll)
	conn := dial(t, h)
	send(t, conn, ClientMsg{Type: "subscribe", PresetID: "wc2022"})

	ch := make(chan *redis.Message, 3)
	ch <- &redis.Message{Payload: "garbage"}
	ch <- nil
	ch <- &redis.Message{Payload: `{"presetId":"wc2022","type":"simulation_completed","payload":{"run_id":"r1"}}`}
	close(ch)

	closed := make(chan struct{})
	relay(context.Background(), ch, h, zap.NewNop(), func() { close(closed) })
	<-closed

	var got events.Broadcast
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.JSONEq(t, `{"run_id":"r1"}`, string(got.Payload))
}
