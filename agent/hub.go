package agent

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const feedHeartbeat = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type heartbeat struct {
	Published int64 `json:"published"`
}

type Client struct {
	hub  *Hub
	send chan []byte
}

// Hub fans decisions out to every connected websocket client.
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan Decision
	published atomic.Int64 // decisions fanned out so far
	heartbeat time.Duration
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan Decision, 32),
		heartbeat: feedHeartbeat,
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case d := <-h.broadcast:
			h.published.Add(1)
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "decision", Payload: mustMarshal(d)})
			}
			h.mu.Unlock()
		}
	}
}

// Publish drops the decision when the broadcast queue is full.
func (h *Hub) Publish(d Decision) {
	select {
	case h.broadcast <- d:
	default:
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("decision feed upgrade failed")
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)
	log.Debug().Str("remote", r.RemoteAddr).Msg("decision feed subscribed")

	go func() {
		defer conn.Close()
		if err := client.writeFeed(conn); err != nil {
			log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("decision feed write failed")
		}
	}()

	// Subscribers never send anything; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			log.Debug().Str("remote", r.RemoteAddr).Msg("decision feed unsubscribed")
			return
		}
	}
}

// writeFeed forwards queued decisions to conn. A feed that stays quiet for a full
// heartbeat interval gets a heartbeat with the number of decisions published so far.
func (c *Client) writeFeed(conn *websocket.Conn) error {
	ticker := time.NewTicker(c.hub.heartbeat)
	defer ticker.Stop()
	quietSince := time.Now()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			quietSince = time.Now()
		case <-ticker.C:
			if time.Since(quietSince) < c.hub.heartbeat {
				continue
			}
			beat := wsMessage{Type: "heartbeat", Payload: mustMarshal(heartbeat{Published: c.hub.published.Load()})}
			if err := conn.WriteJSON(beat); err != nil {
				return err
			}
			quietSince = time.Now()
		}
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
