package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Snapshot is one published frame of viewer state, serialized as JSON for
// every connected client.
type Snapshot struct {
	T         int64   `json:"t"`
	Azimuth   float32 `json:"azimuth"`
	Polar     float32 `json:"polar"`
	Radius    float32 `json:"radius"`
	Mode      string  `json:"mode"`
	LoadState string  `json:"load_state"`
}

const statusPage = `<!DOCTYPE html>
<html>
<head><title>Showcase Preview</title></head>
<body>
<h1>Showcase Preview</h1>
<pre id="state">waiting...</pre>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (e) => {
  document.getElementById("state").textContent = JSON.stringify(JSON.parse(e.data), null, 2);
};
</script>
</body>
</html>`

// Publisher streams viewer state snapshots to any number of websocket
// clients. It serves a small status page on "/" and the stream on "/ws".
type Publisher struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	server  *http.Server
}

// NewPublisher creates a Publisher with no clients and no running server.
func NewPublisher() *Publisher {
	return &Publisher{
		clients: map[*websocket.Conn]bool{},
	}
}

// Start serves the status page and websocket endpoint on addr. It returns
// immediately; serving happens on a background goroutine.
func (p *Publisher) Start(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", p.handleIndex)
	mux.HandleFunc("/ws", p.HandleWS)

	p.server = &http.Server{Addr: addr, Handler: mux}
	go func() {
		log.Info().Str("addr", addr).Msg("preview server listening")
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("preview server stopped")
		}
	}()
}

func (p *Publisher) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(statusPage))
}

// HandleWS upgrades the connection and registers the client for snapshot
// broadcasts. The client is dropped on its first read error.
func (p *Publisher) HandleWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.clients[conn] = true
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			delete(p.clients, conn)
			p.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish broadcasts a snapshot to all connected clients. Slow clients are
// bounded by a short write deadline rather than blocking the render loop.
func (p *Publisher) Publish(s Snapshot) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.clients) == 0 {
		return
	}

	s.T = time.Now().UnixNano()
	b, _ := json.Marshal(s)
	for c := range p.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write snapshot")
		}
	}
}

// ClientCount returns the number of connected clients.
func (p *Publisher) ClientCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}

// Close shuts down the server and disconnects all clients.
func (p *Publisher) Close() error {
	p.mu.Lock()
	for c := range p.clients {
		c.Close()
		delete(p.clients, c)
	}
	p.mu.Unlock()

	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}
