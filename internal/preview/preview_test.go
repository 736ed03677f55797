package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestClient(t *testing.T, p *Publisher) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(p.HandleWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Registration happens in the upgrade handler, but the dial response can
	// race it slightly.
	require.Eventually(t, func() bool { return p.ClientCount() > 0 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestPublishReachesClient(t *testing.T) {
	p := NewPublisher()
	conn := dialTestClient(t, p)

	p.Publish(Snapshot{Azimuth: 1.5, Polar: 1.57, Radius: 5, Mode: "AutoRotating", LoadState: "Loaded"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.InDelta(t, 1.5, got.Azimuth, 1e-6)
	assert.Equal(t, "AutoRotating", got.Mode)
	assert.Equal(t, "Loaded", got.LoadState)
	assert.NotZero(t, got.T)
}

func TestClientRemovedOnDisconnect(t *testing.T) {
	p := NewPublisher()
	server := httptest.NewServer(http.HandlerFunc(p.HandleWS))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return p.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return p.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestPublishWithNoClientsIsNoOp(t *testing.T) {
	p := NewPublisher()
	p.Publish(Snapshot{Mode: "Dragging"})
	assert.Equal(t, 0, p.ClientCount())
}

func TestMultipleClientsAllReceive(t *testing.T) {
	p := NewPublisher()
	first := dialTestClient(t, p)
	second := dialTestClient(t, p)
	require.Eventually(t, func() bool { return p.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	p.Publish(Snapshot{Mode: "AwaitingResume"})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var got Snapshot
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "AwaitingResume", got.Mode)
	}
}
