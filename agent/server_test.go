package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"halma/game"
	"halma/searcher"
)

func newTestServer(t *testing.T, engine searcher.Searcher) (*httptest.Server, *Hub) {
	t.Helper()
	hub := NewHub()
	done := make(chan struct{})
	go hub.Run(done)
	srv := httptest.NewServer(NewRouter(New(engine, "test", "", 0), hub))
	t.Cleanup(func() {
		srv.Close()
		close(done)
	})
	return srv, hub
}

func postMove(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/move", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer(t *testing.T) {
	runURL := `"run_url":"https://runner.example/api/run/` + testEnv + `/agent"`

	t.Run("ping", func(t *testing.T) {
		srv, _ := newTestServer(t, searcher.NewGreedy())
		resp, err := http.Get(srv.URL + "/ping")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("move", func(t *testing.T) {
		srv, _ := newTestServer(t, searcher.NewGreedy())
		resp := postMove(t, srv, `{"position":{"A":[[-2,3]]},"info":{`+runURL+`,"action_number":0}}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var m game.Move
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
		require.Equal(t, mv(-2, 3, -2, 4), m)
	})

	t.Run("no legal move answers with a non-move", func(t *testing.T) {
		srv, _ := newTestServer(t, &scripted{})
		resp := postMove(t, srv, `{"position":{"A":[[0,-3],[1,-3]]},"info":{`+runURL+`,"action_number":0}}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var raw [][]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		require.Equal(t, [][]int{{0, -3}, {0, -3}}, raw)
	})

	t.Run("no pegs is a conflict", func(t *testing.T) {
		srv, _ := newTestServer(t, searcher.NewGreedy())
		resp := postMove(t, srv, `{"position":{"B":[[-4,1]]},"info":{`+runURL+`,"action_number":0}}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown env", func(t *testing.T) {
		srv, _ := newTestServer(t, searcher.NewGreedy())
		resp := postMove(t, srv, `{"position":{"A":[[0,-3]]},"info":{"run_url":"/run/elsewhere","action_number":0}}`)
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("malformed requests", func(t *testing.T) {
		srv, _ := newTestServer(t, searcher.NewGreedy())
		require.Equal(t, http.StatusBadRequest, postMove(t, srv, `{"position":`).StatusCode)
		require.Equal(t, http.StatusBadRequest,
			postMove(t, srv, `{"position":{"A":[[0,-3,1]]},"info":{`+runURL+`}}`).StatusCode)
		require.Equal(t, http.StatusBadRequest,
			postMove(t, srv, `{"position":{"D":[[0,-3]]},"info":{`+runURL+`}}`).StatusCode)
	})

	t.Run("decisions reach websocket subscribers", func(t *testing.T) {
		srv, hub := newTestServer(t, searcher.NewGreedy())
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()
		require.Eventually(t, hub.HasClients, time.Second, 10*time.Millisecond)

		resp := postMove(t, srv, `{"position":{"A":[[-2,3]]},"info":{`+runURL+`,"action_number":0}}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg struct {
			Type    string   `json:"type"`
			Payload Decision `json:"payload"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, "decision", msg.Type)
		require.Equal(t, mv(-2, 3, -2, 4), msg.Payload.Move)
		require.Equal(t, testEnv, msg.Payload.Env)
	})
}

func TestDecisionFeedHeartbeat(t *testing.T) {
	hub := NewHub()
	hub.heartbeat = 20 * time.Millisecond
	done := make(chan struct{})
	go hub.Run(done)
	srv := httptest.NewServer(NewRouter(New(searcher.NewGreedy(), "test", testEnv, 0), hub))
	t.Cleanup(func() {
		srv.Close()
		close(done)
	})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, hub.HasClients, time.Second, 10*time.Millisecond)

	resp := postMove(t, srv, `{"position":{"A":[[-2,3]]},"info":{"action_number":0}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "decision", msg.Type)

	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "heartbeat", msg.Type)
	var beat heartbeat
	require.NoError(t, json.Unmarshal(msg.Payload, &beat))
	require.Equal(t, int64(1), beat.Published)
}

func TestServe(t *testing.T) {
	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() {
			errc <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler())
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errc:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("reports a bad address", func(t *testing.T) {
		err := Serve(context.Background(), "127.0.0.1:-1", http.NotFoundHandler())
		require.Error(t, err)
		require.Contains(t, err.Error(), "agent server")
	})
}
