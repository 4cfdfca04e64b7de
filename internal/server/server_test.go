package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron-chat/internal/chat"
	"gridiron-chat/internal/config"
	"gridiron-chat/internal/loader"
	"gridiron-chat/internal/resolve"
	"gridiron-chat/internal/roster"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testReady() *chat.Ready {
	set := roster.Merge([]loader.Record{
		{Source: "off.csv", Fields: []loader.Field{
			{Name: "Name", Value: "John Smith"},
			{Name: "OFF GRD", Value: "85.2"},
			{Name: "Team", Value: "ABC"},
			{Name: "#", Value: "12"},
			{Name: "POS", Value: "QB"},
		}},
	})
	return chat.NewReady(set, resolve.Fuzzy{}, nil)
}

func testServer(t *testing.T, mutate func(*config.ServerConfig)) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig().Server
	cfg.PublicDir = ""
	if mutate != nil {
		mutate(&cfg)
	}
	srv := httptest.NewServer(New(cfg, testReady(), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postChat(t *testing.T, url, body string) (int, chatResponse) {
	t.Helper()
	resp, err := http.Post(url+"/api/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out chatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// ---------------------------------------------------------------------------
// /api/chat
// ---------------------------------------------------------------------------

func TestChat(t *testing.T) {
	srv := testServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantText   string
	}{
		{"Match", `{"message":"smith"}`, http.StatusOK, "Offense Players (1):\n- John Smith (ABC, #12, QB):\n  Overall Grade: 85.2"},
		{"Empty", `{"message":"   "}`, http.StatusBadRequest, chat.MsgEmptyQuery},
		{"MissingField", `{}`, http.StatusBadRequest, chat.MsgEmptyQuery},
		{"NotJSON", `smith`, http.StatusBadRequest, chat.MsgEmptyQuery},
		{"NoMatch", `{"message":"zzqqnonexistent"}`, http.StatusOK, chat.NoMatchMessage("zzqqnonexistent")},
		{"EmptyCategory", `{"message":"smith penalties"}`, http.StatusOK, chat.MsgEmptyCategory},
		{"NoCategory", `{"message":"smith rushing"}`, http.StatusOK, chat.MsgNoCategory},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, out := postChat(t, srv.URL, tc.body)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantText, out.Response)
		})
	}
}

func TestChat_CORS(t *testing.T) {
	srv := testServer(t, nil)
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// ---------------------------------------------------------------------------
// /api/chat/ws
// ---------------------------------------------------------------------------

func TestChatWS(t *testing.T) {
	srv := testServer(t, nil)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("smith offense")))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "ok", reply.Kind)
	assert.Contains(t, reply.Response, "Overall Grade: 85.2")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("")))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "empty_query", reply.Kind)
	assert.Equal(t, chat.MsgEmptyQuery, reply.Response)
}

func wsServer(t *testing.T, pongWait, pingPeriod time.Duration) string {
	t.Helper()
	cfg := config.DefaultConfig().Server
	cfg.PublicDir = ""
	s := New(cfg, testReady(), nil)
	s.pongWait = pongWait
	s.pingPeriod = pingPeriod
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws"
}

func TestChatWS_PingsKeepResponsiveClientAlive(t *testing.T) {
	wsURL := wsServer(t, 200*time.Millisecond, 50*time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var pings int32
	conn.SetPingHandler(func(data string) error {
		atomic.AddInt32(&pings, 1)
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	replies := make(chan wsReply, 1)
	go func() {
		for {
			var r wsReply
			if err := conn.ReadJSON(&r); err != nil {
				close(replies)
				return
			}
			replies <- r
		}
	}()

	// Outlive several pong deadlines before asking anything.
	time.Sleep(600 * time.Millisecond)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("smith")))

	select {
	case r, ok := <-replies:
		require.True(t, ok, "connection closed while client answered pings")
		assert.Equal(t, "ok", r.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply")
	}
	assert.Greater(t, atomic.LoadInt32(&pings), int32(0))
}

func TestChatWS_DropsSilentClient(t *testing.T) {
	wsURL := wsServer(t, 100*time.Millisecond, time.Hour)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// No pings are sent, so no pongs arrive and the read deadline lapses.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		assert.False(t, ne.Timeout(), "server kept the connection open: %v", err)
	}
}

// ---------------------------------------------------------------------------
// health, tools, auth, static
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	srv := testServer(t, nil)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["players"])
}

func TestTools_RequireAPIKey(t *testing.T) {
	srv := testServer(t, func(c *config.ServerConfig) {
		c.RequireAuth = true
		c.APIKey = "secret"
	})

	resp, err := http.Get(srv.URL + "/tools")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	for _, set := range []func(*http.Request){
		func(r *http.Request) { r.Header.Set("X-API-Key", "secret") },
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret") },
	} {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/tools", nil)
		set(req)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		var body struct {
			Tools []toolInfo `json:"tools"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body.Tools, 3)
	}

	// The chat endpoint stays public.
	status, _ := postChat(t, srv.URL, `{"message":"smith"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>chat</h1>"), 0o644))
	srv := testServer(t, func(c *config.ServerConfig) { c.PublicDir = dir })

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, nil)
	postChat(t, srv.URL, `{"message":"smith"}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ---------------------------------------------------------------------------
// MCP tools
// ---------------------------------------------------------------------------

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	s := New(config.DefaultConfig().Server, testReady(), nil)

	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := s.mcp.Connect(ctx, serverT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestMCP_PlayerStats(t *testing.T) {
	res := callTool(t, "player_stats", map[string]any{"query": "smith"})
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "- John Smith (ABC, #12, QB):")

	res = callTool(t, "player_stats", map[string]any{"query": " "})
	assert.True(t, res.IsError)
}

func TestMCP_PlayerSearch(t *testing.T) {
	res := callTool(t, "player_search", map[string]any{"name": "smith"})
	require.False(t, res.IsError)

	var body struct {
		Players []searchHit `json:"players"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &body))
	require.Len(t, body.Players, 1)
	assert.Equal(t, "John Smith", body.Players[0].Name)
	assert.Equal(t, []string{"offense"}, body.Players[0].Categories)
}

func TestMCP_PlayerCount(t *testing.T) {
	res := callTool(t, "player_count", map[string]any{})
	assert.JSONEq(t, `{"players": 1}`, resultText(t, res))
}
