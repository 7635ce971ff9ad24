package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/dicenotation/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// failingTransport returns an error when the server tries to connect.
type failingTransport struct{}

func (failingTransport) Connect(context.Context) (mcp.Connection, error) {
	return nil, errors.New("connect failed")
}

func connectClient(t *testing.T, transport mcp.Transport) *mcp.ClientSession {
	t.Helper()
	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func decodeStructured[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	var out T
	data, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

// TestRunWithTransportServesAndStops ensures runWithTransport serves tools and exits on cancel.
func TestRunWithTransportServesAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- runWithTransport(ctx, Config{}, serverTransport)
	}()

	session := connectClient(t, clientTransport)

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{domain.DiceParseToolName, domain.DiceRollToolName, domain.DiceTransformToolName} {
		if !names[want] {
			t.Fatalf("tools = %v, missing %q", names, want)
		}
	}

	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestCallDiceTools(t *testing.T) {
	server, err := New(Config{EmptyCount: 1})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() { _ = server.serveWithTransport(ctx, serverTransport) }()
	session := connectClient(t, clientTransport)

	t.Run("parse", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      domain.DiceParseToolName,
			Arguments: map[string]any{"notation": "d6+2"},
		})
		if err != nil {
			t.Fatalf("call tool: %v", err)
		}
		if result.IsError {
			t.Fatalf("tool returned error: %+v", result.Content)
		}
		out := decodeStructured[domain.DiceParseResult](t, result)
		if out.Spec.Count != 1 || out.Spec.Faces != 6 || out.Spec.Bonus != 2 {
			t.Fatalf("spec = %+v, want count 1 faces 6 bonus 2", out.Spec)
		}
	})

	t.Run("roll with seed", func(t *testing.T) {
		args := map[string]any{"notation": "(3d6)x2", "rng": map[string]any{"seed": 99}}
		first, err := session.CallTool(ctx, &mcp.CallToolParams{Name: domain.DiceRollToolName, Arguments: args})
		if err != nil {
			t.Fatalf("call tool: %v", err)
		}
		second, err := session.CallTool(ctx, &mcp.CallToolParams{Name: domain.DiceRollToolName, Arguments: args})
		if err != nil {
			t.Fatalf("call tool: %v", err)
		}
		a := decodeStructured[domain.DiceRollResult](t, first)
		b := decodeStructured[domain.DiceRollResult](t, second)
		if len(a.Rolls) != 1 || len(a.Rolls[0].Totals) != 2 {
			t.Fatalf("rolls = %+v, want one roll of two sets", a.Rolls)
		}
		for i := range a.Rolls[0].Totals {
			if a.Rolls[0].Totals[i] != b.Rolls[0].Totals[i] {
				t.Fatalf("totals differ for same seed: %v vs %v", a.Rolls[0].Totals, b.Rolls[0].Totals)
			}
		}
		if a.Rng == nil || a.Rng.SeedUsed != 99 {
			t.Fatalf("rng = %+v, want seed 99", a.Rng)
		}
	})

	t.Run("transform", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name: domain.DiceTransformToolName,
			Arguments: map[string]any{
				"notation":   "1d6",
				"operations": []map[string]any{{"op": "add", "value": 4}, {"op": "scale_sets", "value": 1}},
			},
		})
		if err != nil {
			t.Fatalf("call tool: %v", err)
		}
		out := decodeStructured[domain.DiceTransformResult](t, result)
		if out.Spec.Notation != "(1d6+4)x2" {
			t.Fatalf("notation = %q, want %q", out.Spec.Notation, "(1d6+4)x2")
		}
	})

	t.Run("invalid notation", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      domain.DiceRollToolName,
			Arguments: map[string]any{"notation": "3x6"},
		})
		if err == nil && !result.IsError {
			t.Fatal("expected tool error for invalid notation")
		}
	})

	t.Run("oversized roll keeps serving", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      domain.DiceRollToolName,
			Arguments: map[string]any{"notation": "9223372036854775807d6^+1"},
		})
		if err == nil && !result.IsError {
			t.Fatal("expected tool error for oversized roll")
		}
		next, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      domain.DiceRollToolName,
			Arguments: map[string]any{"notation": "1d6"},
		})
		if err != nil {
			t.Fatalf("call tool: %v", err)
		}
		if next.IsError {
			t.Fatalf("tool returned error: %+v", next.Content)
		}
	})
}

func TestHTTPHandler(t *testing.T) {
	server, err := New(Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	httpServer := httptest.NewServer(server.HTTPHandler())
	defer httpServer.Close()

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(httpServer.URL + "/mcp/health")
		if err != nil {
			t.Fatalf("get health: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("health rejects post", func(t *testing.T) {
		resp, err := http.Post(httpServer.URL+"/mcp/health", "text/plain", nil)
		if err != nil {
			t.Fatalf("post health: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
		}
	})

	t.Run("streamable client", func(t *testing.T) {
		session := connectClient(t, &mcp.StreamableClientTransport{Endpoint: httpServer.URL + "/mcp"})
		result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      domain.DiceRollToolName,
			Arguments: map[string]any{"notation": "2d6", "rng": map[string]any{"seed": 5}},
		})
		if err != nil {
			t.Fatalf("call tool: %v", err)
		}
		if result.IsError {
			t.Fatalf("tool returned error: %+v", result.Content)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(httpServer.URL + "/metrics")
		if err != nil {
			t.Fatalf("get metrics: %v", err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read metrics: %v", err)
		}
		if !strings.Contains(string(body), "dicenotation_rolls_total") {
			t.Fatalf("metrics body missing dicenotation_rolls_total:\n%s", body)
		}
	})
}

// TestRunHTTPTransportStops ensures the HTTP transport shuts down on cancel.
func TestRunHTTPTransportStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- Run(ctx, Config{Transport: TransportHTTP, HTTPAddr: "127.0.0.1:0"})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestRunHTTPTransportListenError(t *testing.T) {
	original := listenTCP
	t.Cleanup(func() { listenTCP = original })
	listenTCP = func(string, string) (net.Listener, error) {
		return nil, errors.New("address in use")
	}

	err := Run(context.Background(), Config{Transport: TransportHTTP})
	if err == nil || !strings.Contains(err.Error(), "address in use") {
		t.Fatalf("error = %v, want listen error", err)
	}
}

// TestRunUnsupportedTransport ensures Run rejects unknown transport kinds.
func TestRunUnsupportedTransport(t *testing.T) {
	err := Run(context.Background(), Config{Transport: "websocket"})
	if err == nil {
		t.Fatal("expected error for unsupported transport")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("expected 'not supported' in error, got: %v", err)
	}
}

// TestServeWithTransportErrors ensures serveWithTransport reports misconfiguration.
func TestServeWithTransportErrors(t *testing.T) {
	var nilServer *Server
	if err := nilServer.serveWithTransport(context.Background(), &mcp.StdioTransport{}); err == nil {
		t.Fatal("expected error for nil server")
	}

	emptyServer := &Server{}
	if err := emptyServer.serveWithTransport(context.Background(), &mcp.StdioTransport{}); err == nil {
		t.Fatal("expected error for missing mcp server")
	}

	server, err := New(Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := server.serveWithTransport(context.Background(), failingTransport{}); err == nil {
		t.Fatal("expected error from failing transport")
	}
}

func TestAddMCPToolRejectsUnknownHandler(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "1.0"}, nil)
	err := addMCPTool(server, &mcp.Tool{Name: "noop"}, func() {})
	if err == nil || !strings.Contains(err.Error(), "noop") {
		t.Fatalf("error = %v, want unsupported handler error", err)
	}
	if err := registerTool(mcpServerRegistrationAdapter{server: server}, nil, nil); err == nil {
		t.Fatal("expected error for nil tool")
	}
}
