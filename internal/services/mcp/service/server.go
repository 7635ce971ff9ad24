package service

import (
	"fmt"

	"github.com/louisbranch/dicenotation/internal/dice"
	"github.com/louisbranch/dicenotation/internal/platform/telemetry/metrics"
	"github.com/louisbranch/dicenotation/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "dicenotation MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
	// defaultHTTPAddr keeps the HTTP transport on loopback unless configured.
	defaultHTTPAddr = "localhost:8081"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP and exposes /metrics.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the listen address for TransportHTTP. Defaults to localhost:8081.
	HTTPAddr string
	// EmptyCount is the dice count used when notation omits it, as in "d6".
	EmptyCount int
}

// Server hosts the MCP server and the metrics its tools record.
type Server struct {
	mcpServer *mcp.Server
	metrics   *metrics.Metrics
}

// New creates an MCP server with the dice tools registered.
func New(cfg Config) (*Server, error) {
	return newServer(domain.Env{
		Metrics:      metrics.New(),
		ParseOptions: []dice.ParseOption{dice.WithEmptyCount(cfg.EmptyCount)},
	})
}

func newServer(env domain.Env) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	if err := registerDiceTools(mcpServerRegistrationAdapter{server: mcpServer}, env); err != nil {
		return nil, fmt.Errorf("register dice tools: %w", err)
	}
	return &Server{mcpServer: mcpServer, metrics: env.Metrics}, nil
}
