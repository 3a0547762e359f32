// Package mcp exposes the job service as Model Context Protocol tools.
package mcp

import (
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/internal/mcp/tools"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

const (
	serverName    = "startsmart"
	serverVersion = "0.1.0"
)

// Deps are the services the MCP tools call into
type Deps struct {
	Jobs          job.Service
	Sheets        tools.SheetsWriter // nil when Sheets is not configured
	SpreadsheetID string
}

// NewServer builds an MCP server with every job tool registered
func NewServer(deps Deps, logger *logging.Logger) *sdkmcp.Server {
	if logger == nil {
		logger = logging.Nop()
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	tools.Register(server, logger.With("component", "mcp"),
		tools.WithJobSearch(deps.Jobs),
		tools.WithJobLookup(deps.Jobs),
		tools.WithJobRecommendations(deps.Jobs),
		tools.WithSheetsExport(deps.Sheets, deps.Jobs, deps.SpreadsheetID),
	)

	return server
}

// Handler serves the MCP server over streamable HTTP
func Handler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, nil)
}
