package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/sefaria-community/sefaria-mcp/internal/config"
	"github.com/sefaria-community/sefaria-mcp/internal/logging"
	"github.com/sefaria-community/sefaria-mcp/internal/manuscript"
	"github.com/sefaria-community/sefaria-mcp/internal/search"
	"github.com/sefaria-community/sefaria-mcp/internal/sefaria"
)

const (
	// ServerName is the MCP server name
	ServerName = "sefaria-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	client  *sefaria.Client
	engine  *search.Engine
	fetcher *manuscript.Fetcher
	log     logging.Logger
}

// NewServer creates a new MCP server instance against the configured
// upstream host.
func NewServer(cfg config.Config, log logging.Logger) *Server {
	client := sefaria.NewClient(cfg.BaseURL, cfg.HTTPTimeout, log)

	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		client:  client,
		engine:  search.NewEngine(client, log),
		fetcher: manuscript.NewFetcher(client, log),
		log:     log,
	}

	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Text retrieval
	s.mcp.AddTool(getTextTool(), s.handleGetText)
	s.mcp.AddTool(getEnglishTranslationsTool(), s.handleGetEnglishTranslations)
	s.mcp.AddTool(getIndexTool(), s.handleGetIndex)
	s.mcp.AddTool(getLinksTool(), s.handleGetLinks)
	s.mcp.AddTool(getNameTool(), s.handleGetName)
	s.mcp.AddTool(getShapeTool(), s.handleGetShape)
	s.mcp.AddTool(getTopicsTool(), s.handleGetTopics)

	// Search
	s.mcp.AddTool(searchTextsTool(), s.handleSearchTexts)
	s.mcp.AddTool(searchInBookTool(), s.handleSearchInBook)
	s.mcp.AddTool(searchDictionariesTool(), s.handleSearchDictionaries)
	s.mcp.AddTool(getSearchPathFilterTool(), s.handleGetSearchPathFilter)

	// Manuscripts
	s.mcp.AddTool(getManuscriptInfoTool(), s.handleGetManuscriptInfo)
	s.mcp.AddTool(getManuscriptTool(), s.handleGetManuscript)

	// Calendar
	s.mcp.AddTool(getSituationalInfoTool(), s.handleGetSituationalInfo)
}
