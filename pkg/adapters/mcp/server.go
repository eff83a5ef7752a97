package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/shapeguard"
	"github.com/aretw0/shapeguard/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SchemasURI is the resource listing every registered schema.
const SchemasURI = "shapeguard://schemas"

// ValidateResponse is the structured result of validate_structure.
type ValidateResponse struct {
	Invalid bool   `json:"invalid" jsonschema_description:"True when the input does not conform to the schema"`
	Schema  string `json:"schema" jsonschema_description:"Compact rendering of the schema that was applied"`
}

// ListResponse is the structured result of list_schemas.
type ListResponse struct {
	Schemas []string `json:"schemas" jsonschema_description:"Names of the registered schemas"`
}

// Server exposes a Guard as an MCP Server.
type Server struct {
	guard     *shapeguard.Guard
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(guard *shapeguard.Guard) *Server {
	s := &Server{
		guard:     guard,
		logger:    guard.Logger(),
		mcpServer: server.NewMCPServer("shapeguard-mcp", strings.TrimSpace(shapeguard.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: validate_structure
	validateTool := mcp.NewTool("validate_structure",
		mcp.WithDescription("Check whether a JSON document matches a structural schema. Provide either an inline schema or the name of a registered one."),
		mcp.WithString("input", mcp.Required(), mcp.Description("The JSON document to check")),
		mcp.WithString("schema", mcp.Description("Inline schema declaration as JSON, e.g. {\"kind\":\"array\",\"item\":\"string\"}")),
		mcp.WithString("schema_name", mcp.Description("Name of a registered schema")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_schemas
	listTool := mcp.NewTool("list_schemas",
		mcp.WithDescription("List the names of the registered schemas."),
		mcp.WithOutputSchema[ListResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleList))
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	input, _ := args["input"].(string)
	inline, _ := args["schema"].(string)
	name, _ := args["schema_name"].(string)

	if (inline == "") == (name == "") {
		return ValidateResponse{}, errors.New("exactly one of schema or schema_name is required")
	}

	var sch schema.Schema
	if name != "" {
		found, err := s.guard.Registry().Lookup(ctx, name)
		if err != nil {
			return ValidateResponse{}, fmt.Errorf("schema lookup failed: %w", err)
		}
		sch = found
	} else {
		var raw any
		if err := json.Unmarshal([]byte(inline), &raw); err != nil {
			return ValidateResponse{}, fmt.Errorf("schema is not valid JSON: %w", err)
		}
		// Malformed nodes are kept so evaluation fails closed and logs them.
		sch = schema.Lenient(raw)
	}

	value, err := shapeguard.DecodeJSON([]byte(input))
	if err != nil {
		s.logger.Debug("MCP Validate: input rejected", "error", err, "size", len(input))
		return ValidateResponse{Invalid: true, Schema: sch.String()}, nil
	}

	return ValidateResponse{
		Invalid: s.guard.InvalidStructure(sch, value),
		Schema:  sch.String(),
	}, nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	names, err := s.guard.Registry().Names(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return ListResponse{Schemas: names}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: shapeguard://schemas
	s.mcpServer.AddResource(mcp.NewResource(SchemasURI, "Registered Schemas",
		mcp.WithMIMEType("application/json"),
	), s.readSchemas)
}

func (s *Server) readSchemas(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.guard.Registry().Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	out := make(map[string]schema.Document, len(names))
	for _, name := range names {
		sch, err := s.guard.Registry().Lookup(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
		}
		out[name] = schema.Document{Schema: sch}
	}

	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SchemasURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
