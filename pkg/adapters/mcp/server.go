// Package mcp exposes a braid store as a Model Context Protocol server, so
// agent hosts can read combined state and dispatch actions as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/noahunallar/braid"
	"github.com/noahunallar/braid/pkg/domain"
	"github.com/noahunallar/braid/pkg/ports"
)

// StateResponse is the structured result shared by the state-returning tools.
type StateResponse struct {
	State   map[string]any `json:"state" jsonschema_description:"The combined state, keyed by slice"`
	Version uint64         `json:"version" jsonschema_description:"Dispatch cycles completed so far"`
}

// Store is the dispatcher port plus the introspection extras the tools need.
type Store interface {
	ports.Dispatcher
	Keys() []string
	Version() uint64
}

// Server wraps a braid store and exposes it as an MCP Server.
type Server struct {
	store     Store
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(store Store) *Server {
	s := &Server{
		store:     store,
		mcpServer: server.NewMCPServer("braid-mcp", braid.Version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
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

func (s *Server) registerTools() {
	// TOOL: get_state
	getStateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Read the combined state of the store."),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(getStateTool, mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: dispatch_action
	dispatchTool := mcp.NewTool("dispatch_action",
		mcp.WithDescription("Dispatch one action through the store. Every reducer receives it; unknown types are safely ignored per slice."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Action type, e.g. ADD_TODO")),
		mcp.WithString("payload", mcp.Description("JSON object payload (optional)")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	// TOOL: list_slices
	s.mcpServer.AddTool(mcp.NewTool("list_slices",
		mcp.WithDescription("List the slice keys in dispatch order."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.store.Keys())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	return StateResponse{
		State:   s.store.State(),
		Version: s.store.Version(),
	}, nil
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	actionType, _ := args["type"].(string)
	if actionType == "" {
		return StateResponse{}, fmt.Errorf("missing action type")
	}

	var payload any
	if payloadStr, ok := args["payload"].(string); ok && payloadStr != "" {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(payloadStr), &decoded); err != nil {
			return StateResponse{}, fmt.Errorf("invalid payload JSON: %w", err)
		}
		payload = decoded
	}

	if err := s.store.Dispatch(ctx, domain.NewAction(actionType, payload)); err != nil {
		return StateResponse{}, fmt.Errorf("dispatch failed: %w", err)
	}

	return StateResponse{
		State:   s.store.State(),
		Version: s.store.Version(),
	}, nil
}
