package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/strips"
	"github.com/aretw0/strips/internal/logging"
	"github.com/aretw0/strips/pkg/document"
	"github.com/aretw0/strips/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps a ports.PlanService and exposes it as an MCP Server.
type Server struct {
	service   ports.PlanService
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(service ports.PlanService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("strips-mcp", strings.TrimSpace(strips.Version)),
		logger:    logger,
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying server, e.g. to add more tools.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
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

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
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

const modelDescription = "The planning model: a YAML or JSON document with a 'domain' and a 'problem' section, or the same as an object"

func (s *Server) registerTools() {
	// TOOL: solve
	solveTool := mcp.NewTool("solve",
		mcp.WithDescription("Find a shortest plan for a STRIPS problem by breadth-first search."),
		mcp.WithString("model", mcp.Required(), mcp.Description(modelDescription)),
		mcp.WithNumber("max_expansions", mcp.Description("Stop after expanding this many states (optional)")),
		mcp.WithNumber("timeout_ms", mcp.Description("Stop after this many milliseconds (optional)")),
		mcp.WithOutputSchema[ports.SolveResponse](),
	)
	s.mcpServer.AddTool(solveTool, mcp.NewStructuredToolHandler(s.handleSolve))

	// TOOL: ground
	groundTool := mcp.NewTool("ground",
		mcp.WithDescription("Ground a STRIPS problem and list its actions, initial facts and agents."),
		mcp.WithString("model", mcp.Required(), mcp.Description(modelDescription)),
		mcp.WithOutputSchema[ports.GroundResponse](),
	)
	s.mcpServer.AddTool(groundTool, mcp.NewStructuredToolHandler(s.handleGround))

	// TOOL: validate
	validateTool := mcp.NewTool("validate",
		mcp.WithDescription("Check a plan against a STRIPS problem and report the first failing step."),
		mcp.WithString("model", mcp.Required(), mcp.Description(modelDescription)),
		mcp.WithString("plan", mcp.Required(), mcp.Description("One ground action per line, e.g. 'drive a1 south-ent cross-se north'")),
		mcp.WithOutputSchema[ports.ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))
}

// Handler methods for structured tools

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ports.SolveResponse, error) {
	model, err := modelArg(args)
	if err != nil {
		return ports.SolveResponse{}, err
	}
	req := ports.SolveRequest{Model: *model}
	// Limits arrive as JSON numbers; mapstructure converts them.
	if err := document.Decode(map[string]interface{}{
		"max_expansions": args["max_expansions"],
		"timeout_ms":     args["timeout_ms"],
	}, &req); err != nil {
		return ports.SolveResponse{}, err
	}

	resp, err := s.service.Solve(ctx, req)
	if err != nil {
		return ports.SolveResponse{}, fmt.Errorf("solve failed: %w", err)
	}
	s.logger.Info("MCP solve", "run_id", resp.RunID, "outcome", resp.Outcome, "plan_length", len(resp.Plan))
	return *resp, nil
}

func (s *Server) handleGround(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ports.GroundResponse, error) {
	model, err := modelArg(args)
	if err != nil {
		return ports.GroundResponse{}, err
	}
	resp, err := s.service.Ground(ctx, *model)
	if err != nil {
		return ports.GroundResponse{}, fmt.Errorf("ground failed: %w", err)
	}
	return *resp, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ports.ValidateResponse, error) {
	model, err := modelArg(args)
	if err != nil {
		return ports.ValidateResponse{}, err
	}
	plan, _ := args["plan"].(string)
	resp, err := s.service.Validate(ctx, ports.ValidateRequest{
		Model: *model,
		Plan:  strings.Split(plan, "\n"),
	})
	if err != nil {
		return ports.ValidateResponse{}, fmt.Errorf("validate failed: %w", err)
	}
	return *resp, nil
}

// modelArg accepts the model as document text or as an already parsed object.
func modelArg(args map[string]interface{}) (*document.Bundle, error) {
	switch v := args["model"].(type) {
	case string:
		return document.Unmarshal([]byte(v))
	case map[string]interface{}:
		var b document.Bundle
		if err := document.Decode(v, &b); err != nil {
			return nil, err
		}
		return &b, nil
	case nil:
		return nil, errors.New("missing required argument 'model'")
	default:
		return nil, fmt.Errorf("argument 'model' must be a string or an object, got %T", v)
	}
}
