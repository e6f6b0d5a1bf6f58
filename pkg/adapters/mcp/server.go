package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/dyeflow"
	"github.com/aretw0/dyeflow/internal/logging"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DocumentURI is the resource holding the whole document in exchange form.
const DocumentURI = "dyeflow://document"

// StackResponse is the navigation state returned by the stack tools.
type StackResponse struct {
	Scopes      []domain.Scope `json:"scopes"`
	Breadcrumbs []string       `json:"breadcrumbs"`
	Depth       int            `json:"depth"`
}

// Server wraps an Editor and exposes it as an MCP Server. Tool calls are
// serialised through mu.
type Server struct {
	mu        sync.Mutex
	editor    *dyeflow.Editor
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(editor *dyeflow.Editor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		editor:    editor,
		logger:    logger,
		mcpServer: server.NewMCPServer("dyeflow-mcp", strings.TrimSpace(dyeflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
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

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func (s *Server) registerTools() {
	nodeID := mcp.WithString("node_id", mcp.Required(), mcp.Description("ID of the node, searched in the whole document"))

	s.add(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the nodes and edges of the current scope, with computed activation."),
	), s.handleGetGraph)

	s.add(mcp.NewTool("get_stack",
		mcp.WithDescription("Get the navigation stack from the root scope to the current one."),
	), s.handleGetStack)

	s.add(mcp.NewTool("drill_into",
		mcp.WithDescription("Enter the child graph of a Process or Task node of the current scope."),
		nodeID,
	), s.handleDrillInto)

	s.add(mcp.NewTool("navigate_to",
		mcp.WithDescription("Return to the scope at the given breadcrumb index (0 is the root)."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Breadcrumb index")),
	), s.handleNavigateTo)

	s.add(mcp.NewTool("add_node",
		mcp.WithDescription("Create a node in the current scope. The level must match the scope's level."),
		mcp.WithString("level", mcp.Required(), mcp.Enum("process", "task", "outcome")),
		mcp.WithString("label", mcp.Description("Node label (defaults to 'New <Level> Node')")),
		mcp.WithNumber("x", mcp.Description("Canvas x coordinate")),
		mcp.WithNumber("y", mcp.Description("Canvas y coordinate")),
	), s.handleAddNode)

	s.add(mcp.NewTool("update_node",
		mcp.WithDescription("Merge data fields into a node (label, description, color, isActive, isRequired, gateType, logicNote, status, position)."),
		nodeID,
		mcp.WithObject("fields", mcp.Required(), mcp.Description("Partial node data")),
	), s.handleUpdateNode)

	s.add(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node, its descendants and the edges touching it."),
		nodeID,
	), s.handleDeleteNode)

	s.add(mcp.NewTool("connect",
		mcp.WithDescription("Connect two nodes of the current scope."),
		mcp.WithString("source", mcp.Required()),
		mcp.WithString("target", mcp.Required()),
	), s.handleConnect)

	s.add(mcp.NewTool("delete_edge",
		mcp.WithDescription("Delete an edge of the current scope."),
		mcp.WithString("edge_id", mcp.Required()),
	), s.handleDeleteEdge)

	s.add(mcp.NewTool("toggle_active",
		mcp.WithDescription("Flip the manual active switch of a node."),
		nodeID,
	), s.nodeTool(func(id string) error { return s.editor.ToggleActive(id) }))

	s.add(mcp.NewTool("toggle_required",
		mcp.WithDescription("Flip whether a node counts toward its parent's gate."),
		nodeID,
	), s.nodeTool(func(id string) error { return s.editor.ToggleRequired(id) }))
}

func (s *Server) add(tool mcp.Tool, h toolHandler) {
	s.mcpServer.AddTool(tool, h)
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graphResult()
}

func (s *Server) handleGetStack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stackResult()
}

func (s *Server) handleDrillInto(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.DrillInto(id)
	return s.stackResult()
}

func (s *Server) handleNavigateTo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireFloat("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := schema.Int().Validate(index); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index: %v", err)), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.NavigateTo(int(index)); err != nil {
		return toolError("navigate_to", err), nil
	}
	return s.stackResult()
}

func (s *Server) handleAddNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, err := domain.ParseLevel(request.GetString("level", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos := domain.Position{X: request.GetFloat("x", 0), Y: request.GetFloat("y", 0)}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.editor.AddNode(level, pos, request.GetString("label", ""))
	if err != nil {
		return toolError("add_node", err), nil
	}
	return jsonResult(schema.NewViewNode(n))
}

func (s *Server) handleUpdateNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, ok := request.GetArguments()["fields"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("fields must be an object"), nil
	}
	patch, err := domain.PatchFromMap(fields)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.UpdateNodeData(id, patch); err != nil {
		return toolError("update_node", err), nil
	}
	return s.nodeResult(id)
}

func (s *Server) handleDeleteNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.DeleteNode(id); err != nil {
		return toolError("delete_node", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", id)), nil
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := request.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.editor.Connect(source, target)
	if err != nil {
		return toolError("connect", err), nil
	}
	return jsonResult(schema.NewViewEdge(e))
}

func (s *Server) handleDeleteEdge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("edge_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.DeleteEdge(id); err != nil {
		return toolError("delete_edge", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", id)), nil
}

func (s *Server) nodeTool(fn func(string) error) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("node_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := fn(id); err != nil {
			return toolError(request.Params.Name, err), nil
		}
		return s.nodeResult(id)
	}
}

// The result helpers below must be called with s.mu held.

func (s *Server) graphResult() (*mcp.CallToolResult, error) {
	g := s.editor.CurrentGraph()
	return jsonResult(schema.NewView(g.Scope, g.Nodes, g.Edges))
}

func (s *Server) stackResult() (*mcp.CallToolResult, error) {
	st := s.editor.Stack()
	return jsonResult(StackResponse{
		Scopes:      st.Scopes(),
		Breadcrumbs: s.editor.Breadcrumbs(),
		Depth:       st.Len() - 1,
	})
}

func (s *Server) nodeResult(id string) (*mcp.CallToolResult, error) {
	n, ok := s.editor.FindNode(id)
	if !ok {
		return toolError("find", fmt.Errorf("node %q: %w", id, domain.ErrNotFound)), nil
	}
	return jsonResult(schema.NewViewNode(n))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError reports editor failures as tool errors so the model can react.
func toolError(tool string, err error) *mcp.CallToolResult {
	msg := fmt.Sprintf("%s failed: %v", tool, err)
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		for _, v := range schema.ValidationErrors(err) {
			msg += "\n- " + v.Error()
		}
	}
	return mcp.NewToolResultError(msg)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(DocumentURI, "Current Document",
		mcp.WithResourceDescription("The whole Process/Task/Outcome hierarchy in exchange form"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadDocument)
}

func (s *Server) handleReadDocument(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.Lock()
	data, err := s.editor.Export()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to export document: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DocumentURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
