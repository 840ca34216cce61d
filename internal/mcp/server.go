// Package mcp exposes the predictor as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"mbtid/internal/predictor"
	"mbtid/pkg/types"
)

// Predictor is the subset of the prediction service the tools need.
type Predictor interface {
	Predict(ctx context.Context, message string) (predictor.Result, error)
	Status() types.StatusResponse
}

// Server wraps the MCP server with the prediction tools.
type Server struct {
	mcpServer *server.MCPServer
	svc       Predictor
	log       zerolog.Logger
}

// NewServer creates an MCP server named "mbtid" reporting version.
func NewServer(svc Predictor, version string, log zerolog.Logger) *Server {
	s := &Server{svc: svc, log: log}
	mcpServer := server.NewMCPServer(
		"mbtid",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	predictTool := mcp.NewTool("predict",
		mcp.WithDescription("Predict the Myers-Briggs personality type of the author of a text"),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Free text written by the person to classify"),
		),
	)
	mcpServer.AddTool(predictTool, s.handlePredict)

	labelsTool := mcp.NewTool("list_labels",
		mcp.WithDescription("List the 16 personality types the classifier can return"),
	)
	mcpServer.AddTool(labelsTool, s.handleListLabels)

	statusTool := mcp.NewTool("status",
		mcp.WithDescription("Report whether the classifier is loaded and how many predictions it served"),
	)
	mcpServer.AddTool(statusTool, s.handleStatus)
}

func (s *Server) handlePredict(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message is required"), nil
	}
	res, err := s.svc.Predict(ctx, message)
	if err != nil {
		if predictor.IsInvalidInput(err) {
			return mcp.NewToolResultError("message is required"), nil
		}
		s.log.Error().Err(err).Str("kind", predictor.Kind(err)).Msg("mcp predict failed")
		return mcp.NewToolResultError("the prediction could not be completed"), nil
	}
	return jsonResult(types.PredictResponse{Message: res.Message, Prediction: res.Label})
}

func (s *Server) handleListLabels(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(types.LabelsResponse{Labels: predictor.LabelEntries()})
}

func (s *Server) handleStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Status())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
