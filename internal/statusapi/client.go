package statusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"launchpad/internal/startup"
)

// DefaultEndpoint is the base URL for host and port.
func DefaultEndpoint(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

// Client queries a running launchpad for its startup status.
type Client struct {
	endpoint string
	version  string
}

// NewClient creates a Client for the base URL endpoint, e.g.
// http://127.0.0.1:8095.
func NewClient(endpoint, version string) *Client {
	return &Client{endpoint: strings.TrimSuffix(endpoint, "/"), version: version}
}

// Status opens a session, calls ToolName once and decodes the snapshot.
func (c *Client) Status(ctx context.Context) (startup.Status, error) {
	sseClient, err := client.NewSSEMCPClient(c.endpoint + "/sse")
	if err != nil {
		return startup.Status{}, fmt.Errorf("failed to create SSE client: %w", err)
	}
	if err := sseClient.Start(ctx); err != nil {
		return startup.Status{}, fmt.Errorf("failed to connect to %s: %w", c.endpoint, err)
	}
	defer sseClient.Close()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = "2024-11-05"
	initReq.Params.ClientInfo = mcp.Implementation{Name: "launchpad-status", Version: c.version}
	if _, err := sseClient.Initialize(ctx, initReq); err != nil {
		return startup.Status{}, fmt.Errorf("initialize: %w", err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName
	result, err := sseClient.CallTool(ctx, req)
	if err != nil {
		return startup.Status{}, fmt.Errorf("call %s: %w", ToolName, err)
	}
	return decodeStatus(result)
}

func decodeStatus(result *mcp.CallToolResult) (startup.Status, error) {
	var text strings.Builder
	for _, content := range result.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			text.WriteString(tc.Text)
		}
	}
	if result.IsError {
		return startup.Status{}, fmt.Errorf("%s failed: %s", ToolName, text.String())
	}

	var status startup.Status
	if err := json.Unmarshal([]byte(text.String()), &status); err != nil {
		return startup.Status{}, fmt.Errorf("decode status: %w", err)
	}
	return status, nil
}
