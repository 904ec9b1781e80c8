// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/praxis-sdk/praxis/pkg/errors"
	"github.com/praxis-sdk/praxis/pkg/resilience"
	"github.com/praxis-sdk/praxis/pkg/tools"
)

const defaultCallTimeout = 10 * time.Second

// Client wraps an MCP client session with per-call timeouts and retry, and
// turns the server's tools into agent tools.
type Client struct {
	mcpClient client.MCPClient
	timeout   time.Duration
	retry     resilience.RetryConfig
}

// ClientOption customizes the client wrapper.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetryConfig replaces the default retry policy.
func WithRetryConfig(rc resilience.RetryConfig) ClientOption {
	return func(c *Client) { c.retry = rc }
}

// NewClient wraps an already-initialized MCP client.
func NewClient(c client.MCPClient, opts ...ClientOption) *Client {
	wrapped := &Client{
		mcpClient: c,
		timeout:   defaultCallTimeout,
		retry:     resilience.DefaultRetryConfig().WithInitialDelay(200 * time.Millisecond),
	}
	for _, opt := range opts {
		opt(wrapped)
	}
	return wrapped
}

// NewClientWithStdio starts an MCP server as a subprocess and connects to
// it over stdio.
func NewClientWithStdio(ctx context.Context, command string, args []string, opts ...ClientOption) (*Client, error) {
	stdioClient, err := client.NewStdioMCPClient(command, nil, args...)
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to start mcp server", err).
			WithContext("command", command)
	}

	if err := stdioClient.Start(ctx); err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to start mcp client", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "praxis-client",
		Version: "0.1.0",
	}
	if _, err := stdioClient.Initialize(initCtx, initRequest); err != nil {
		return nil, errors.New(errors.CodeInternal, "mcp initialize failed", err)
	}

	return NewClient(stdioClient, opts...), nil
}

// ListTools retrieves the server's tool definitions.
func (c *Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	var result *mcp.ListToolsResult
	err := c.retry.Do(ctx, func() error {
		// Per-attempt result: a timed-out attempt may still assign after
		// the next attempt started.
		var attempt *mcp.ListToolsResult
		err := resilience.WithTimeout(ctx, c.timeout, func(ctx context.Context) error {
			var callErr error
			attempt, callErr = c.mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
			return callErr
		})
		if err != nil {
			return err
		}
		result = attempt
		return nil
	})
	if err != nil {
		return nil, errors.New(errors.CodeToolFailure, "mcp list tools failed", err)
	}
	return result.Tools, nil
}

// CallTool implements ToolCaller.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	err := c.retry.Do(ctx, func() error {
		var attempt *mcp.CallToolResult
		err := resilience.WithTimeout(ctx, c.timeout, func(ctx context.Context) error {
			var callErr error
			attempt, callErr = c.mcpClient.CallTool(ctx, req)
			return callErr
		})
		if err != nil {
			return err
		}
		result = attempt
		return nil
	})
	return result, err
}

// Tools lists the server's tools as agent tools.
func (c *Client) Tools(ctx context.Context) ([]tools.Tool, error) {
	defs, err := c.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]tools.Tool, 0, len(defs))
	for _, def := range defs {
		adapter, err := NewToolAdapter(def, c)
		if err != nil {
			return nil, err
		}
		out = append(out, adapter)
	}
	return out, nil
}

// Close shuts the underlying session down.
func (c *Client) Close() error {
	return c.mcpClient.Close()
}

var _ ToolCaller = (*Client)(nil)
