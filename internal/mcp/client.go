package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolSpec describes a tool discovered from a remote server.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
}

// headerRoundTripper attaches static headers (RemoteServer.headers) to
// every outgoing request, used to authenticate against the remote server.
type headerRoundTripper struct {
	headers map[string]string
	base    http.RoundTripper
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}
	return h.base.RoundTrip(req)
}

// Client wraps a single remote tool-provider server connection over the
// HTTP streamable transport.
type Client struct {
	name    string
	config  ServerConfig
	client  *mcp.Client
	session *mcp.ClientSession
	tools   []ToolSpec
	mu      sync.RWMutex
	running bool
	lastErr error
}

// NewClient creates a client for the given server; it does not connect.
func NewClient(config ServerConfig) *Client {
	return &Client{name: config.Name, config: config}
}

func (c *Client) Name() string { return c.name }

// Start opens the transport, performs the tool-discovery handshake, and
// collects the server's tool descriptors. It is the operation that can
// fail independently per server during initialize().
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	c.client = mcp.NewClient(&mcp.Implementation{Name: "pilot-agent", Version: "1.0.0"}, nil)

	httpClient := &http.Client{
		Timeout:   time.Duration(c.config.EffectiveTimeoutMS()) * time.Millisecond,
		Transport: &headerRoundTripper{headers: c.config.Headers, base: http.DefaultTransport},
	}
	transport := &mcp.StreamableClientTransport{
		Endpoint:   c.config.URL,
		HTTPClient: httpClient,
	}

	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		c.lastErr = err
		return fmt.Errorf("connect to remote server %s: %w", c.name, err)
	}
	c.session = session

	if err := c.refreshTools(ctx); err != nil {
		c.session.Close()
		c.session = nil
		c.lastErr = err
		return fmt.Errorf("list tools from %s: %w", c.name, err)
	}

	c.running = true
	c.lastErr = nil
	return nil
}

// Stop releases the transport. It is idempotent.
func (c *Client) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}
	var err error
	if c.session != nil {
		err = c.session.Close()
		c.session = nil
	}
	c.running = false
	c.tools = nil
	return err
}

func (c *Client) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// LastError returns the error from the most recent failed Start, if any.
func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Client) Tools() []ToolSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tools
}

func (c *Client) refreshTools(ctx context.Context) error {
	result, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return err
	}
	tools := make([]ToolSpec, 0, len(result.Tools))
	for _, t := range result.Tools {
		schema := make(map[string]any)
		if m, ok := t.InputSchema.(map[string]any); ok {
			schema = m
		}
		tools = append(tools, ToolSpec{Name: t.Name, Description: t.Description, Schema: schema})
	}
	c.tools = tools
	return nil
}

// CallTool invokes a tool on the remote server, enforcing the server's
// configured timeout as a deadline on ctx.
func (c *Client) CallTool(ctx context.Context, name string, args json.RawMessage) (string, error) {
	c.mu.RLock()
	session := c.session
	running := c.running
	timeoutMS := c.config.EffectiveTimeoutMS()
	c.mu.RUnlock()

	if !running || session == nil {
		return "", fmt.Errorf("remote server %s is not connected", c.name)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	var arguments map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &arguments); err != nil {
			return "", fmt.Errorf("invalid tool arguments: %w", err)
		}
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return "", fmt.Errorf("call tool %s: %w", name, err)
	}
	if result.IsError {
		return "", fmt.Errorf("tool %s returned error: %s", name, formatContent(result.Content))
	}
	return formatContent(result.Content), nil
}

func formatContent(content []mcp.Content) string {
	var out string
	for _, c := range content {
		switch v := c.(type) {
		case *mcp.TextContent:
			out += v.Text
		default:
			if data, err := json.Marshal(c); err == nil {
				out += string(data)
			}
		}
	}
	return out
}
