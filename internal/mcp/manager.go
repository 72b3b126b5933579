package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Descriptor is a remote tool, tagged with the server that advertised it and
// the (possibly qualified) name the catalog should use to route calls.
type Descriptor struct {
	QualifiedName string
	RawName       string
	Server        string
	Description   string
	Schema        map[string]any
}

// ServerState is the runtime snapshot of one configured server, as surfaced
// to the info command and to Tools().
type ServerState struct {
	Name      string
	URL       string
	Enabled   bool
	Connected bool
	LastError string
}

// Manager is the remote tool-provider client: it owns configured
// servers, their connection lifecycle, and the flat tool set discovered
// from them.
type Manager struct {
	mu      sync.RWMutex
	servers map[string]ServerConfig
	order   []string
	clients map[string]*Client
}

// NewManager creates an empty manager; call Configure then Initialize.
func NewManager() *Manager {
	return &Manager{servers: make(map[string]ServerConfig), clients: make(map[string]*Client)}
}

// Configure validates each server (non-empty name, http(s) URL, numeric
// timeout) and stores them in configuration order; ill-formed entries are
// dropped with a warning.
func (m *Manager) Configure(servers []ServerConfig) (warnings []string) {
	valid, warnings := Configure(servers)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers = make(map[string]ServerConfig, len(valid))
	m.order = m.order[:0]
	for _, s := range valid {
		m.servers[s.Name] = s
		m.order = append(m.order, s.Name)
	}
	return warnings
}

// Initialize opens transport to every enabled server and performs
// tool-discovery, fanning the per-server connect out across goroutines. A
// server that fails discovery is marked disconnected but does not fail the
// whole operation; Initialize reports ok only if at least one enabled
// server connected, so zero enabled servers reports false.
func (m *Manager) Initialize(ctx context.Context) (ok bool) {
	m.mu.RLock()
	enabled := make([]ServerConfig, 0, len(m.servers))
	for _, name := range m.order {
		if s := m.servers[name]; s.Enabled {
			enabled = append(enabled, s)
		}
	}
	m.mu.RUnlock()

	if len(enabled) == 0 {
		return false
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	connectedCount := 0

	for _, cfg := range enabled {
		wg.Add(1)
		go func(cfg ServerConfig) {
			defer wg.Done()
			client := NewClient(cfg)
			err := client.Start(ctx)

			mu.Lock()
			m.mu.Lock()
			m.clients[cfg.Name] = client
			m.mu.Unlock()
			if err == nil {
				connectedCount++
			}
			mu.Unlock()
		}(cfg)
	}
	wg.Wait()

	return connectedCount > 0
}

// States returns the current connection state of every configured server
// (enabled or not), for the info command.
func (m *Manager) States() []ServerState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ServerState, 0, len(m.servers))
	for _, name := range m.order {
		cfg := m.servers[name]
		state := ServerState{Name: name, URL: cfg.URL, Enabled: cfg.Enabled}
		if client, ok := m.clients[name]; ok {
			state.Connected = client.IsRunning()
			if err := client.LastError(); err != nil {
				state.LastError = err.Error()
			}
		}
		out = append(out, state)
	}
	return out
}

// Tools returns a snapshot of discovered tools across connected servers. A
// tool name that collides across two or more servers is qualified as
// "server_name/tool_name" for every server that advertises it; a name
// unique to one server is left bare.
func (m *Manager) Tools() []Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	type raw struct {
		server string
		spec   ToolSpec
	}
	var all []raw
	for _, name := range m.order {
		client, ok := m.clients[name]
		if !ok || !client.IsRunning() {
			continue
		}
		for _, spec := range client.Tools() {
			counts[spec.Name]++
			all = append(all, raw{server: name, spec: spec})
		}
	}

	out := make([]Descriptor, 0, len(all))
	for _, r := range all {
		qualified := r.spec.Name
		if counts[r.spec.Name] > 1 {
			qualified = fmt.Sprintf("%s/%s", r.server, r.spec.Name)
		}
		out = append(out, Descriptor{
			QualifiedName: qualified,
			RawName:       r.spec.Name,
			Server:        r.server,
			Description:   r.spec.Description,
			Schema:        r.spec.Schema,
		})
	}
	return out
}

// Invoke routes a call to the originating server, splitting a qualified
// "server_name/tool_name" name when present.
func (m *Manager) Invoke(ctx context.Context, qualifiedName string, args json.RawMessage) (string, error) {
	server, toolName := parseQualifiedName(qualifiedName)

	m.mu.RLock()
	client, ok := m.clients[server]
	m.mu.RUnlock()
	if !ok {
		// Name wasn't qualified (or the prefix didn't match a client): an
		// unqualified name routes to whichever single server advertised it.
		m.mu.RLock()
		for _, name := range m.order {
			c, running := m.clients[name]
			if !running || !c.IsRunning() {
				continue
			}
			for _, spec := range c.Tools() {
				if spec.Name == qualifiedName {
					client = c
					toolName = qualifiedName
					ok = true
					break
				}
			}
			if ok {
				break
			}
		}
		m.mu.RUnlock()
	}
	if !ok || client == nil || !client.IsRunning() {
		return "", fmt.Errorf("remote server for tool %s is not connected", qualifiedName)
	}
	return client.CallTool(ctx, toolName, args)
}

func parseQualifiedName(name string) (server, tool string) {
	idx := strings.Index(name, "/")
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+1:]
}

// Close releases every connection's transport resources. It is idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	clients := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	m.clients = make(map[string]*Client)
	m.mu.Unlock()

	for _, c := range clients {
		c.Stop()
	}
}
