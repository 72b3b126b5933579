// Package mcp is the remote tool-provider client: it connects to zero
// or more remote servers over an HTTP streamable transport, discovers their
// tools, and dispatches invocations back to the originating server.
package mcp

import (
	"fmt"
	"net/url"
	"strings"
)

// ServerConfig is a single remote tool-provider server entry, matching the
// mcp_servers[] config schema: {name, url, enabled?, timeout?, headers?}.
type ServerConfig struct {
	Name      string            `mapstructure:"name"`
	URL       string            `mapstructure:"url"`
	Enabled   bool              `mapstructure:"enabled"`
	TimeoutMS int               `mapstructure:"timeout"`
	Headers   map[string]string `mapstructure:"headers"`
}

const defaultTimeoutMS = 30000

// Validate checks a server entry for configure(): non-empty name, an
// http(s) URL, and a non-negative timeout. Ill-formed entries are dropped
// by the caller with a warning rather than failing configuration outright.
func (c ServerConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("server name must not be empty")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server %q: url must be http(s), got %q", c.Name, c.URL)
	}
	if c.TimeoutMS < 0 {
		return fmt.Errorf("server %q: timeout must be non-negative", c.Name)
	}
	return nil
}

// EffectiveTimeoutMS returns the configured timeout, or the 30000ms
// default when unset.
func (c ServerConfig) EffectiveTimeoutMS() int {
	if c.TimeoutMS <= 0 {
		return defaultTimeoutMS
	}
	return c.TimeoutMS
}

// Configure validates a batch of server entries, dropping invalid ones. It
// returns the valid entries and the warnings produced for dropped ones.
func Configure(servers []ServerConfig) (valid []ServerConfig, warnings []string) {
	for _, s := range servers {
		if err := s.Validate(); err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		valid = append(valid, s)
	}
	return valid, warnings
}
