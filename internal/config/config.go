// MIT License
//
// Copyright (c) 2025 Mike Lane
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package config loads the IssueMyst server configuration from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mikelane/issuemyst/internal/github"
	"github.com/mikelane/issuemyst/internal/picker"
)

// TokenFileEnv overrides TokenFile when set
const TokenFileEnv = "ISSUEMYST_TOKEN_FILE"

// Config holds the server configuration.
type Config struct {
	ListenAddr            string        `yaml:"listen_addr"`
	TokenFile             string        `yaml:"token_file"`
	APIBaseURL            string        `yaml:"api_base_url"`
	UserAgent             string        `yaml:"user_agent"`
	MaxIssues             int           `yaml:"max_issues"`
	PageDelay             time.Duration `yaml:"page_delay"`
	RequestTimeout        time.Duration `yaml:"request_timeout"`
	RepoRequestsPerMinute int           `yaml:"repo_requests_per_minute"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		ListenAddr:            ":8000",
		TokenFile:             "pat.txt",
		APIBaseURL:            github.DefaultBaseURL,
		UserAgent:             github.DefaultUserAgent,
		MaxIssues:             picker.DefaultMaxIssues,
		PageDelay:             picker.DefaultPageDelay,
		RequestTimeout:        github.DefaultTimeout,
		RepoRequestsPerMinute: 30,
	}
}

// Load reads the YAML file at path over the defaults. An empty path skips the
// file. The TokenFileEnv environment variable is applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(TokenFileEnv); v != "" {
		cfg.TokenFile = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// decode rejects unknown keys so typos do not silently fall back to defaults
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks that the Config contains valid values.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	_, portStr, err := net.SplitHostPort(c.ListenAddr)
	if err != nil {
		return fmt.Errorf("invalid listen_addr %q: %w", c.ListenAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port in listen_addr %q: %w", c.ListenAddr, err)
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("port %d out of range (0-65535)", port)
	}

	if c.TokenFile == "" {
		return fmt.Errorf("token_file must not be empty")
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url %q must be an absolute URL", c.APIBaseURL)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user_agent must not be empty")
	}
	if c.MaxIssues < 1 {
		return fmt.Errorf("max_issues must be at least 1, got %d", c.MaxIssues)
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("page_delay must not be negative, got %s", c.PageDelay)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RepoRequestsPerMinute < 0 {
		return fmt.Errorf("repo_requests_per_minute must not be negative, got %d", c.RepoRequestsPerMinute)
	}
	return nil
}
