// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// InterpreterHost is the base URL for the query-interpretation service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	InterpreterHost string

	// CompletionHost is the base URL for expansion, preselection and
	// post-processing calls.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	CompletionHost string

	// InterpreterModel is the model identifier used to interpret natural
	// language requests into structured search requests.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	InterpreterModel string

	// CompletionModel is the model identifier used for semantic expansion,
	// preselection and answer synthesis.
	// Example: "qwen2.5:7b", "gpt-4o"
	CompletionModel string

	// APIKey authenticates against hosted OpenAI-compatible services.
	// Leave empty for local servers that do not require one.
	APIKey string

	// MaxExpansions caps the number of variants semantic expansion may
	// produce per term.
	// Default: 6
	MaxExpansions int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithInterpreterHost sets the interpretation service host URL.
func WithInterpreterHost(host string) ConfigOption {
	return func(c *Config) {
		c.InterpreterHost = host
	}
}

// WithCompletionHost sets the completion service host URL.
func WithCompletionHost(host string) ConfigOption {
	return func(c *Config) {
		c.CompletionHost = host
	}
}

// WithHost sets both interpreter and completion hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.InterpreterHost = host
		c.CompletionHost = host
	}
}

// WithInterpreterModel sets the interpretation model identifier.
func WithInterpreterModel(model string) ConfigOption {
	return func(c *Config) {
		c.InterpreterModel = model
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// WithAPIKey sets the API key for hosted services.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithMaxExpansions sets the per-term cap for semantic expansion.
func WithMaxExpansions(max int) ConfigOption {
	return func(c *Config) {
		c.MaxExpansions = max
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, interpreter and completion use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		InterpreterHost:  defaultHost,
		CompletionHost:   defaultHost,
		InterpreterModel: "qwen2.5:3b",
		CompletionModel:  "qwen2.5:7b",
		MaxExpansions:    6,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithInterpreterModel("gpt-4o-mini"),
//   )
//
// Example with different hosts:
//   cfg := NewConfig(
//       WithInterpreterHost("http://localhost:11434/v1"),
//       WithCompletionHost("http://localhost:9100/v1"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	// Ensure InterpreterHost ends with /v1 for OpenAI-compatible APIs
	if c.InterpreterHost != "" && !strings.HasSuffix(c.InterpreterHost, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.InterpreterHost = strings.TrimSuffix(c.InterpreterHost, "/")
		c.InterpreterHost = c.InterpreterHost + "/v1"
	}
	// Ensure CompletionHost ends with /v1 for OpenAI-compatible APIs
	if c.CompletionHost != "" && !strings.HasSuffix(c.CompletionHost, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.CompletionHost = strings.TrimSuffix(c.CompletionHost, "/")
		c.CompletionHost = c.CompletionHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.InterpreterHost == "" {
		return errors.New("ai config: InterpreterHost is required")
	}
	if c.CompletionHost == "" {
		return errors.New("ai config: CompletionHost is required")
	}
	if c.InterpreterModel == "" {
		return errors.New("ai config: InterpreterModel is required")
	}
	if c.CompletionModel == "" {
		return errors.New("ai config: CompletionModel is required")
	}
	if c.MaxExpansions < 1 || c.MaxExpansions > 20 {
		return errors.New("ai config: MaxExpansions must be between 1 and 20")
	}
	return nil
}
