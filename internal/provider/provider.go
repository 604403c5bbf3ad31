// Package provider defines the provider profile record and its validation
// rules. A provider belongs to exactly one app type; names are unique within
// that scope and ids are globally unique.
package provider

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"ccswitch/internal/apperr"
	"ccswitch/internal/apptype"
)

// McpServer is the declarative launch spec for one MCP server entry.
// The engine only carries these into live config files; it never starts them.
type McpServer struct {
	Name    string            `json:"name" yaml:"name"`
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Provider is a named credential/configuration profile for one app type.
type Provider struct {
	ID         string            `json:"id" yaml:"id"`
	AppType    apptype.AppType   `json:"app_type" yaml:"app_type"`
	Name       string            `json:"name" yaml:"name"`
	APIKey     string            `json:"api_key" yaml:"api_key"`
	BaseURL    string            `json:"base_url" yaml:"base_url"`
	Model      string            `json:"model,omitempty" yaml:"model,omitempty"`
	SmallModel string            `json:"small_model,omitempty" yaml:"small_model,omitempty"`
	McpServers []McpServer       `json:"mcp_servers,omitempty" yaml:"mcp_servers,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" yaml:"updated_at"`
}

// New builds a provider with a fresh id and server-assigned timestamps.
func New(app apptype.AppType, name, apiKey, baseURL string) Provider {
	now := time.Now().UTC()
	return Provider{
		ID:        uuid.NewString(),
		AppType:   app,
		Name:      name,
		APIKey:    apiKey,
		BaseURL:   baseURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the required fields. It is called on every create and
// update before anything is persisted.
func (p *Provider) Validate() error {
	if !p.AppType.Valid() {
		return &apperr.ValidationError{Field: "app_type", Reason: "unknown app type"}
	}
	if p.Name == "" {
		return &apperr.ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if p.APIKey == "" {
		return &apperr.ValidationError{Field: "api_key", Reason: "cannot be empty"}
	}
	if p.BaseURL == "" {
		return &apperr.ValidationError{Field: "base_url", Reason: "cannot be empty"}
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &apperr.ValidationError{Field: "base_url", Reason: "must be an http(s) URL"}
	}
	for _, s := range p.McpServers {
		if s.Name == "" {
			return &apperr.ValidationError{Field: "mcp_servers", Reason: "server name cannot be empty"}
		}
		if s.Command == "" {
			return &apperr.ValidationError{Field: "mcp_servers", Reason: "server command cannot be empty"}
		}
	}
	return nil
}

// Patch carries the optional field updates of an edit. Nil pointers leave the
// field untouched.
type Patch struct {
	Name       *string
	APIKey     *string
	BaseURL    *string
	Model      *string
	SmallModel *string
	McpServers *[]McpServer
	Metadata   *map[string]string
}

// Apply copies the set patch fields onto p and bumps UpdatedAt.
func (p *Provider) Apply(patch Patch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.APIKey != nil {
		p.APIKey = *patch.APIKey
	}
	if patch.BaseURL != nil {
		p.BaseURL = *patch.BaseURL
	}
	if patch.Model != nil {
		p.Model = *patch.Model
	}
	if patch.SmallModel != nil {
		p.SmallModel = *patch.SmallModel
	}
	if patch.McpServers != nil {
		p.McpServers = *patch.McpServers
	}
	if patch.Metadata != nil {
		p.Metadata = *patch.Metadata
	}
	p.UpdatedAt = time.Now().UTC()
}

// MaskKey masks an API key for display. Keys must never be shown unmasked.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
