// Package featureflags resolves named boolean flags from the backend's
// /feature-flags endpoints, caching answers for a fixed TTL and degrading to a
// static default table whenever the backend cannot be reached.
package featureflags

import (
	"maps"
	"slices"
	"time"
)

// Flag is the payload of GET /feature-flags/{name}.
type Flag struct {
	Name    string   `json:"flag_name"`
	Enabled bool     `json:"enabled"`
	Details *Details `json:"details,omitempty"`
}

// Details carries the optional metadata of a flag.
type Details struct {
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// AllFlagsResponse is the payload of GET /feature-flags.
type AllFlagsResponse struct {
	Flags map[string]bool `json:"flags"`
}

// Flags the frontend knows about.
const (
	CustomAgents     = "custom_agents"
	AgentMarketplace = "agent_marketplace"
	MCPModule        = "mcp_module"
	TemplatesAPI     = "templates_api"
	TriggersAPI      = "triggers_api"
	WorkflowsAPI     = "workflows_api"
	KnowledgeBase    = "knowledge_base"
	Pipedream        = "pipedream"
	CredentialsAPI   = "credentials_api"
	DefaultAgent     = "suna_default_agent"
)

// defaults apply when the backend is missing or failing. Unlisted flags are off.
var defaults = map[string]bool{
	CustomAgents:     true,
	AgentMarketplace: true,
	MCPModule:        true,
	TemplatesAPI:     true,
	TriggersAPI:      true,
	WorkflowsAPI:     true,
	KnowledgeBase:    true,
	Pipedream:        true,
	CredentialsAPI:   true,
	DefaultAgent:     true,
}

// DefaultValue returns the static fallback for a flag.
func DefaultValue(name string) bool {
	return defaults[name]
}

// Names lists every flag with a static default, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(defaults))
}

// Defaults returns a copy of the static fallback table.
func Defaults() map[string]bool {
	return maps.Clone(defaults)
}

// Event types pushed on the flag change stream.
const (
	EventFlagUpdated = "flag_updated"
	EventFlagDeleted = "flag_deleted"
	EventFlagsReset  = "flags_reset"
)

// Event is one message of the flag change stream.
type Event struct {
	Type     string `json:"type"`
	FlagName string `json:"flag_name,omitempty"`
	Enabled  bool   `json:"enabled"`
}
