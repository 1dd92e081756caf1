// Package types provides type definitions for structured data shared across the careerflow-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// AgentKind identifies one specialized text-generation capability.
type AgentKind string

// Agent kind constants. The order in MergeOrder is the canonical merge order
// for orchestrated results, so merged output is deterministic regardless of
// which agent finishes first.
const (
	AgentJobMatch        AgentKind = "job_match"
	AgentBulletEnhance   AgentKind = "bullet_enhance"
	AgentCompanyResearch AgentKind = "company_research"
	AgentTranslate       AgentKind = "translate"
	AgentChat            AgentKind = "chat"
)

// MergeOrder returns every agent kind in canonical merge order.
func MergeOrder() []AgentKind {
	return []AgentKind{
		AgentJobMatch,
		AgentBulletEnhance,
		AgentCompanyResearch,
		AgentTranslate,
		AgentChat,
	}
}

// RequiresResume reports whether an agent kind cannot run without resume text.
// CompanyResearch deliberately runs on the company name alone, isolating
// company knowledge from personal data.
func (k AgentKind) RequiresResume() bool {
	switch k {
	case AgentCompanyResearch:
		return false
	default:
		return true
	}
}

// AgentReply is the raw output of one agent capability. Parsing is deferred
// to the normalizer so prompt construction and reply interpretation stay
// independently testable.
type AgentReply struct {
	Kind AgentKind `json:"kind"`
	// Text is the unmodified generation output.
	Text string `json:"text"`
	// Structured is set when an upstream component already holds a decoded
	// payload (e.g. a JSON-mode generation that was pre-validated). When nil,
	// the normalizer inspects Text.
	Structured map[string]any `json:"structured,omitempty"`
}
