package types

// DefaultRole is used when the caller does not supply a target role.
const DefaultRole = "Software Engineer"

// RequestContext is the ephemeral per-invocation bundle shared by the router,
// the assembler, and the agents. It is reconstructed on every call and never
// persisted.
type RequestContext struct {
	// ResumeText is the full text of the selected resume version, empty when
	// no version is selected.
	ResumeText string
	// JobDescription is the raw job posting text, optional.
	JobDescription string
	// CompanyName is the target company, optional.
	CompanyName string
	// Role is the target role; callers should leave it empty and let the
	// router fill in DefaultRole.
	Role string
	// UserMessage is the free-form message for natural-language entry.
	UserMessage string
	// TargetLanguage is resolved by the router from the user message when a
	// translation is requested.
	TargetLanguage string
	// CompanySnippets is an optional research corpus collected by the caller
	// (see internal/research); it enriches the CompanyResearch prompt.
	CompanySnippets []string
}

// Edit is a proposed bullet change. Edits are transient: they exist only
// inside an agent reply and the edit applicator's input.
type Edit struct {
	// Before is the bullet being replaced. When empty the edit is applied by
	// appending After to the resume text.
	Before string `json:"before,omitempty"`
	// After is the replacement text and is required to apply.
	After string `json:"after"`
	// Explanation is a human-readable rationale, optional.
	Explanation string `json:"explanation,omitempty"`
}
