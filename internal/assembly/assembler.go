// Package assembly builds the minimal per-agent input bundle from the shared
// request context.
//
// Each agent sees only the fields its prompt needs. Company research never
// receives resume text, which keeps company knowledge isolated from personal
// data; translation receives only the text to translate and the target
// language.
package assembly

import (
	"strings"

	"github.com/jonathan/careerflow-agent/internal/types"
)

// Bundle is the assembled input for one agent invocation. Fields an agent
// does not need are left empty.
type Bundle struct {
	Kind           types.AgentKind
	Role           string
	ResumeText     string
	JobDescription string
	CompanyName    string
	// ResearchMaterial is the joined company page snippet corpus, empty when
	// no material was collected.
	ResearchMaterial string
	TargetLanguage   string
	Message          string
}

// Assemble builds the bundle for one agent kind. Pure: the request context is
// read, never mutated.
func Assemble(kind types.AgentKind, ctx types.RequestContext) Bundle {
	role := ctx.Role
	if role == "" {
		role = types.DefaultRole
	}

	b := Bundle{Kind: kind, Role: role}
	switch kind {
	case types.AgentJobMatch:
		b.ResumeText = ctx.ResumeText
		b.JobDescription = ctx.JobDescription
	case types.AgentBulletEnhance:
		b.ResumeText = ctx.ResumeText
		b.JobDescription = ctx.JobDescription
	case types.AgentCompanyResearch:
		b.CompanyName = ctx.CompanyName
		b.ResearchMaterial = strings.TrimSpace(strings.Join(ctx.CompanySnippets, "\n\n"))
	case types.AgentTranslate:
		b.ResumeText = ctx.ResumeText
		b.TargetLanguage = ctx.TargetLanguage
		b.Role = ""
	case types.AgentChat:
		b.ResumeText = ctx.ResumeText
		b.Message = ctx.UserMessage
	}
	return b
}
