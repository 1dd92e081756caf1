// Package routing turns an incoming request into a dispatch plan: the ordered
// set of agent invocations to run, with their resolved arguments.
//
// Routing is deterministic. Intent is read from explicit request fields and
// literal message signals, never from a generation call, so the same request
// always produces the same plan and a malformed request fails before any
// model is invoked.
package routing

import (
	"fmt"
	"strings"

	"github.com/jonathan/careerflow-agent/internal/types"
)

// MissingResumeContextError indicates the plan selected an agent that needs
// resume text, but the request carries none.
type MissingResumeContextError struct {
	Agent types.AgentKind
}

func (e *MissingResumeContextError) Error() string {
	return fmt.Sprintf("agent %s requires resume context but no resume version is selected", e.Agent)
}

// EmptyRequestError indicates the request carries nothing to act on.
type EmptyRequestError struct{}

func (e *EmptyRequestError) Error() string {
	return "request has no message, job description, or company to act on"
}

// Invocation is one planned agent run.
type Invocation struct {
	Kind types.AgentKind
	// TargetLanguage is resolved for translate invocations only.
	TargetLanguage string
}

// Plan is the ordered set of invocations for one request.
type Plan struct {
	Invocations []Invocation
}

// Kinds returns the planned agent kinds in dispatch order.
func (p *Plan) Kinds() []types.AgentKind {
	kinds := make([]types.AgentKind, len(p.Invocations))
	for i, inv := range p.Invocations {
		kinds[i] = inv.Kind
	}
	return kinds
}

// languageNames maps a language mentioned in a message to the canonical
// target-language label handed to the translate agent.
var languageNames = map[string]string{
	"spanish":    "Spanish",
	"french":     "French",
	"german":     "German",
	"italian":    "Italian",
	"portuguese": "Portuguese",
	"hindi":      "Hindi",
	"urdu":       "Urdu",
	"arabic":     "Arabic",
	"chinese":    "Chinese",
	"japanese":   "Japanese",
	"korean":     "Korean",
}

var (
	translateSignals = []string{"translate", "translation"}
	rewriteSignals   = []string{
		"rewrite", "reword", "rephrase", "improve", "enhance", "polish",
		"bullet", "bullets", "quantify", "impact", "optimize", "optimise",
	}
	researchSignals = []string{"research", "tone", "culture"}
)

func containsAny(message string, signals []string) bool {
	for _, s := range signals {
		if strings.Contains(message, s) {
			return true
		}
	}
	return false
}

func detectLanguage(message string) string {
	for name, label := range languageNames {
		if strings.Contains(message, name) {
			return label
		}
	}
	return ""
}

// Route builds the dispatch plan for a request context.
//
// Translation suppresses every other agent: translated prose is consumed as
// plain exported text and must not be mixed with structured analysis. When no
// trigger fires but resume text and a message are present, the plan falls
// back to the single chat capability.
func Route(ctx types.RequestContext) (*Plan, error) {
	message := strings.ToLower(ctx.UserMessage)

	if strings.TrimSpace(ctx.UserMessage) == "" && ctx.JobDescription == "" && ctx.CompanyName == "" {
		return nil, &EmptyRequestError{}
	}

	language := ctx.TargetLanguage
	if language == "" {
		language = detectLanguage(message)
	}
	if containsAny(message, translateSignals) || language != "" {
		plan := &Plan{Invocations: []Invocation{{
			Kind:           types.AgentTranslate,
			TargetLanguage: language,
		}}}
		return plan, checkResume(plan, ctx)
	}

	var invocations []Invocation
	if ctx.JobDescription != "" {
		invocations = append(invocations, Invocation{Kind: types.AgentJobMatch})
	}
	if containsAny(message, rewriteSignals) {
		invocations = append(invocations, Invocation{Kind: types.AgentBulletEnhance})
	}
	if ctx.CompanyName != "" || containsAny(message, researchSignals) {
		invocations = append(invocations, Invocation{Kind: types.AgentCompanyResearch})
	}

	if len(invocations) == 0 {
		if strings.TrimSpace(ctx.UserMessage) == "" {
			return nil, &EmptyRequestError{}
		}
		invocations = append(invocations, Invocation{Kind: types.AgentChat})
	}

	plan := &Plan{Invocations: invocations}
	return plan, checkResume(plan, ctx)
}

// checkResume fails the plan before dispatch when a planned agent needs
// resume text the request does not carry.
func checkResume(plan *Plan, ctx types.RequestContext) error {
	if ctx.ResumeText != "" {
		return nil
	}
	for _, inv := range plan.Invocations {
		if inv.Kind.RequiresResume() {
			return &MissingResumeContextError{Agent: inv.Kind}
		}
	}
	return nil
}
