// Package agents holds the generation capabilities the orchestrator
// dispatches to. Each capability renders its prompt template from an
// assembled bundle and makes exactly one generation call; interpreting the
// reply is deferred to the normalizer so prompt construction and reply
// parsing stay independently testable.
package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/careerflow-agent/internal/assembly"
	"github.com/jonathan/careerflow-agent/internal/llm"
	"github.com/jonathan/careerflow-agent/internal/prompts"
	"github.com/jonathan/careerflow-agent/internal/types"
)

const promptFile = "agents.json"

// DefaultTargetLanguage is used when a translate request names no language.
const DefaultTargetLanguage = "English"

// Runner invokes agent capabilities against an LLM client.
type Runner struct {
	client llm.Client
}

// NewRunner creates a Runner backed by the given client.
func NewRunner(client llm.Client) *Runner {
	return &Runner{client: client}
}

// Invoke runs the capability for the bundle's agent kind and returns the raw
// reply text unmodified.
func (r *Runner) Invoke(ctx context.Context, b assembly.Bundle) (*types.AgentReply, error) {
	var (
		text string
		err  error
	)

	switch b.Kind {
	case types.AgentJobMatch:
		text, err = r.jobMatch(ctx, b)
	case types.AgentBulletEnhance:
		text, err = r.bulletEnhance(ctx, b)
	case types.AgentCompanyResearch:
		text, err = r.companyResearch(ctx, b)
	case types.AgentTranslate:
		text, err = r.translate(ctx, b)
	case types.AgentChat:
		text, err = r.chat(ctx, b)
	default:
		return nil, fmt.Errorf("unknown agent kind: %s", b.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &types.AgentReply{Kind: b.Kind, Text: text}, nil
}

func (r *Runner) jobMatch(ctx context.Context, b assembly.Bundle) (string, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, "job-match"), map[string]string{
		"Role":           b.Role,
		"Resume":         b.ResumeText,
		"JobDescription": b.JobDescription,
	})
	return r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
}

func (r *Runner) bulletEnhance(ctx context.Context, b assembly.Bundle) (string, error) {
	intro := prompts.Format(prompts.MustGet(promptFile, "bullet-enhance-intro"), map[string]string{
		"Role":    b.Role,
		"Bullets": b.ResumeText,
	})
	rules := prompts.MustGet(promptFile, "bullet-enhance-rules")
	return r.client.GenerateJSON(ctx, intro+"\n"+rules, llm.TierStandard)
}

func (r *Runner) companyResearch(ctx context.Context, b assembly.Bundle) (string, error) {
	material := b.ResearchMaterial
	if material == "" {
		material = prompts.MustGet(promptFile, "company-research-no-material")
	}
	prompt := prompts.Format(prompts.MustGet(promptFile, "company-research"), map[string]string{
		"Company":  b.CompanyName,
		"Role":     b.Role,
		"Research": material,
	})
	return r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
}

func (r *Runner) translate(ctx context.Context, b assembly.Bundle) (string, error) {
	language := b.TargetLanguage
	if language == "" {
		language = DefaultTargetLanguage
	}
	prompt := prompts.Format(prompts.MustGet(promptFile, "translate"), map[string]string{
		"TargetLanguage": language,
		"Text":           b.ResumeText,
	})
	return r.client.GenerateContent(ctx, prompt, llm.TierStandard)
}

func (r *Runner) chat(ctx context.Context, b assembly.Bundle) (string, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, "chat"), map[string]string{
		"Role":    b.Role,
		"Resume":  b.ResumeText,
		"Message": b.Message,
	})
	return r.client.GenerateContent(ctx, prompt, llm.TierLite)
}

// ComposeReply asks the model to turn structured agent outputs into one
// conversational answer for the natural-language entry point.
func (r *Runner) ComposeReply(ctx context.Context, message, role, company string, structured map[string]any) (string, error) {
	payload, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode structured outputs: %w", err)
	}

	prompt := prompts.Format(prompts.MustGet(promptFile, "compose-reply"), map[string]string{
		"Message":    message,
		"Role":       role,
		"Company":    company,
		"Structured": string(payload),
	})
	return r.client.GenerateContent(ctx, prompt, llm.TierStandard)
}
