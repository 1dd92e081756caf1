// Package orchestrator is the top-level entry point. It resolves a dispatch
// plan, fans out to the planned agents, and merges their normalized results
// into one answer.
package orchestrator

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/careerflow-agent/internal/agents"
	"github.com/jonathan/careerflow-agent/internal/assembly"
	"github.com/jonathan/careerflow-agent/internal/normalize"
	"github.com/jonathan/careerflow-agent/internal/routing"
	"github.com/jonathan/careerflow-agent/internal/schemas"
	"github.com/jonathan/careerflow-agent/internal/store"
	"github.com/jonathan/careerflow-agent/internal/types"
)

// Orchestrator wires the router, assembler, agent runner, and normalizer
// together. It is stateless across calls; conversation ids are accepted but
// every call stands alone.
type Orchestrator struct {
	store  store.VersionStore
	runner *agents.Runner
}

// New creates an Orchestrator.
func New(s store.VersionStore, runner *agents.Runner) *Orchestrator {
	return &Orchestrator{store: s, runner: runner}
}

// outcome is one agent's contribution to the merge.
type outcome struct {
	invocation routing.Invocation
	reply      *types.AgentReply
	result     *types.NormalizedResult
	err        error
}

// HandleStructured serves the structured entry point. Resume text is loaded
// from the referenced version when one is given; companySnippets is the
// research material the caller collected for the company, if any.
func (o *Orchestrator) HandleStructured(ctx context.Context, req types.ChatRequest, companySnippets []string) (*types.NormalizedResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reqCtx := types.RequestContext{
		JobDescription:  req.JobDescription,
		CompanyName:     req.CompanyName,
		Role:            req.Role,
		UserMessage:     req.UserMessage,
		CompanySnippets: companySnippets,
	}
	if req.ResumeVersionID != nil {
		version, err := o.store.GetVersionByID(ctx, *req.ResumeVersionID)
		if err != nil {
			return nil, err
		}
		reqCtx.ResumeText = version.Text
	}

	plan, err := routing.Route(reqCtx)
	if err != nil {
		return nil, err
	}

	outcomes, err := o.dispatch(ctx, plan, reqCtx)
	if err != nil {
		return nil, err
	}
	return mergeOutcomes(outcomes), nil
}

// HandleNatural serves the natural-language entry point. Structured agents
// run first; their outputs are composed into one conversational reply, and
// the composed reply is normalized with the structured results as siblings so
// numeric fields survive even when the model only echoed them in prose.
func (o *Orchestrator) HandleNatural(ctx context.Context, req types.NaturalChatRequest) (*types.NormalizedResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	version, err := o.store.GetVersionByID(ctx, req.ResumeVersionID)
	if err != nil {
		return nil, err
	}

	reqCtx := types.RequestContext{
		ResumeText:  version.Text,
		UserMessage: req.UserMessage,
	}

	plan, err := routing.Route(reqCtx)
	if err != nil {
		return nil, err
	}

	outcomes, err := o.dispatch(ctx, plan, reqCtx)
	if err != nil {
		return nil, err
	}

	// A translate-only or chat-only plan already yields prose; composing a
	// second reply would re-summarize it.
	if len(plan.Invocations) == 1 {
		kind := plan.Invocations[0].Kind
		if kind == types.AgentTranslate || kind == types.AgentChat {
			return mergeOutcomes(outcomes), nil
		}
	}

	merged := mergeOutcomes(outcomes)
	siblings := normalize.Siblings{
		JobMatch:      resultFor(outcomes, types.AgentJobMatch),
		BulletEnhance: resultFor(outcomes, types.AgentBulletEnhance),
	}

	composed, err := o.runner.ComposeReply(ctx, req.UserMessage, reqCtx.Role, reqCtx.CompanyName, structuredPayload(outcomes))
	if err != nil {
		// The structured results alone still answer the request.
		log.Printf("compose reply failed, returning structured results: %v", err)
		return merged, nil
	}

	final := normalize.Normalize(&types.AgentReply{Kind: types.AgentChat, Text: composed}, siblings)
	fillFromMerged(final, merged)
	return final, nil
}

// fillFromMerged completes the composed reply with structured fields the
// sibling backfill did not cover. Fields already populated are left alone;
// appending here would duplicate what the siblings contributed.
func fillFromMerged(final, merged *types.NormalizedResult) {
	if final.Summary == "" {
		final.Summary = merged.Summary
	}
	if final.Score == nil {
		final.Score = merged.Score
	}
	if len(final.Gaps) == 0 {
		final.Gaps = merged.Gaps
	}
	if len(final.Suggestions) == 0 {
		final.Suggestions = merged.Suggestions
	}
	if len(final.Bullets) == 0 {
		final.Bullets = merged.Bullets
	}
	if len(final.Edits) == 0 {
		final.Edits = merged.Edits
	}
}

// dispatch runs every planned agent. Agents have no data dependency on each
// other, so plans with more than one run concurrently. A failed agent
// contributes nothing to the merge unless it was the only planned agent, in
// which case the whole request fails.
func (o *Orchestrator) dispatch(ctx context.Context, plan *routing.Plan, reqCtx types.RequestContext) ([]*outcome, error) {
	outcomes := make([]*outcome, len(plan.Invocations))
	sole := len(plan.Invocations) == 1

	g, gctx := errgroup.WithContext(ctx)
	for i, inv := range plan.Invocations {
		outcomes[i] = &outcome{invocation: inv}
		g.Go(func() error {
			out := outcomes[i]
			out.reply, out.err = o.invoke(gctx, inv, reqCtx)
			if out.err != nil {
				if sole {
					return out.err
				}
				log.Printf("agent %s failed, continuing without it: %v", inv.Kind, out.err)
				return nil
			}
			out.result = o.normalizeReply(out.reply)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	succeeded := 0
	for _, out := range outcomes {
		if out.err == nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		for _, out := range outcomes {
			if out.err != nil {
				return nil, fmt.Errorf("all planned agents failed: %w", out.err)
			}
		}
	}
	return outcomes, nil
}

func (o *Orchestrator) invoke(ctx context.Context, inv routing.Invocation, reqCtx types.RequestContext) (*types.AgentReply, error) {
	if inv.TargetLanguage != "" {
		reqCtx.TargetLanguage = inv.TargetLanguage
	}
	bundle := assembly.Assemble(inv.Kind, reqCtx)
	return o.runner.Invoke(ctx, bundle)
}

// normalizeReply normalizes a single reply. Schema violations on structured
// kinds are logged, not fatal; the normalizer downgrades such replies to
// whatever it can extract, ultimately free text.
func (o *Orchestrator) normalizeReply(reply *types.AgentReply) *types.NormalizedResult {
	if reply.Kind == types.AgentTranslate {
		// Translated prose is returned verbatim. Running it through JSON
		// sniffing risks mangling resumes that happen to start with a brace.
		return &types.NormalizedResult{Text: reply.Text}
	}

	if schemas.HasSchema(reply.Kind) && reply.Structured == nil {
		if err := schemas.ValidateReply(reply.Kind, reply.Text); err != nil {
			log.Printf("agent %s reply failed schema validation: %v", reply.Kind, err)
		}
	}
	return normalize.Normalize(reply, normalize.Siblings{})
}

// mergeOutcomes unions results in the fixed merge order, so the merged result
// is identical regardless of completion order.
func mergeOutcomes(outcomes []*outcome) *types.NormalizedResult {
	merged := &types.NormalizedResult{}
	for _, kind := range types.MergeOrder() {
		for _, out := range outcomes {
			if out.invocation.Kind == kind && out.result != nil {
				merged.MergeFrom(out.result)
			}
		}
	}
	return merged
}

func resultFor(outcomes []*outcome, kind types.AgentKind) *types.NormalizedResult {
	for _, out := range outcomes {
		if out.invocation.Kind == kind {
			return out.result
		}
	}
	return nil
}

// structuredPayload collects per-agent structured results for the compose
// prompt, keyed by agent kind.
func structuredPayload(outcomes []*outcome) map[string]any {
	payload := make(map[string]any)
	for _, out := range outcomes {
		if out.result != nil {
			payload[string(out.invocation.Kind)] = out.result
		}
	}
	return payload
}
