package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/careerflow-agent/internal/assembly"
	"github.com/jonathan/careerflow-agent/internal/llm"
	"github.com/jonathan/careerflow-agent/internal/types"
)

// fakeClient records the last generation call.
type fakeClient struct {
	lastPrompt string
	lastJSON   bool
	lastTier   llm.ModelTier
	reply      string
	err        error
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt, f.lastJSON, f.lastTier = prompt, false, tier
	return f.reply, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt, f.lastJSON, f.lastTier = prompt, true, tier
	return f.reply, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestInvoke_JobMatchPrompt(t *testing.T) {
	fake := &fakeClient{reply: `{"score": 0.8}`}
	r := NewRunner(fake)

	reply, err := r.Invoke(context.Background(), assembly.Bundle{
		Kind:           types.AgentJobMatch,
		Role:           "Backend Engineer",
		ResumeText:     "resume body",
		JobDescription: "job body",
	})
	require.NoError(t, err)
	assert.Equal(t, types.AgentJobMatch, reply.Kind)
	assert.Equal(t, `{"score": 0.8}`, reply.Text)

	assert.True(t, fake.lastJSON, "job match replies are constrained to JSON")
	assert.Contains(t, fake.lastPrompt, "resume body")
	assert.Contains(t, fake.lastPrompt, "job body")
	assert.Contains(t, fake.lastPrompt, "Backend Engineer")
	assert.Contains(t, fake.lastPrompt, "Ground every claim in the literal resume text")
}

func TestInvoke_BulletEnhancePromptIncludesRules(t *testing.T) {
	fake := &fakeClient{reply: `{"edits": []}`}
	r := NewRunner(fake)

	_, err := r.Invoke(context.Background(), assembly.Bundle{
		Kind:       types.AgentBulletEnhance,
		Role:       "Backend Engineer",
		ResumeText: "- Led a team",
	})
	require.NoError(t, err)

	assert.True(t, fake.lastJSON)
	assert.Contains(t, fake.lastPrompt, "- Led a team")
	assert.Contains(t, fake.lastPrompt, "dates, employers, and technologies must not change")
}

func TestInvoke_CompanyResearchWithMaterial(t *testing.T) {
	fake := &fakeClient{reply: `{"company": "Acme"}`}
	r := NewRunner(fake)

	_, err := r.Invoke(context.Background(), assembly.Bundle{
		Kind:             types.AgentCompanyResearch,
		Role:             "Backend Engineer",
		CompanyName:      "Acme",
		ResearchMaterial: "Acme builds rockets.",
	})
	require.NoError(t, err)

	assert.True(t, fake.lastJSON)
	assert.Contains(t, fake.lastPrompt, "Acme builds rockets.")
	assert.NotContains(t, fake.lastPrompt, "No research material available")
}

func TestInvoke_CompanyResearchWithoutMaterial(t *testing.T) {
	fake := &fakeClient{reply: `{"company": "Acme"}`}
	r := NewRunner(fake)

	_, err := r.Invoke(context.Background(), assembly.Bundle{
		Kind:        types.AgentCompanyResearch,
		CompanyName: "Acme",
		Role:        "Backend Engineer",
	})
	require.NoError(t, err)
	assert.Contains(t, fake.lastPrompt, "No research material available")
}

func TestInvoke_TranslateIsPlainText(t *testing.T) {
	fake := &fakeClient{reply: "hola"}
	r := NewRunner(fake)

	reply, err := r.Invoke(context.Background(), assembly.Bundle{
		Kind:           types.AgentTranslate,
		ResumeText:     "hello",
		TargetLanguage: "Spanish",
	})
	require.NoError(t, err)
	assert.Equal(t, "hola", reply.Text)

	assert.False(t, fake.lastJSON, "translation must not be JSON constrained")
	assert.Contains(t, fake.lastPrompt, "Spanish")
	assert.Contains(t, fake.lastPrompt, "DO NOT return JSON")
}

func TestInvoke_TranslateDefaultsLanguage(t *testing.T) {
	fake := &fakeClient{reply: "text"}
	r := NewRunner(fake)

	_, err := r.Invoke(context.Background(), assembly.Bundle{
		Kind:       types.AgentTranslate,
		ResumeText: "hello",
	})
	require.NoError(t, err)
	assert.Contains(t, fake.lastPrompt, DefaultTargetLanguage)
}

func TestInvoke_ChatUsesLiteTier(t *testing.T) {
	fake := &fakeClient{reply: "sure"}
	r := NewRunner(fake)

	_, err := r.Invoke(context.Background(), assembly.Bundle{
		Kind:       types.AgentChat,
		Role:       "Backend Engineer",
		ResumeText: "resume body",
		Message:    "what do you think?",
	})
	require.NoError(t, err)

	assert.False(t, fake.lastJSON)
	assert.Equal(t, llm.TierLite, fake.lastTier)
	assert.Contains(t, fake.lastPrompt, "what do you think?")
}

func TestInvoke_UnknownKind(t *testing.T) {
	r := NewRunner(&fakeClient{})

	_, err := r.Invoke(context.Background(), assembly.Bundle{Kind: types.AgentKind("bogus")})
	assert.Error(t, err)
}

func TestComposeReply_IncludesStructuredPayload(t *testing.T) {
	fake := &fakeClient{reply: "here is your answer"}
	r := NewRunner(fake)

	out, err := r.ComposeReply(context.Background(), "how do I match?", "Backend Engineer", "Acme", map[string]any{
		"job_match": map[string]any{"score": 0.8},
	})
	require.NoError(t, err)
	assert.Equal(t, "here is your answer", out)

	assert.False(t, fake.lastJSON, "composed reply is prose")
	assert.Contains(t, fake.lastPrompt, "how do I match?")
	assert.Contains(t, fake.lastPrompt, `"score": 0.8`)
	assert.Contains(t, fake.lastPrompt, "Acme")
}
