package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/careerflow-agent/internal/llm"
	"github.com/jonathan/careerflow-agent/internal/store"
	"github.com/jonathan/careerflow-agent/internal/types"
)

// fakeClient answers generation calls by matching prompt substrings.
type fakeClient struct {
	replies map[string]string
}

func (c *fakeClient) respond(prompt string) (string, error) {
	for marker, reply := range c.replies {
		if strings.Contains(prompt, marker) {
			return reply, nil
		}
	}
	return "unscripted reply", nil
}

func (c *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return c.respond(prompt)
}

func (c *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return c.respond(prompt)
}

func (c *fakeClient) Close() error { return nil }

type fixture struct {
	server    *Server
	store     *store.MemoryStore
	resumeID  uuid.UUID
	versionID uuid.UUID
}

func newFixture(t *testing.T, client llm.Client) *fixture {
	t.Helper()

	if client == nil {
		client = &fakeClient{}
	}
	s := store.NewMemoryStore()
	ctx := context.Background()
	r, err := s.CreateResume(ctx, "test")
	require.NoError(t, err)
	v, err := s.CreateVersion(ctx, r.ID, nil, "Jane Doe\n- Led a team\n- Wrote Go services")
	require.NoError(t, err)

	return &fixture{
		server:    NewWithDependencies(Config{Port: 0}, s, client),
		store:     s,
		resumeID:  r.ID,
		versionID: v.ID,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestUploadResume(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/resumes", types.UploadResumeRequest{
		Name: "new resume",
		Text: "John Smith\n- Built APIs",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[map[string]any](t, rec)
	assert.NotEmpty(t, resp["resume_id"])
	assert.NotEmpty(t, resp["version_id"])
	assert.Contains(t, resp["preview"], "John Smith")
}

func TestUploadResume_EmptyTextRejected(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/resumes", types.UploadResumeRequest{Name: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListVersions(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/resumes/%s/versions", f.resumeID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[map[string][]store.Version](t, rec)
	require.Len(t, resp["versions"], 1)
	assert.Equal(t, f.versionID, resp["versions"][0].ID)
}

func TestListVersions_UnknownResume(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/resumes/%s/versions", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetVersion(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/resumes/%s/versions/%s", f.resumeID, f.versionID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	version := decode[store.Version](t, rec)
	assert.Contains(t, version.Text, "Led a team")
}

func TestGetVersion_BadID(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/resumes/%s/versions/not-a-uuid", f.resumeID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_JobMatch(t *testing.T) {
	client := &fakeClient{replies: map[string]string{
		"expert hiring screener": `{"score": 0.87, "gaps": ["Kubernetes"], "suggestions": ["Add metrics"]}`,
	}}
	f := newFixture(t, client)

	rec := f.do(t, http.MethodPost, "/chat", types.ChatRequest{
		ResumeVersionID: &f.versionID,
		JobDescription:  "We need a Go engineer",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[types.NormalizedResult](t, rec)
	pct, ok := result.ScorePercent()
	require.True(t, ok)
	assert.Equal(t, 87, pct)
	assert.Equal(t, []string{"Kubernetes"}, result.Gaps)
}

func TestChat_MissingResumeContext(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/chat", types.ChatRequest{
		JobDescription: "We need a Go engineer",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_UnknownVersion(t *testing.T) {
	f := newFixture(t, nil)
	bogus := uuid.New()

	rec := f.do(t, http.MethodPost, "/chat", types.ChatRequest{
		ResumeVersionID: &bogus,
		JobDescription:  "jd",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_InvalidBody(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNaturalChat(t *testing.T) {
	client := &fakeClient{replies: map[string]string{
		"Respond as a helpful chat assistant": "You have solid Go experience.",
	}}
	f := newFixture(t, client)

	rec := f.do(t, http.MethodPost, "/chat/nl", types.NaturalChatRequest{
		ResumeVersionID: f.versionID,
		UserMessage:     "What stands out in my background?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[types.NormalizedResult](t, rec)
	assert.Equal(t, "You have solid Go experience.", result.Text)
}

func TestNaturalChat_MissingMessage(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/chat/nl", types.NaturalChatRequest{
		ResumeVersionID: f.versionID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyEdits(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/edits/apply", types.ApplyEditsRequest{
		ResumeID:      f.resumeID,
		BaseVersionID: f.versionID,
		Edits: []types.Edit{
			{Before: "Led a team", After: "Led a team of 5 engineers"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), resp["applied_count"])
	assert.Equal(t, float64(0), resp["skipped_count"])

	newID, err := uuid.Parse(resp["new_version_id"].(string))
	require.NoError(t, err)
	version, err := f.store.GetVersion(context.Background(), f.resumeID, newID)
	require.NoError(t, err)
	assert.Contains(t, version.Text, "Led a team of 5 engineers")
}

func TestApplyEdits_AllSkipped(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/edits/apply", types.ApplyEditsRequest{
		ResumeID:      f.resumeID,
		BaseVersionID: f.versionID,
		Edits: []types.Edit{
			{Before: "not in the text", After: "x"},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestApplyEdits_NoEdits(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/edits/apply", types.ApplyEditsRequest{
		ResumeID:      f.resumeID,
		BaseVersionID: f.versionID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
