// Package normalize reconciles raw agent replies into the canonical result
// shape. A reply may be plain prose, a JSON object, a JSON object wrapped
// under a single enclosing key, or JSON embedded in a markdown fence already
// stripped upstream; the normalizer resolves the variant exactly once so
// downstream consumers never re-inspect reply shapes.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/careerflow-agent/internal/types"
)

// Siblings carries structured results already computed by other agents in the
// same orchestrator call. They backfill fields the primary reply only echoed
// in prose.
type Siblings struct {
	JobMatch      *types.NormalizedResult
	BulletEnhance *types.NormalizedResult
}

// Normalize converts one raw agent reply into a NormalizedResult.
//
// Precedence: an already-structured payload is read directly; otherwise
// bracket-delimited text is parsed as JSON; otherwise the reply is free text.
// Missing score/gaps/suggestions backfill from a sibling job-match result and
// missing bullets from a sibling bullet-enhance result. When any raw text
// existed the result is never empty: the raw text is exposed verbatim as a
// last resort.
func Normalize(reply *types.AgentReply, siblings Siblings) *types.NormalizedResult {
	result := &types.NormalizedResult{}
	raw := strings.TrimSpace(reply.Text)

	payload := reply.Structured
	if payload == nil {
		payload = parsePayload(raw)
	}

	if payload != nil {
		extract(result, unwrap(payload))
	} else if raw != "" {
		result.Text = raw
	}

	backfill(result, siblings)

	if result.IsEmpty() && raw != "" {
		result.Text = raw
	}
	return result
}

// parsePayload parses bracket-delimited text as JSON. A top-level array is
// normalized to a payload under an "edits" or "bullets" key depending on its
// element shape.
func parsePayload(raw string) map[string]any {
	if len(raw) < 2 {
		return nil
	}

	switch {
	case strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}"):
		var payload map[string]any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil
		}
		return payload
	case strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"):
		var items []any
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil
		}
		if len(items) == 0 {
			return nil
		}
		if _, ok := items[0].(map[string]any); ok {
			return map[string]any{"edits": items}
		}
		return map[string]any{"bullets": items}
	default:
		return nil
	}
}

// unwrap removes a single generic enclosing key, e.g. {"response": {...}}.
func unwrap(payload map[string]any) map[string]any {
	if len(payload) != 1 {
		return payload
	}
	for _, v := range payload {
		if inner, ok := v.(map[string]any); ok {
			return inner
		}
	}
	return payload
}

// extract reads canonical snake_case fields by presence. Key variants are
// deliberately not probed; agents are prompted to the canonical set.
func extract(result *types.NormalizedResult, payload map[string]any) {
	if s, ok := stringField(payload, "summary"); ok {
		result.Summary = s
	} else if s, ok := stringField(payload, "about"); ok {
		result.Summary = s
		if tone, ok := stringField(payload, "tone"); ok {
			result.Summary += "\nTone: " + tone
		}
	}

	if score, ok := scoreField(payload, "score"); ok {
		result.Score = &score
	}

	result.Gaps = stringList(payload, "gaps")
	result.Suggestions = stringList(payload, "suggestions")
	if len(result.Suggestions) == 0 {
		result.Suggestions = stringList(payload, "keywords")
	}
	result.Bullets = stringList(payload, "bullets")
	result.Edits = editList(payload, "edits")

	// A reply carrying edit objects but no explicit bullet strings still
	// surfaces one suggested bullet per edit.
	if len(result.Bullets) == 0 {
		result.Bullets = bulletsFromEdits(result.Edits)
	}

	if t, ok := stringField(payload, "text"); ok {
		result.Text = t
	} else if t, ok := stringField(payload, "response"); ok {
		result.Text = t
	}
}

func backfill(result *types.NormalizedResult, siblings Siblings) {
	if jm := siblings.JobMatch; jm != nil {
		if result.Score == nil && jm.Score != nil {
			score := *jm.Score
			result.Score = &score
		}
		if len(result.Gaps) == 0 {
			result.Gaps = append(result.Gaps, jm.Gaps...)
		}
		if len(result.Suggestions) == 0 {
			result.Suggestions = append(result.Suggestions, jm.Suggestions...)
		}
	}

	if be := siblings.BulletEnhance; be != nil && len(result.Bullets) == 0 {
		if len(be.Bullets) > 0 {
			result.Bullets = append(result.Bullets, be.Bullets...)
		} else {
			result.Bullets = bulletsFromEdits(be.Edits)
		}
	}
}

// bulletsFromEdits derives one bullet string per edit, preferring the
// after-text and falling back to the before-text.
func bulletsFromEdits(edits []types.Edit) []string {
	var bullets []string
	for _, e := range edits {
		switch {
		case e.After != "":
			bullets = append(bullets, e.After)
		case e.Before != "":
			bullets = append(bullets, e.Before)
		}
	}
	return bullets
}

func stringField(payload map[string]any, key string) (string, bool) {
	v, ok := payload[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// scoreField reads a numeric score and normalizes it to the 0-1 range.
// Values at or below 1 are already fractions; values above 1 are percentages
// and divide by 100. Zero is a valid, present score.
func scoreField(payload map[string]any, key string) (float64, bool) {
	v, ok := payload[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if n > 1 {
		n = n / 100
	}
	if n < 0 {
		n = 0
	}
	return n, true
}

func stringList(payload map[string]any, key string) []string {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func editList(payload map[string]any, key string) []types.Edit {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var edits []types.Edit
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		edit := types.Edit{}
		if s, ok := obj["before"].(string); ok {
			edit.Before = s
		}
		if s, ok := obj["after"].(string); ok {
			edit.After = s
		}
		if s, ok := obj["explanation"].(string); ok {
			edit.Explanation = s
		}
		if edit.Before == "" && edit.After == "" {
			continue
		}
		edits = append(edits, edit)
	}
	return edits
}
