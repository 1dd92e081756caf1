package types

import "math"

// NormalizedResult is the canonical shape the orchestrator returns regardless
// of which agents ran. It is rebuilt on every call and never cached across
// requests.
type NormalizedResult struct {
	// Summary is a short descriptive paragraph (e.g. company overview).
	Summary string `json:"summary,omitempty"`
	// Score is the job match score normalized to the 0-1 range. A nil score
	// means "not computed"; zero is a valid score.
	Score *float64 `json:"score,omitempty"`
	// Gaps lists missing skills or experience, in reply order.
	Gaps []string `json:"gaps,omitempty"`
	// Suggestions lists actionable improvements, in reply order.
	Suggestions []string `json:"suggestions,omitempty"`
	// Bullets lists proposed bullet-point strings, in reply order.
	Bullets []string `json:"bullets,omitempty"`
	// Edits carries structured bullet edits when the reply contained them,
	// so callers can feed them to the edit applicator with provenance.
	Edits []Edit `json:"edits,omitempty"`
	// Text is the free-text reply (chat answers, translations).
	Text string `json:"text,omitempty"`
}

// IsEmpty reports whether no field carries data. A nil score counts as empty;
// a zero score does not.
func (r *NormalizedResult) IsEmpty() bool {
	return r.Summary == "" && r.Score == nil && len(r.Gaps) == 0 &&
		len(r.Suggestions) == 0 && len(r.Bullets) == 0 && len(r.Edits) == 0 && r.Text == ""
}

// ScorePercent renders the normalized 0-1 score as a rounded integer
// percentage. Returns 0, false when no score was computed.
func (r *NormalizedResult) ScorePercent() (int, bool) {
	if r.Score == nil {
		return 0, false
	}
	return int(math.Round(*r.Score * 100)), true
}

// MergeFrom unions other into r field-wise. A populated field is never
// overwritten by an empty one; list fields append. Merging is commutative at
// the field level, so callers obtain a deterministic result by merging in
// canonical agent order.
func (r *NormalizedResult) MergeFrom(other *NormalizedResult) {
	if other == nil {
		return
	}
	if r.Summary == "" {
		r.Summary = other.Summary
	}
	if r.Score == nil {
		r.Score = other.Score
	}
	r.Gaps = append(r.Gaps, other.Gaps...)
	r.Suggestions = append(r.Suggestions, other.Suggestions...)
	r.Bullets = append(r.Bullets, other.Bullets...)
	r.Edits = append(r.Edits, other.Edits...)
	if r.Text == "" {
		r.Text = other.Text
	}
}
