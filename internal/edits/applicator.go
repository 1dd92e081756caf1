// Package edits applies proposed bullet edits to a resume version, producing
// a new immutable version in the store.
package edits

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/careerflow-agent/internal/store"
	"github.com/jonathan/careerflow-agent/internal/types"
)

// NoEditsProvidedError indicates the caller supplied an empty edit list.
type NoEditsProvidedError struct{}

func (e *NoEditsProvidedError) Error() string {
	return "no edits provided"
}

// NoEditsAppliedError indicates every supplied edit was skipped, so no new
// version was created.
type NoEditsAppliedError struct {
	Skipped int
}

func (e *NoEditsAppliedError) Error() string {
	return fmt.Sprintf("no edits applied: all %d edits were skipped", e.Skipped)
}

// Result reports the outcome of applying an edit list.
type Result struct {
	NewVersionID uuid.UUID `json:"new_version_id"`
	AppliedCount int       `json:"applied_count"`
	SkippedCount int       `json:"skipped_count"`
}

// Applicator applies edit lists against base versions. Calls for the same
// resume are serialized with a per-resume lock so concurrent applications
// never race on version sequencing; unrelated resumes stay independent.
type Applicator struct {
	store store.VersionStore

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewApplicator creates an Applicator backed by the given store.
func NewApplicator(s store.VersionStore) *Applicator {
	return &Applicator{
		store: s,
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (a *Applicator) resumeLock(resumeID uuid.UUID) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.locks[resumeID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[resumeID] = l
	}
	return l
}

// Apply loads the base version, applies each edit, and persists the edited
// text as a new version whose parent is the base version.
//
// Each edit replaces the first literal occurrence of its before-text with its
// after-text. An edit with empty before-text appends its after-text on a new
// line. An edit whose before-text is not found in the text, or whose
// after-text is empty, is skipped and counted; skipped edits are not fatal
// unless every edit was skipped.
func (a *Applicator) Apply(ctx context.Context, resumeID, baseVersionID uuid.UUID, edits []types.Edit) (*Result, error) {
	if len(edits) == 0 {
		return nil, &NoEditsProvidedError{}
	}

	lock := a.resumeLock(resumeID)
	lock.Lock()
	defer lock.Unlock()

	base, err := a.store.GetVersion(ctx, resumeID, baseVersionID)
	if err != nil {
		return nil, err
	}

	text := base.Text
	applied, skipped := 0, 0
	for _, edit := range edits {
		next, ok := applyEdit(text, edit)
		if !ok {
			skipped++
			continue
		}
		text = next
		applied++
	}

	if applied == 0 {
		return nil, &NoEditsAppliedError{Skipped: skipped}
	}

	version, err := a.store.CreateVersion(ctx, resumeID, &base.ID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to persist edited version: %w", err)
	}

	return &Result{
		NewVersionID: version.ID,
		AppliedCount: applied,
		SkippedCount: skipped,
	}, nil
}

func applyEdit(text string, edit types.Edit) (string, bool) {
	if edit.After == "" {
		return text, false
	}
	if edit.Before == "" {
		if text == "" {
			return edit.After, true
		}
		return text + "\n" + edit.After, true
	}
	if !strings.Contains(text, edit.Before) {
		return text, false
	}
	return strings.Replace(text, edit.Before, edit.After, 1), true
}
