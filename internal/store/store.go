// Package store provides the append-only resume version ledger.
//
// A resume owns an ordered sequence of immutable versions. Edits never mutate
// a version; they produce a new one whose parent is the base version the
// caller supplied.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// PreviewLength is the maximum length of a version's derived preview excerpt.
const PreviewLength = 160

// Resume is the identity that owns an ordered sequence of versions.
type Resume struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Version is an immutable resume snapshot.
type Version struct {
	ID       uuid.UUID  `json:"id"`
	ResumeID uuid.UUID  `json:"resume_id"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	// Seq is a per-resume monotonically increasing sequence number; it
	// carries the ordering invariant that UUIDs alone cannot.
	Seq       int       `json:"seq"`
	Text      string    `json:"text"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

// VersionStore is the ledger interface the orchestrator and edit applicator
// consume. Implementations must keep versions immutable after creation and
// must serialize concurrent CreateVersion calls per resume.
type VersionStore interface {
	// CreateResume registers a new resume identity.
	CreateResume(ctx context.Context, name string) (*Resume, error)
	// GetResume loads a resume identity.
	GetResume(ctx context.Context, resumeID uuid.UUID) (*Resume, error)
	// CreateVersion appends an immutable snapshot. parentID is nil for the
	// first version.
	CreateVersion(ctx context.Context, resumeID uuid.UUID, parentID *uuid.UUID, text string) (*Version, error)
	// GetVersion loads a version and verifies it belongs to resumeID.
	GetVersion(ctx context.Context, resumeID, versionID uuid.UUID) (*Version, error)
	// GetVersionByID loads a version by id alone, for orchestration paths
	// that only carry a version id.
	GetVersionByID(ctx context.Context, versionID uuid.UUID) (*Version, error)
	// ListVersions returns all versions of a resume, newest first.
	ListVersions(ctx context.Context, resumeID uuid.UUID) ([]Version, error)
}

// NotFoundError indicates a resume or version does not exist (or does not
// belong to the given resume).
type NotFoundError struct {
	Kind string // "resume" or "version"
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// MakePreview derives a short single-line excerpt from resume text.
func MakePreview(text string) string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
		if len(strings.Join(parts, " · ")) >= PreviewLength {
			break
		}
	}
	preview := strings.Join(parts, " · ")
	if len(preview) > PreviewLength {
		// Cut on a rune boundary so multibyte text stays valid UTF-8.
		cut := PreviewLength - 3
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut] + "..."
	}
	return preview
}
