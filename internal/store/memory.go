package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory VersionStore. It backs one-shot CLI runs and
// tests; the server uses the PostgreSQL implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	resumes  map[uuid.UUID]*Resume
	versions map[uuid.UUID]*Version
	// byResume holds version ids per resume in creation (seq) order.
	byResume map[uuid.UUID][]uuid.UUID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resumes:  make(map[uuid.UUID]*Resume),
		versions: make(map[uuid.UUID]*Version),
		byResume: make(map[uuid.UUID][]uuid.UUID),
	}
}

// CreateResume registers a new resume identity.
func (s *MemoryStore) CreateResume(_ context.Context, name string) (*Resume, error) {
	if name == "" {
		name = "resume"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Resume{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.resumes[r.ID] = r
	return copyResume(r), nil
}

// GetResume loads a resume identity.
func (s *MemoryStore) GetResume(_ context.Context, resumeID uuid.UUID) (*Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resumes[resumeID]
	if !ok {
		return nil, &NotFoundError{Kind: "resume", ID: resumeID}
	}
	return copyResume(r), nil
}

// CreateVersion appends an immutable snapshot for resumeID.
func (s *MemoryStore) CreateVersion(_ context.Context, resumeID uuid.UUID, parentID *uuid.UUID, text string) (*Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resumes[resumeID]; !ok {
		return nil, &NotFoundError{Kind: "resume", ID: resumeID}
	}
	if parentID != nil {
		parent, ok := s.versions[*parentID]
		if !ok || parent.ResumeID != resumeID {
			return nil, &NotFoundError{Kind: "version", ID: *parentID}
		}
	}

	v := &Version{
		ID:        uuid.New(),
		ResumeID:  resumeID,
		ParentID:  cloneID(parentID),
		Seq:       len(s.byResume[resumeID]) + 1,
		Text:      text,
		Preview:   MakePreview(text),
		CreatedAt: time.Now().UTC(),
	}
	s.versions[v.ID] = v
	s.byResume[resumeID] = append(s.byResume[resumeID], v.ID)
	return copyVersion(v), nil
}

// GetVersion loads a version and verifies ownership.
func (s *MemoryStore) GetVersion(_ context.Context, resumeID, versionID uuid.UUID) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[versionID]
	if !ok || v.ResumeID != resumeID {
		return nil, &NotFoundError{Kind: "version", ID: versionID}
	}
	return copyVersion(v), nil
}

// GetVersionByID loads a version by id alone.
func (s *MemoryStore) GetVersionByID(_ context.Context, versionID uuid.UUID) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[versionID]
	if !ok {
		return nil, &NotFoundError{Kind: "version", ID: versionID}
	}
	return copyVersion(v), nil
}

// ListVersions returns all versions of a resume, newest first.
func (s *MemoryStore) ListVersions(_ context.Context, resumeID uuid.UUID) ([]Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.resumes[resumeID]; !ok {
		return nil, &NotFoundError{Kind: "resume", ID: resumeID}
	}

	ids := s.byResume[resumeID]
	versions := make([]Version, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		versions = append(versions, *copyVersion(s.versions[ids[i]]))
	}
	return versions, nil
}

// Copies keep callers from mutating stored snapshots.

func copyResume(r *Resume) *Resume {
	c := *r
	return &c
}

func copyVersion(v *Version) *Version {
	c := *v
	c.ParentID = cloneID(v.ParentID)
	return &c
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
