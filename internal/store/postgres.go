package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the PostgreSQL-backed VersionStore.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and ensures the ledger schema exists.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS resume_versions (
			id UUID PRIMARY KEY,
			resume_id UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES resume_versions(id),
			seq INT NOT NULL,
			text TEXT NOT NULL,
			preview TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (resume_id, seq)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateResume registers a new resume identity.
func (s *PostgresStore) CreateResume(ctx context.Context, name string) (*Resume, error) {
	if name == "" {
		name = "resume"
	}

	var r Resume
	err := s.pool.QueryRow(ctx,
		`INSERT INTO resumes (id, name) VALUES ($1, $2)
		 RETURNING id, name, created_at`,
		uuid.New(), name,
	).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return &r, nil
}

// GetResume loads a resume identity.
func (s *PostgresStore) GetResume(ctx context.Context, resumeID uuid.UUID) (*Resume, error) {
	var r Resume
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM resumes WHERE id = $1`, resumeID,
	).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "resume", ID: resumeID}
		}
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	return &r, nil
}

// CreateVersion appends an immutable snapshot. The resume row is locked for
// the transaction so concurrent appends to the same resume serialize and the
// sequence number stays gapless.
func (s *PostgresStore) CreateVersion(ctx context.Context, resumeID uuid.UUID, parentID *uuid.UUID, text string) (*Version, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM resumes WHERE id = $1 FOR UPDATE`, resumeID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "resume", ID: resumeID}
		}
		return nil, fmt.Errorf("failed to lock resume: %w", err)
	}

	if parentID != nil {
		var parentResume uuid.UUID
		err = tx.QueryRow(ctx, `SELECT resume_id FROM resume_versions WHERE id = $1`, *parentID).Scan(&parentResume)
		if err != nil || parentResume != resumeID {
			return nil, &NotFoundError{Kind: "version", ID: *parentID}
		}
	}

	var v Version
	err = tx.QueryRow(ctx,
		`INSERT INTO resume_versions (id, resume_id, parent_id, seq, text, preview)
		 SELECT $1, $2, $3, COALESCE(MAX(seq), 0) + 1, $4, $5
		 FROM resume_versions WHERE resume_id = $2
		 RETURNING id, resume_id, parent_id, seq, text, preview, created_at`,
		uuid.New(), resumeID, parentID, text, MakePreview(text),
	).Scan(&v.ID, &v.ResumeID, &v.ParentID, &v.Seq, &v.Text, &v.Preview, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit version: %w", err)
	}
	return &v, nil
}

// GetVersion loads a version and verifies ownership.
func (s *PostgresStore) GetVersion(ctx context.Context, resumeID, versionID uuid.UUID) (*Version, error) {
	v, err := s.scanVersion(ctx,
		`SELECT id, resume_id, parent_id, seq, text, preview, created_at
		 FROM resume_versions WHERE id = $1 AND resume_id = $2`,
		versionID, resumeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "version", ID: versionID}
		}
		return nil, err
	}
	return v, nil
}

// GetVersionByID loads a version by id alone.
func (s *PostgresStore) GetVersionByID(ctx context.Context, versionID uuid.UUID) (*Version, error) {
	v, err := s.scanVersion(ctx,
		`SELECT id, resume_id, parent_id, seq, text, preview, created_at
		 FROM resume_versions WHERE id = $1`,
		versionID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "version", ID: versionID}
		}
		return nil, err
	}
	return v, nil
}

// ListVersions returns all versions of a resume, newest first.
func (s *PostgresStore) ListVersions(ctx context.Context, resumeID uuid.UUID) ([]Version, error) {
	var exists uuid.UUID
	err := s.pool.QueryRow(ctx, `SELECT id FROM resumes WHERE id = $1`, resumeID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Kind: "resume", ID: resumeID}
		}
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, resume_id, parent_id, seq, text, preview, created_at
		 FROM resume_versions WHERE resume_id = $1 ORDER BY seq DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return collectVersions(rows)
}

// collectVersions drains the version rows. An iteration error surfaces as a
// failure rather than a silently truncated list.
func collectVersions(rows pgx.Rows) ([]Version, error) {
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.ID, &v.ResumeID, &v.ParentID, &v.Seq, &v.Text, &v.Preview, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

func (s *PostgresStore) scanVersion(ctx context.Context, query string, args ...any) (*Version, error) {
	var v Version
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.ResumeID, &v.ParentID, &v.Seq, &v.Text, &v.Preview, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
