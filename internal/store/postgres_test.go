package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows yields the given versions and then reports err, mimicking a
// connection that drops mid-iteration.
type fakeRows struct {
	versions []Version
	pos      int
	err      error
	closed   bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.versions) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	v := r.versions[r.pos-1]
	*(dest[0].(*uuid.UUID)) = v.ID
	*(dest[1].(*uuid.UUID)) = v.ResumeID
	*(dest[2].(**uuid.UUID)) = v.ParentID
	*(dest[3].(*int)) = v.Seq
	*(dest[4].(*string)) = v.Text
	*(dest[5].(*string)) = v.Preview
	*(dest[6].(*time.Time)) = v.CreatedAt
	return nil
}

func TestCollectVersions(t *testing.T) {
	resumeID := uuid.New()
	rows := &fakeRows{versions: []Version{
		{ID: uuid.New(), ResumeID: resumeID, Seq: 2, Text: "b", Preview: "b"},
		{ID: uuid.New(), ResumeID: resumeID, Seq: 1, Text: "a", Preview: "a"},
	}}

	versions, err := collectVersions(rows)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Seq)
	assert.Equal(t, 1, versions[1].Seq)
	assert.True(t, rows.closed)
}

func TestCollectVersions_SurfacesIterationError(t *testing.T) {
	rows := &fakeRows{
		versions: []Version{
			{ID: uuid.New(), ResumeID: uuid.New(), Seq: 1, Text: "a", Preview: "a"},
		},
		err: errors.New("connection reset"),
	}

	versions, err := collectVersions(rows)
	require.Error(t, err, "a dropped connection must not look like a short history")
	assert.ErrorContains(t, err, "connection reset")
	assert.Nil(t, versions)
	assert.True(t, rows.closed)
}
