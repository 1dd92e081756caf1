package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateResume(t *testing.T) {
	s := NewMemoryStore()

	r, err := s.CreateResume(context.Background(), "my resume")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, "my resume", r.Name)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestMemoryStore_CreateResume_DefaultName(t *testing.T) {
	s := NewMemoryStore()

	r, err := s.CreateResume(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "resume", r.Name)
}

func TestMemoryStore_CreateVersion_Sequence(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	r, err := s.CreateResume(ctx, "seq")
	require.NoError(t, err)

	v1, err := s.CreateVersion(ctx, r.ID, nil, "first text")
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Seq)
	assert.Nil(t, v1.ParentID)
	assert.Equal(t, r.ID, v1.ResumeID)

	v2, err := s.CreateVersion(ctx, r.ID, &v1.ID, "second text")
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Seq)
	require.NotNil(t, v2.ParentID)
	assert.Equal(t, v1.ID, *v2.ParentID)
}

func TestMemoryStore_CreateVersion_UnknownResume(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.CreateVersion(context.Background(), uuid.New(), nil, "text")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "resume", nf.Kind)
}

func TestMemoryStore_CreateVersion_ParentFromOtherResume(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a, err := s.CreateResume(ctx, "a")
	require.NoError(t, err)
	b, err := s.CreateResume(ctx, "b")
	require.NoError(t, err)

	va, err := s.CreateVersion(ctx, a.ID, nil, "a text")
	require.NoError(t, err)

	_, err = s.CreateVersion(ctx, b.ID, &va.ID, "b text")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "version", nf.Kind)
}

func TestMemoryStore_GetVersion_Ownership(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a, err := s.CreateResume(ctx, "a")
	require.NoError(t, err)
	b, err := s.CreateResume(ctx, "b")
	require.NoError(t, err)

	v, err := s.CreateVersion(ctx, a.ID, nil, "text")
	require.NoError(t, err)

	got, err := s.GetVersion(ctx, a.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "text", got.Text)

	_, err = s.GetVersion(ctx, b.ID, v.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	byID, err := s.GetVersionByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byID.ResumeID)
}

func TestMemoryStore_ListVersions_NewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	r, err := s.CreateResume(ctx, "history")
	require.NoError(t, err)

	var parent *uuid.UUID
	for i := 1; i <= 3; i++ {
		v, err := s.CreateVersion(ctx, r.ID, parent, fmt.Sprintf("text %d", i))
		require.NoError(t, err)
		parent = &v.ID
	}

	versions, err := s.ListVersions(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].Seq)
	assert.Equal(t, 2, versions[1].Seq)
	assert.Equal(t, 1, versions[2].Seq)
}

func TestMemoryStore_ListVersions_UnknownResume(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.ListVersions(context.Background(), uuid.New())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestMemoryStore_VersionsAreImmutable(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	r, err := s.CreateResume(ctx, "immutability")
	require.NoError(t, err)
	v, err := s.CreateVersion(ctx, r.ID, nil, "original")
	require.NoError(t, err)

	v.Text = "mutated"
	got, err := s.GetVersion(ctx, r.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)
}

func TestMemoryStore_ConcurrentCreateVersion(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	r, err := s.CreateResume(ctx, "concurrent")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateVersion(ctx, r.ID, nil, fmt.Sprintf("text %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	versions, err := s.ListVersions(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, versions, n)

	seen := make(map[int]bool)
	for _, v := range versions {
		seen[v.Seq] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "missing seq %d", i)
	}
}

func TestMakePreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single line",
			text: "Jane Doe",
			want: "Jane Doe",
		},
		{
			name: "joins non-empty lines",
			text: "Jane Doe\n\nSoftware Engineer\n",
			want: "Jane Doe · Software Engineer",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MakePreview(tt.text))
		})
	}
}

func TestMakePreview_Truncates(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += fmt.Sprintf("line %d\n", i)
	}
	preview := MakePreview(long)
	assert.LessOrEqual(t, len(preview), PreviewLength)
	assert.Contains(t, preview, "...")
}

func TestMakePreview_TruncatesOnRuneBoundary(t *testing.T) {
	// 3-byte runes with the cut index not divisible by 3, so a byte-index
	// cut would land inside a rune.
	long := strings.Repeat("日本語", 60)
	preview := MakePreview(long)

	assert.LessOrEqual(t, len(preview), PreviewLength)
	assert.True(t, utf8.ValidString(preview), "preview must stay valid UTF-8")
	assert.True(t, strings.HasSuffix(preview, "..."))
}
