// Copyright Neuromechanist Labs, 2025. All rights reserved.

package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndLookup(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Record(Entry{
		InputPath:   "/docs/paper.pdf",
		ContentHash: "abc123",
		OutputPath:  "/out/paper.md",
		Title:       "A Paper",
		Pages:       4,
		Words:       1200,
		Images:      3,
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	e, err := s.Lookup("abc123")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "/docs/paper.pdf", e.InputPath)
	assert.Equal(t, "/out/paper.md", e.OutputPath)
	assert.Equal(t, "A Paper", e.Title)
	assert.Equal(t, 4, e.Pages)
	assert.Equal(t, 1200, e.Words)
	assert.Equal(t, 3, e.Images)
	assert.False(t, e.ConvertedAt.IsZero())
}

func TestLookupMissingHash(t *testing.T) {
	s := openTestStore(t)

	e, err := s.Lookup("does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestLookupReturnsMostRecent(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Record(Entry{InputPath: "a.pdf", ContentHash: "same", OutputPath: "old.md"})
	require.NoError(t, err)
	_, err = s.Record(Entry{InputPath: "a.pdf", ContentHash: "same", OutputPath: "new.md"})
	require.NoError(t, err)

	e, err := s.Lookup("same")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "new.md", e.OutputPath)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"one.pdf", "two.pdf", "three.pdf"} {
		_, err := s.Record(Entry{InputPath: name, ContentHash: name, OutputPath: name + ".md"})
		require.NoError(t, err)
	}

	entries, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "three.pdf", entries[0].InputPath)
	assert.Equal(t, "one.pdf", entries[2].InputPath)

	entries, err = s.List(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)

	entries, err := s.List(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordPreservesTimestamp(t *testing.T) {
	s := openTestStore(t)

	when := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	_, err := s.Record(Entry{InputPath: "x.pdf", ContentHash: "x", OutputPath: "x.md", ConvertedAt: when})
	require.NoError(t, err)

	e, err := s.Lookup("x")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.True(t, when.Equal(e.ConvertedAt))
}
