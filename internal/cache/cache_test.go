// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttls map[string]time.Duration) *Store {
	t.Helper()
	s, err := New(t.TempDir(), ttls)
	require.NoError(t, err)
	return s
}

func TestSetThenGet(t *testing.T) {
	s := newTestStore(t, nil)
	payload := []byte(`[{"summary":"Meeting"}]`)

	require.NoError(t, s.Set("calendar-events-daily", "2025-01-01_2025-01-02", payload))

	got, ok := s.Get("calendar-events-daily", "2025-01-01_2025-01-02")
	assert.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestGetNeverSet(t *testing.T) {
	s := newTestStore(t, nil)
	_, ok := s.Get("calendar-events-daily", "nope")
	assert.False(t, ok)
}

func TestEmptyKeyAllowed(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Set("settings", "", []byte(`{"tz":"UTC"}`)))
	got, ok := s.Get("settings", "")
	assert.True(t, ok)
	assert.JSONEq(t, `{"tz":"UTC"}`, string(got))
}

func TestExpiredEntryIsMiss(t *testing.T) {
	s := newTestStore(t, map[string]time.Duration{"calendar-events-daily": 300 * time.Second})
	require.NoError(t, s.Set("calendar-events-daily", "2025-01-01_2025-01-02", []byte(`[]`)))

	// Age the file past its TTL; the file itself stays on disk.
	p := s.EntryPath("calendar-events-daily", "2025-01-01_2025-01-02")
	old := time.Now().Add(-301 * time.Second)
	require.NoError(t, os.Chtimes(p, old, old))

	_, ok := s.Get("calendar-events-daily", "2025-01-01_2025-01-02")
	assert.False(t, ok)
	assert.FileExists(t, p)
}

func TestSetResetsAge(t *testing.T) {
	s := newTestStore(t, map[string]time.Duration{"c": time.Minute})
	require.NoError(t, s.Set("c", "k", []byte(`1`)))

	p := s.EntryPath("c", "k")
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))
	_, ok := s.Get("c", "k")
	require.False(t, ok)

	// Overwriting resets the mtime, so the entry is fresh again.
	require.NoError(t, s.Set("c", "k", []byte(`2`)))
	got, ok := s.Get("c", "k")
	assert.True(t, ok)
	assert.Equal(t, []byte(`2`), got)
}

func TestUnknownCategoryUsesDefaultTTL(t *testing.T) {
	s := newTestStore(t, map[string]time.Duration{"known": time.Hour})
	assert.Equal(t, time.Hour, s.TTL("known"))
	assert.Equal(t, DefaultTTL, s.TTL("never-configured"))
}

func TestLookupCorruptEntry(t *testing.T) {
	s := newTestStore(t, nil)
	p := s.EntryPath("c", "k")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o600))

	_, outcome := s.Lookup("c", "k")
	assert.Equal(t, OutcomeCorrupt, outcome)

	_, ok := s.Get("c", "k")
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Set("c", "k", []byte(`true`)))

	assert.True(t, s.Invalidate("c", "k"))
	_, ok := s.Get("c", "k")
	assert.False(t, ok)

	assert.False(t, s.Invalidate("c", "k"))
	assert.False(t, s.Invalidate("c", "never-set"))
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Set("a", "1", []byte(`1`)))
	require.NoError(t, s.Set("b", "2", []byte(`2`)))

	// A non-cache file in the same directory must survive.
	keep := filepath.Join(s.dir, "README")
	require.NoError(t, os.WriteFile(keep, []byte("keep"), 0o600))

	require.NoError(t, s.ClearAll())

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalFiles)
	assert.FileExists(t, keep)
}

func TestPurge(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Set("a", "old", []byte(`1`)))
	require.NoError(t, s.Set("a", "new", []byte(`2`)))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(s.EntryPath("a", "old"), old, old))

	require.NoError(t, s.Purge(time.Hour))

	assert.NoFileExists(t, s.EntryPath("a", "old"))
	assert.FileExists(t, s.EntryPath("a", "new"))

	// maxAge <= 0 is a no-op.
	require.NoError(t, s.Purge(0))
	assert.FileExists(t, s.EntryPath("a", "new"))
}

func TestStats(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Set("calendar-events-daily", "a", []byte(`[]`)))
	require.NoError(t, s.Set("calendar-events-daily", "b", []byte(`[]`)))
	require.NoError(t, s.Set("consultant-events", "c", []byte(`[]`)))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalFiles)
	assert.Greater(t, stats.TotalSize, int64(0))
	assert.Equal(t, 2, stats.Categories["calendar-events-daily"])
	assert.Equal(t, 1, stats.Categories["consultant-events"])
	assert.Equal(t, s.dir, stats.Dir)
}

func TestEntryPathIsStableAndSafe(t *testing.T) {
	s := newTestStore(t, nil)

	a := s.EntryPath("c", "2025-01-01_2025-01-02")
	b := s.EntryPath("c", "2025-01-01_2025-01-02")
	assert.Equal(t, a, b)

	// Hostile keys stay inside the cache dir.
	p := s.EntryPath("c", "../../etc/passwd")
	assert.Equal(t, s.dir, filepath.Dir(p))

	// Hostile categories are sanitized.
	p = s.EntryPath("../evil", "k")
	assert.Equal(t, s.dir, filepath.Dir(p))
}

func TestCalendarWrappersComposeKeys(t *testing.T) {
	s := newTestStore(t, nil)

	require.NoError(t, s.SetCalendarEvents("2025-01-01", "2025-01-02", []byte(`[{"summary":"Meeting"}]`)))
	got, ok := s.GetCalendarEvents("2025-01-01", "2025-01-02")
	require.True(t, ok)
	assert.JSONEq(t, `[{"summary":"Meeting"}]`, string(got))

	// The wrapper is pure key composition over the primitives.
	direct, ok := s.Get(CategoryCalendarEvents, CalendarEventsKey("2025-01-01", "2025-01-02"))
	require.True(t, ok)
	assert.Equal(t, got, direct)

	require.NoError(t, s.SetConsultantEvents("con-7", "2025-01-01", "2025-01-02", []byte(`[]`)))
	_, ok = s.GetConsultantEvents("con-7", "2025-01-01", "2025-01-02")
	assert.True(t, ok)

	// Different consultants never share entries.
	_, ok = s.GetConsultantEvents("con-8", "2025-01-01", "2025-01-02")
	assert.False(t, ok)
}

func TestDirPrecedence(t *testing.T) {
	t.Setenv("BOOKCTL_CACHE_DIR", "/tmp/bookctl-test-cache")
	dir, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/bookctl-test-cache", dir)

	t.Setenv("BOOKCTL_CACHE_DIR", "")
	dir, ok = Dir()
	if ok {
		assert.Contains(t, dir, "bookctl")
	}
}

func TestEnabled(t *testing.T) {
	t.Setenv("BOOKCTL_CACHE", "")
	assert.True(t, Enabled())
	t.Setenv("BOOKCTL_CACHE", "1")
	assert.True(t, Enabled())
	t.Setenv("BOOKCTL_CACHE", "0")
	assert.False(t, Enabled())
	t.Setenv("BOOKCTL_CACHE", "false")
	assert.False(t, Enabled())
}
