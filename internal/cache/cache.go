// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// DefaultTTL is used for categories that have no configured time-to-live.
const DefaultTTL = 300 * time.Second

// Well-known categories. TTLs for these come from the cache.ttl.* config
// keys; anything else falls back to DefaultTTL.
const (
	CategoryCalendarEvents   = "calendar-events-daily"
	CategoryConsultantEvents = "consultant-events"
)

// Outcome is the typed result of a Lookup. Expired entries report as
// OutcomeMiss; the store does not distinguish never-cached from expired.
type Outcome int

const (
	OutcomeMiss Outcome = iota
	OutcomeHit
	OutcomeCorrupt
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeCorrupt:
		return "corrupt"
	default:
		return "miss"
	}
}

// Store is a file-backed cache keyed by (category, key). An entry is valid
// while now - mtime is below the category's time-to-live; there is no
// payload-embedded expiry. Entries are derived, recomputable values, so the
// store takes no locks: concurrent writers to the same entry race and the
// filesystem's last writer wins.
type Store struct {
	dir  string
	ttls map[string]time.Duration
}

// Stats is a read-only snapshot of the cache directory.
type Stats struct {
	TotalFiles int
	TotalSize  int64
	Categories map[string]int
	Dir        string
}

// Dir resolves the base cache directory.
// Precedence:
//  1. BOOKCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/bookctl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("BOOKCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "bookctl"), true
	}
	return "", false
}

// Enabled returns true unless BOOKCTL_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("BOOKCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// New creates a Store rooted at dir with per-category TTLs. The directory is
// created if needed. ttls may be nil; every category then uses DefaultTTL.
func New(dir string, ttls map[string]time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir, ttls: ttls}, nil
}

// TTL returns the configured time-to-live for a category, or DefaultTTL for
// categories the store has never heard of.
func (s *Store) TTL(category string) time.Duration {
	if ttl, ok := s.ttls[category]; ok && ttl > 0 {
		return ttl
	}
	return DefaultTTL
}

// EntryPath returns the absolute path where the entry for (category, key)
// lives. The key is content-addressed so that arbitrary keys (date ranges,
// consultant ids, URLs) never produce an invalid or colliding filename.
func (s *Store) EntryPath(category, key string) string {
	name := sanitizeCategory(category) + "_" + encodeKey(key) + ".cache"
	return filepath.Join(s.dir, name)
}

// Get retrieves the payload for (category, key). It reports a miss if the
// entry does not exist, has outlived its category's TTL, or cannot be
// deserialized. Nothing is ever propagated as an error; a miss just forces
// the caller back to the authoritative source.
func (s *Store) Get(category, key string) ([]byte, bool) {
	data, outcome := s.Lookup(category, key)
	return data, outcome == OutcomeHit
}

// Lookup is Get with a typed outcome, so callers that care (metrics,
// escalation) can tell a corrupt entry from a plain miss. Expired entries
// still report OutcomeMiss.
func (s *Store) Lookup(category, key string) ([]byte, Outcome) {
	p := s.EntryPath(category, key)

	info, err := os.Stat(p)
	if err != nil {
		return nil, OutcomeMiss
	}
	if time.Since(info.ModTime()) >= s.TTL(category) {
		return nil, OutcomeMiss
	}

	data, err := os.ReadFile(p)
	if err != nil {
		log.WithError(err).Errorf("unreadable cache entry %s", p)
		return nil, OutcomeCorrupt
	}
	if !gjson.ValidBytes(data) {
		log.Errorf("corrupt cache entry %s", p)
		return nil, OutcomeCorrupt
	}

	log.Debugf("cache hit: %s/%s", category, key)
	return data, OutcomeHit
}

// Set serializes nothing itself; callers hand it the already-encoded JSON
// payload. The file is overwritten in place, resetting its mtime. There is
// no partial-write guarantee; a crash mid-write corrupts the entry, which a
// later Lookup reports and a later Set repairs.
func (s *Store) Set(category, key string, data []byte) error {
	p := s.EntryPath(category, key)
	if err := os.WriteFile(p, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Invalidate deletes the entry for (category, key) and reports whether a
// file was actually removed.
func (s *Store) Invalidate(category, key string) bool {
	return os.Remove(s.EntryPath(category, key)) == nil
}

// ClearAll removes every cache file in the directory. Non-cache files are
// left alone.
func (s *Store) ClearAll() error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.cache"))
	if err != nil {
		return fmt.Errorf("failed to list cache files: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	return nil
}

// Purge removes cache files older than maxAge regardless of category. If
// maxAge <= 0 it is a no-op.
func (s *Store) Purge(maxAge time.Duration) error {
	if maxAge <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}
	if err := filepath.Walk(s.dir, func(path string, info os.FileInfo, _ error) error {
		if info == nil || info.IsDir() || !strings.HasSuffix(path, ".cache") {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Stats walks the cache directory and reports file counts and sizes. The
// category of each file is recovered from its name: everything before the
// final underscore, since the encoded key suffix is fixed-width hex.
func (s *Store) Stats() (Stats, error) {
	stats := Stats{
		Categories: map[string]int{},
		Dir:        s.dir,
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return stats, fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cache") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.TotalFiles++
		stats.TotalSize += info.Size()

		name := strings.TrimSuffix(e.Name(), ".cache")
		if idx := strings.LastIndex(name, "_"); idx > 0 {
			stats.Categories[name[:idx]]++
		}
	}

	return stats, nil
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}

// sanitizeCategory keeps the category readable in filenames while making
// sure it cannot escape the cache directory or collide with the key suffix.
func sanitizeCategory(category string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, category)
}
