// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package cache is a time-bounded file cache for calendar API results. Each
// (category, key) pair maps to one file; an entry expires once its mtime is
// older than the category's configured time-to-live. Every failure mode
// degrades to a miss so callers can always fall back to the authoritative
// source.
package cache
