// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package output renders query results. Raw jsonapi documents are drilled
// with gjson, filtered and sorted per command flags, and written as a
// lipgloss table, JSON, YAML, or the raw document.
package output
