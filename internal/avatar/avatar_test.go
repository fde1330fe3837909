// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package avatar

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "AL"},
		{"ada lovelace", "AL"},
		{"Cher", "C"},
		{"Jean-Luc van der Berg", "JB"},
		{"  spaced   out  ", "SO"},
		{"", "?"},
		{"   ", "?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Initials(tt.name), "name=%q", tt.name)
	}
}

func TestBackgroundDeterministic(t *testing.T) {
	a := Background("Ada Lovelace")
	assert.Equal(t, a, Background("Ada Lovelace"))
	assert.Len(t, a, 6)
	assert.Contains(t, palette, a)
}

func TestURL(t *testing.T) {
	g := New("", 0)
	raw := g.URL("Ada Lovelace")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "ui-avatars.com", u.Host)

	q := u.Query()
	assert.Equal(t, "AL", q.Get("name"))
	assert.Equal(t, "128", q.Get("size"))
	assert.Equal(t, Background("Ada Lovelace"), q.Get("background"))

	// Stable across calls.
	assert.Equal(t, raw, g.URL("Ada Lovelace"))
}

func TestURLEscapesAndCaps(t *testing.T) {
	g := New("https://avatars.internal/api/", 4096)
	raw := g.URL("Üna Ödd")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "avatars.internal", u.Host)
	assert.Equal(t, "512", u.Query().Get("size"))
	assert.Equal(t, "ÜÖ", u.Query().Get("name"))
}
