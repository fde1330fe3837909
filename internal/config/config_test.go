// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookctl.yaml"), []byte(body), 0o600))
	t.Setenv("XDG_CONFIG_HOME", dir)
	_, err := Load("")
	require.NoError(t, err)
}

func TestGetString(t *testing.T) {
	writeConfig(t, "calendar:\n  url: https://api.example.com\n")

	v, err := GetString("calendar.url")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", v)

	_, err = GetString("calendar.missing")
	assert.Error(t, err)

	v, err = GetString("calendar.missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

func TestGetInt(t *testing.T) {
	writeConfig(t, "cache:\n  clean: 24\n  ttl:\n    consultant-events: 600\n")

	v, err := GetInt("cache.clean")
	require.NoError(t, err)
	assert.Equal(t, 24, v)

	v, err = GetInt("cache.ttl.consultant-events")
	require.NoError(t, err)
	assert.Equal(t, 600, v)

	v, err = GetInt("cache.missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestNamespaceLookup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookctl.yaml"),
		[]byte("output: text\neq:\n  output: json\n"), 0o600))
	t.Setenv("XDG_CONFIG_HOME", dir)

	_, err := Load("eq")
	require.NoError(t, err)

	// Namespaced key wins over the global one.
	v, err := GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "json", v)
}

func TestGetStringSlice(t *testing.T) {
	writeConfig(t, "eq:\n  defaults:\n    - \"--output json\"\n    - \"--titles\"\n")

	v, err := GetStringSlice("eq.defaults")
	require.NoError(t, err)
	assert.Equal(t, []string{"--output json", "--titles"}, v)

	_, err = GetStringSlice("eq.missing")
	assert.Error(t, err)
}
