// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator_Valid(t *testing.T) {
	for _, v := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(v))
	}
}

func TestOutputValidator_Invalid(t *testing.T) {
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestDateValidator(t *testing.T) {
	assert.NoError(t, DateValidator("2026-08-26"))
	// Empty means "use the default", so it passes.
	assert.NoError(t, DateValidator(""))
	assert.Error(t, DateValidator("26-08-2026"))
	assert.Error(t, DateValidator("2026/08/26"))
	assert.Error(t, DateValidator("tomorrow"))
}

func TestJammedFlagValidator(t *testing.T) {
	assert.NoError(t, JammedFlagValidator("value"))
	assert.Error(t, JammedFlagValidator("--oops"))
}

func TestFlagValidators_StopsAtFirstError(t *testing.T) {
	calls := 0
	failing := func(any) error { calls++; return assert.AnError }
	counting := func(any) error { calls++; return nil }

	err := FlagValidators("x", counting, failing, counting)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
