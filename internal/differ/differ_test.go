// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareEqual(t *testing.T) {
	a := []byte(`{"bk-1":{"status":"confirmed"}}`)
	b := []byte(`{"bk-1":{"status":"confirmed"}}`)

	report, changed, err := Compare(a, b, false)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, report)
}

func TestCompareChanged(t *testing.T) {
	a := []byte(`{"bk-1":{"status":"pending"}}`)
	b := []byte(`{"bk-1":{"status":"confirmed"},"bk-2":{"status":"pending"}}`)

	report, changed, err := Compare(a, b, false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, report, "confirmed")
	assert.Contains(t, report, "bk-2")
}

func TestCompareInvalidInput(t *testing.T) {
	_, _, err := Compare([]byte(`not json`), []byte(`{}`), false)
	assert.Error(t, err)
}
