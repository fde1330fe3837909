// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSingleSpec(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("summary"))

	require.Len(t, al, 1)
	assert.Equal(t, "attributes.summary", al[0].Key)
	assert.Equal(t, "summary", al[0].OutputKey)
	assert.True(t, al[0].Include)
}

func TestSetRootKey(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set(".id"))

	require.Len(t, al, 1)
	assert.Equal(t, "id", al[0].Key)
	assert.Equal(t, "id", al[0].OutputKey)
}

func TestSetExcluded(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("!starts-at"))

	require.Len(t, al, 1)
	assert.False(t, al[0].Include)
}

func TestSetOutputKeyAndTransform(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("starts-at:Start:t"))

	require.Len(t, al, 1)
	assert.Equal(t, "attributes.starts-at", al[0].Key)
	assert.Equal(t, "Start", al[0].OutputKey)
	assert.Equal(t, "t", al[0].TransformSpec)
}

func TestSetMergesDuplicates(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("summary"))
	require.NoError(t, al.Set("summary:Title:u"))

	require.Len(t, al, 1)
	assert.Equal(t, "Title", al[0].OutputKey)
	assert.Equal(t, "u", al[0].TransformSpec)
}

func TestTransformCase(t *testing.T) {
	a := Attr{TransformSpec: "u"}
	assert.Equal(t, "MEETING", a.Transform("meeting"))

	a = Attr{TransformSpec: "l"}
	assert.Equal(t, "meeting", a.Transform("MEETING"))

	// Later spec wins.
	a = Attr{TransformSpec: "u,l"}
	assert.Equal(t, "meeting", a.Transform("MEETING"))
}

func TestTransformLength(t *testing.T) {
	a := Attr{TransformSpec: "4"}
	assert.Equal(t, "cons", a.Transform("consultant"))

	// Negative length elides the middle.
	a = Attr{TransformSpec: "-8"}
	assert.Equal(t, "con..ant", a.Transform("consultant-assignment"))

	// Values shorter than the limit pass through.
	a = Attr{TransformSpec: "99"}
	assert.Equal(t, "short", a.Transform("short"))
}

func TestTransformNonString(t *testing.T) {
	a := Attr{TransformSpec: "u"}
	assert.Equal(t, 42.0, a.Transform(42.0))
	assert.Nil(t, a.Transform(nil))
}

func TestSetGlobalTransformSpec(t *testing.T) {
	var al AttrList
	require.NoError(t, al.Set("summary,*::U"))
	require.NoError(t, al.SetGlobalTransformSpec())

	for _, attr := range al {
		assert.Contains(t, attr.TransformSpec, "U")
	}
}
