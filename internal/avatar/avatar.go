// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package avatar builds deterministic avatar URLs for consultants that have
// not uploaded a photo. The same name always produces the same initials and
// background color, so avatars are stable across page loads and services.
package avatar

import (
	"crypto/md5"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the ui-avatars style endpoint used when the config does
// not provide one (av.base).
const DefaultBaseURL = "https://ui-avatars.com/api/"

// palette holds the background colors avatars are assigned from. Hex digits
// only; the generator emits them without the leading '#'.
var palette = []string{
	"1abc9c", "2ecc71", "3498db", "9b59b6", "34495e",
	"f39c12", "d35400", "c0392b", "7f8c8d", "16a085",
}

// Generator builds avatar URLs against one base endpoint.
type Generator struct {
	BaseURL string
	Size    int
}

// New returns a Generator. An empty baseURL selects DefaultBaseURL; a size
// of 0 selects 128px.
func New(baseURL string, size int) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if size <= 0 {
		size = 128
	}
	return &Generator{BaseURL: baseURL, Size: size}
}

// Initials extracts up to two uppercase initials from a display name. Empty
// or whitespace-only names yield "?".
func Initials(name string) string {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		r := []rune(fields[0])
		return strings.ToUpper(string(r[0]))
	default:
		first := []rune(fields[0])
		last := []rune(fields[len(fields)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}

// Background picks a palette color for a name. The choice is an md5 bucket,
// so it is stable for a given name and roughly uniform across the palette.
func Background(name string) string {
	sum := md5.Sum([]byte(name))
	return palette[int(sum[0])%len(palette)]
}

// URL returns the avatar URL for a consultant's display name.
func (g *Generator) URL(name string) string {
	size := g.Size
	// ui-avatars caps at 512.
	if size > 512 {
		size = 512
	}

	q := url.Values{}
	q.Set("name", Initials(name))
	q.Set("background", Background(name))
	q.Set("color", "ffffff")
	q.Set("size", strconv.Itoa(size))

	return g.BaseURL + "?" + q.Encode()
}
