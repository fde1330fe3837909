// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package bookings reads and writes the platform's bookings JSON document.
// Two formats exist in the wild: the legacy one is a bare JSON array; the
// current one is an object keyed by booking ID. Parse accepts both, Convert
// migrates the former to the latter.
package bookings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/apex/log"
)

// Booking is one reserved slot.
type Booking struct {
	ID           string `json:"id" jsonapi:"primary,bookings"`
	ConsultantID string `json:"consultant_id" jsonapi:"attr,consultant-id"`
	ClientName   string `json:"client_name" jsonapi:"attr,client-name"`
	ClientEmail  string `json:"client_email,omitempty" jsonapi:"attr,client-email,omitempty"`
	SlotStart    string `json:"slot_start" jsonapi:"attr,slot-start"`
	SlotEnd      string `json:"slot_end" jsonapi:"attr,slot-end"`
	Status       string `json:"status" jsonapi:"attr,status"`
	CreatedAt    string `json:"created_at,omitempty" jsonapi:"attr,created-at,omitempty"`
}

// Document is a parsed bookings file.
type Document struct {
	Bookings map[string]*Booking
	// Legacy reports whether the source document was the old array format.
	Legacy bool
}

// Parse decodes a bookings document in either format.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty bookings document")
	}

	doc := &Document{Bookings: map[string]*Booking{}}

	switch trimmed[0] {
	case '[':
		doc.Legacy = true
		var list []*Booking
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to parse legacy bookings list: %w", err)
		}
		for _, b := range list {
			if b.ID == "" {
				return nil, fmt.Errorf("legacy booking without an id")
			}
			if _, dup := doc.Bookings[b.ID]; dup {
				log.Warnf("duplicate booking id %s in legacy list, keeping the later entry", b.ID)
			}
			doc.Bookings[b.ID] = b
		}
	case '{':
		if err := json.Unmarshal(trimmed, &doc.Bookings); err != nil {
			return nil, fmt.Errorf("failed to parse bookings map: %w", err)
		}
		// Backfill IDs so map-format documents don't need to repeat the key.
		for id, b := range doc.Bookings {
			if b.ID == "" {
				b.ID = id
			}
		}
	default:
		return nil, fmt.Errorf("unrecognized bookings document")
	}

	return doc, nil
}

// Encode renders the document in the current keyed-map format. Keys come out
// sorted, so encoding is deterministic and diffs stay readable.
func (d *Document) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(d.Bookings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bookings: %w", err)
	}
	return append(out, '\n'), nil
}

// List returns the bookings ordered by ID.
func (d *Document) List() []*Booking {
	result := make([]*Booking, 0, len(d.Bookings))
	for _, b := range d.Bookings {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Convert migrates a document to the keyed-map format. It reports whether
// the input actually needed converting; already-converted input round-trips
// unchanged in meaning.
func Convert(data []byte) (converted []byte, changed bool, err error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, false, err
	}

	out, err := doc.Encode()
	if err != nil {
		return nil, false, err
	}

	return out, doc.Legacy, nil
}

// LoadFile reads a bookings document from disk.
func LoadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings file: %w", err)
	}
	return data, nil
}

// SaveFile writes a bookings document, first moving any existing file to
// path.bak so a bad migration can be rolled back by hand.
func SaveFile(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".bak"); err != nil {
			return fmt.Errorf("failed to back up bookings file: %w", err)
		}
		log.Debugf("backed up %s to %s.bak", path, path)
	}
	if err := os.WriteFile(path, data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write bookings file: %w", err)
	}
	return nil
}
