// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package calendar

import "time"

// Event is a single calendar event as served by the booking platform's
// calendar API. The json tags match the wire format; the jsonapi tags drive
// the query commands' output pipeline.
type Event struct {
	ID           string    `json:"id" jsonapi:"primary,events"`
	CalendarID   string    `json:"calendar_id" jsonapi:"attr,calendar-id"`
	Summary      string    `json:"summary" jsonapi:"attr,summary"`
	Description  string    `json:"description,omitempty" jsonapi:"attr,description,omitempty"`
	Location     string    `json:"location,omitempty" jsonapi:"attr,location,omitempty"`
	ConsultantID string    `json:"consultant_id,omitempty" jsonapi:"attr,consultant-id,omitempty"`
	StartsAt     string    `json:"starts_at" jsonapi:"attr,starts-at"`
	EndsAt       string    `json:"ends_at" jsonapi:"attr,ends-at"`
	CreatedAt    time.Time `json:"created_at" jsonapi:"attr,created-at,iso8601"`
}

// Key is the identity tuple used for duplicate detection and for deciding
// whether a migration target already holds an event. Two events with equal
// tuples are the same booking slot, whatever their IDs.
type Key struct {
	Summary  string
	StartsAt string
	EndsAt   string
}

// DupKey returns the event's duplicate-detection tuple.
func (e *Event) DupKey() Key {
	return Key{Summary: e.Summary, StartsAt: e.StartsAt, EndsAt: e.EndsAt}
}

// eventPage is one page of a paginated event listing.
type eventPage struct {
	Events     []*Event `json:"events"`
	Pagination struct {
		CurrentPage int `json:"current_page"`
		NextPage    int `json:"next_page"`
	} `json:"pagination"`
}
