// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package cache

// Convenience wrappers for the two calendar-shaped categories. These are
// pure key composition over the Store primitives; they add no behavior.

// CalendarEventsKey composes the cache key for a date-range query against
// the shared calendar.
func CalendarEventsKey(from, to string) string {
	return from + "_" + to
}

// ConsultantEventsKey composes the cache key for a consultant-specific
// date-range query.
func ConsultantEventsKey(consultantID, from, to string) string {
	return consultantID + "_" + from + "_" + to
}

func (s *Store) GetCalendarEvents(from, to string) ([]byte, bool) {
	return s.Get(CategoryCalendarEvents, CalendarEventsKey(from, to))
}

func (s *Store) SetCalendarEvents(from, to string, data []byte) error {
	return s.Set(CategoryCalendarEvents, CalendarEventsKey(from, to), data)
}

func (s *Store) InvalidateCalendarEvents(from, to string) bool {
	return s.Invalidate(CategoryCalendarEvents, CalendarEventsKey(from, to))
}

func (s *Store) GetConsultantEvents(consultantID, from, to string) ([]byte, bool) {
	return s.Get(CategoryConsultantEvents, ConsultantEventsKey(consultantID, from, to))
}

func (s *Store) SetConsultantEvents(consultantID, from, to string, data []byte) error {
	return s.Set(CategoryConsultantEvents, ConsultantEventsKey(consultantID, from, to), data)
}

func (s *Store) InvalidateConsultantEvents(consultantID, from, to string) bool {
	return s.Invalidate(CategoryConsultantEvents, ConsultantEventsKey(consultantID, from, to))
}
