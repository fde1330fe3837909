// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotops/bookctl/internal/cache"
)

// fakeCalendarAPI is an in-memory calendar service speaking the client's
// wire format, with two-event pages to exercise pagination.
type fakeCalendarAPI struct {
	events   map[string][]*Event // calendarID -> events
	requests atomic.Int64
	nextID   int
}

func (f *fakeCalendarAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		events := f.events[r.PathValue("cal")]

		const pageSize = 2
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		start := (page - 1) * pageSize
		end := min(start+pageSize, len(events))
		if start > end {
			start = end
		}

		var ep eventPage
		ep.Events = events[start:end]
		ep.Pagination.CurrentPage = page
		if end < len(events) {
			ep.Pagination.NextPage = page + 1
		}
		_ = json.NewEncoder(w).Encode(ep)
	})

	mux.HandleFunc("POST /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		var ev Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		f.nextID++
		ev.ID = fmt.Sprintf("ev-%d", f.nextID)
		cal := r.PathValue("cal")
		f.events[cal] = append(f.events[cal], &ev)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&ev)
	})

	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		cal, id := r.PathValue("cal"), r.PathValue("id")
		kept := f.events[cal][:0]
		found := false
		for _, ev := range f.events[cal] {
			if ev.ID == id {
				found = true
				continue
			}
			kept = append(kept, ev)
		}
		f.events[cal] = kept
		if !found {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func ev(id, summary, start, end string, created time.Time) *Event {
	return &Event{
		ID: id, Summary: summary,
		StartsAt: start, EndsAt: end,
		CreatedAt: created,
	}
}

func newFixture(t *testing.T, withCache bool) (*fakeCalendarAPI, *Client) {
	t.Helper()
	api := &fakeCalendarAPI{events: map[string][]*Event{}}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	var store *cache.Store
	if withCache {
		var err error
		store, err = cache.New(t.TempDir(), nil)
		require.NoError(t, err)
	}
	return api, NewClient(srv.URL, "test-token", store)
}

func TestListEventsPaginates(t *testing.T) {
	api, client := newFixture(t, false)
	now := time.Now()
	for i := 0; i < 5; i++ {
		api.events["main"] = append(api.events["main"],
			ev(fmt.Sprintf("e%d", i), fmt.Sprintf("slot %d", i), "2025-01-01T09:00:00Z", "2025-01-01T10:00:00Z", now))
	}

	events, err := client.ListEvents(context.Background(), "main", "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Len(t, events, 5)
	// 5 events at 2 per page is 3 requests.
	assert.Equal(t, int64(3), api.requests.Load())
}

func TestListDailyEventsCached(t *testing.T) {
	api, client := newFixture(t, true)
	api.events["main"] = []*Event{ev("e1", "Meeting", "2025-01-01T09:00:00Z", "2025-01-01T10:00:00Z", time.Now())}

	ctx := context.Background()

	first, err := client.ListDailyEventsCached(ctx, "main", "2025-01-01", "2025-01-02")
	require.NoError(t, err)
	require.Len(t, first, 1)
	fetched := api.requests.Load()

	// Second call is served from the cache without touching the API.
	second, err := client.ListDailyEventsCached(ctx, "main", "2025-01-01", "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, fetched, api.requests.Load())

	// A different range is a different key.
	_, err = client.ListDailyEventsCached(ctx, "main", "2025-02-01", "2025-02-02")
	require.NoError(t, err)
	assert.Greater(t, api.requests.Load(), fetched)
}

func TestListConsultantEventsCachedKeyedByConsultant(t *testing.T) {
	api, client := newFixture(t, true)
	api.events["con-1"] = []*Event{ev("e1", "1:1", "2025-01-01T09:00:00Z", "2025-01-01T10:00:00Z", time.Now())}
	api.events["con-2"] = []*Event{}

	ctx := context.Background()

	got, err := client.ListConsultantEventsCached(ctx, "con-1", "2025-01-01", "2025-01-02")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = client.ListConsultantEventsCached(ctx, "con-2", "2025-01-01", "2025-01-02")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListCachedDisabledByEnv(t *testing.T) {
	api, client := newFixture(t, true)
	api.events["main"] = []*Event{}
	t.Setenv("BOOKCTL_CACHE", "0")

	ctx := context.Background()
	_, err := client.ListDailyEventsCached(ctx, "main", "2025-01-01", "2025-01-02")
	require.NoError(t, err)
	_, err = client.ListDailyEventsCached(ctx, "main", "2025-01-01", "2025-01-02")
	require.NoError(t, err)

	// Both calls hit the API; the cache was bypassed.
	assert.Equal(t, int64(2), api.requests.Load())
}

func TestListEventsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t", nil)
	_, err := client.ListEvents(context.Background(), "main", "2025-01-01", "2025-01-02")
	assert.Error(t, err)
}
