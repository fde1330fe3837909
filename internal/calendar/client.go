// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/slotops/bookctl/internal/cache"
)

// Client talks to the booking platform's calendar API. All listing calls
// paginate server-side; the cached variants consult the file cache first and
// write fetched pages back, with every cache failure degrading to a plain
// fetch.
type Client struct {
	BaseURL string
	Token   string

	http  *retryablehttp.Client
	store *cache.Store
}

// NewClient constructs a Client. store may be nil, which disables the cached
// listing variants' read-through behavior (they fetch every time).
func NewClient(baseURL, token string, store *cache.Store) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 4
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.Logger = nil

	return &Client{
		BaseURL: baseURL,
		Token:   token,
		http:    rc,
		store:   store,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("calendar API %s %s: %s", method, path, resp.Status)
	}

	return doc, nil
}

// ListEvents returns all events on a calendar between from and to
// (inclusive dates, YYYY-MM-DD), walking every page.
func (c *Client) ListEvents(ctx context.Context, calendarID, from, to string) ([]*Event, error) {
	var results []*Event

	page := 1
	for {
		q := url.Values{}
		q.Set("from", from)
		q.Set("to", to)
		q.Set("page", strconv.Itoa(page))

		doc, err := c.do(ctx, http.MethodGet, "/calendars/"+calendarID+"/events", q, nil)
		if err != nil {
			return nil, err
		}

		var ep eventPage
		if err := json.Unmarshal(doc, &ep); err != nil {
			return nil, fmt.Errorf("failed to decode event page: %w", err)
		}

		results = append(results, ep.Events...)
		log.Debugf("page: %d, total: %d", page, len(results))

		if ep.Pagination.NextPage == 0 {
			break
		}
		page = ep.Pagination.NextPage
	}

	return results, nil
}

// CreateEvent creates an event on the given calendar and returns the
// server's copy.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, ev *Event) (*Event, error) {
	doc, err := c.do(ctx, http.MethodPost, "/calendars/"+calendarID+"/events", nil, ev)
	if err != nil {
		return nil, err
	}

	var created Event
	if err := json.Unmarshal(doc, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created event: %w", err)
	}
	return &created, nil
}

// DeleteEvent removes an event from a calendar.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/calendars/"+calendarID+"/events/"+eventID, nil, nil)
	return err
}

// ListDailyEventsCached is ListEvents for the shared booking calendar with a
// read-through on the calendar-events-daily cache category.
func (c *Client) ListDailyEventsCached(ctx context.Context, calendarID, from, to string) ([]*Event, error) {
	return c.listCached(ctx, calendarID, from, to,
		cache.CategoryCalendarEvents, cache.CalendarEventsKey(from, to))
}

// ListConsultantEventsCached is ListEvents for a consultant's calendar with
// a read-through on the consultant-events cache category.
func (c *Client) ListConsultantEventsCached(ctx context.Context, consultantID, from, to string) ([]*Event, error) {
	return c.listCached(ctx, consultantID, from, to,
		cache.CategoryConsultantEvents, cache.ConsultantEventsKey(consultantID, from, to))
}

// listCached is the common read-through path: consult the cache, fall back
// to the API, write the fetched result back. Cache reads that fail to decode
// are invalidated and treated as misses; cache write failures are logged and
// otherwise ignored.
func (c *Client) listCached(ctx context.Context, calendarID, from, to, category, key string) ([]*Event, error) {
	if c.store == nil || !cache.Enabled() {
		return c.ListEvents(ctx, calendarID, from, to)
	}

	if data, ok := c.store.Get(category, key); ok {
		var events []*Event
		if err := json.Unmarshal(data, &events); err == nil {
			return events, nil
		}
		log.Errorf("discarding undecodable cache entry for calendar %s", calendarID)
		c.store.Invalidate(category, key)
	}

	events, err := c.ListEvents(ctx, calendarID, from, to)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(events); err == nil {
		if err := c.store.Set(category, key, data); err != nil {
			log.WithError(err).Warn("failed to write events to cache")
		}
	}

	return events, nil
}
