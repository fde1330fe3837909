// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastNotifier(url string) *Notifier {
	n := New(url, "bookctl")
	n.http.RetryWaitMin = time.Millisecond
	n.http.RetryWaitMax = 5 * time.Millisecond
	return n
}

func TestSend(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := fastNotifier(srv.URL)
	require.NoError(t, n.Send(context.Background(), "3 duplicate events removed"))

	assert.Equal(t, "bookctl", got.Username)
	assert.Equal(t, "3 duplicate events removed", got.Content)
}

func TestSendRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := fastNotifier(srv.URL)
	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, int64(3), calls.Load())
}

func TestSendGivesUpOnPermanentRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	n := fastNotifier(srv.URL)
	err := n.Send(context.Background(), "hello")
	assert.Error(t, err)
}

func TestSendMessageEmbeds(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := fastNotifier(srv.URL)
	msg := Message{
		Embeds: []Embed{{Title: "Migration finished", Description: "42 events copied", Color: 0x2ecc71}},
	}
	require.NoError(t, n.SendMessage(context.Background(), msg))
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "Migration finished", got.Embeds[0].Title)
}

func TestSendNoURL(t *testing.T) {
	n := New("", "bookctl")
	assert.Error(t, n.Send(context.Background(), "x"))
}
