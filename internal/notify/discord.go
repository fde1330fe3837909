// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package notify posts operational notifications to a Discord webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-retryablehttp"
)

// Embed is a Discord rich embed. Only the fields the booking notifications
// use are modeled.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color,omitempty"`
}

// Message is the webhook payload.
type Message struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

// Notifier sends messages to one webhook URL. Transient failures (429, 5xx,
// network) are retried with backoff; a message that still fails after the
// retry budget is reported as an error and dropped.
type Notifier struct {
	WebhookURL string
	Username   string

	http *retryablehttp.Client
}

// New constructs a Notifier for the given webhook URL.
func New(webhookURL, username string) *Notifier {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 5
	rc.RetryWaitMin = time.Second
	rc.RetryWaitMax = 30 * time.Second
	rc.Logger = nil

	return &Notifier{
		WebhookURL: webhookURL,
		Username:   username,
		http:       rc,
	}
}

// Send posts a plain text message.
func (n *Notifier) Send(ctx context.Context, content string) error {
	return n.SendMessage(ctx, Message{Content: content})
}

// SendMessage posts a full message payload. Discord answers 204 on success;
// 200 with a body is also accepted (wait=true style responses).
func (n *Notifier) SendMessage(ctx context.Context, msg Message) error {
	if n.WebhookURL == "" {
		return fmt.Errorf("no webhook URL configured")
	}
	if msg.Username == "" {
		msg.Username = n.Username
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook rejected: %s", resp.Status)
	}

	log.Debugf("webhook delivered: %d bytes", len(body))
	return nil
}
