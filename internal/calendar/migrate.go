// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package calendar

import (
	"context"

	"github.com/apex/log"
)

// MigrationReport summarizes a calendar migration pass.
type MigrationReport struct {
	Copied  int
	Skipped int
}

// MigrateEvents copies every event in the date range from the source
// calendar to the destination, skipping events the destination already has
// (same identity tuple). The copy is idempotent: rerunning after a partial
// failure only copies what is still missing.
func (c *Client) MigrateEvents(ctx context.Context, srcID, dstID, from, to string, dryRun bool) (MigrationReport, error) {
	var report MigrationReport

	src, err := c.ListEvents(ctx, srcID, from, to)
	if err != nil {
		return report, err
	}

	dst, err := c.ListEvents(ctx, dstID, from, to)
	if err != nil {
		return report, err
	}

	existing := make(map[Key]bool, len(dst))
	for _, ev := range dst {
		existing[ev.DupKey()] = true
	}

	for _, ev := range src {
		if existing[ev.DupKey()] {
			report.Skipped++
			log.Debugf("skipping %q %s, already on %s", ev.Summary, ev.StartsAt, dstID)
			continue
		}

		if !dryRun {
			copyEv := *ev
			copyEv.ID = ""
			copyEv.CalendarID = dstID
			if _, err := c.CreateEvent(ctx, dstID, &copyEv); err != nil {
				return report, err
			}
		}
		report.Copied++
	}

	return report, nil
}
