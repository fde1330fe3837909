// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package calendar

import (
	"context"
	"sort"

	"github.com/apex/log"
)

// DupeReport summarizes a duplicate-repair pass.
type DupeReport struct {
	Groups  int      // duplicate tuples found
	Kept    []*Event // the surviving event of each group
	Removed []*Event // events deleted (or that would be, in a dry run)
}

// FindDuplicates groups events by their identity tuple and returns only the
// groups with more than one member. Within each group events are ordered
// oldest-created first, so index 0 is the keeper.
func FindDuplicates(events []*Event) [][]*Event {
	byKey := make(map[Key][]*Event)
	for _, ev := range events {
		k := ev.DupKey()
		byKey[k] = append(byKey[k], ev)
	}

	//nolint:prealloc
	var groups [][]*Event
	for _, group := range byKey {
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		groups = append(groups, group)
	}

	// Deterministic report order.
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i][0], groups[j][0]
		if a.StartsAt != b.StartsAt {
			return a.StartsAt < b.StartsAt
		}
		return a.Summary < b.Summary
	})

	return groups
}

// RemoveDuplicates lists a calendar's events in the given range, keeps the
// oldest event of every duplicate tuple, and deletes the rest. With dryRun
// the report is produced but nothing is deleted.
func (c *Client) RemoveDuplicates(ctx context.Context, calendarID, from, to string, dryRun bool) (DupeReport, error) {
	var report DupeReport

	events, err := c.ListEvents(ctx, calendarID, from, to)
	if err != nil {
		return report, err
	}

	for _, group := range FindDuplicates(events) {
		report.Groups++
		report.Kept = append(report.Kept, group[0])

		for _, ev := range group[1:] {
			if !dryRun {
				if err := c.DeleteEvent(ctx, calendarID, ev.ID); err != nil {
					return report, err
				}
			}
			report.Removed = append(report.Removed, ev)
			log.Debugf("duplicate %q %s removed (kept %s)", ev.Summary, ev.ID, group[0].ID)
		}
	}

	return report, nil
}
