// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/slotops/bookctl/internal/meta"
)

// FixCommandAction is the action handler for the "fix" subcommand. It finds
// events on a calendar that share the same (summary, starts-at, ends-at)
// tuple and deletes all but the oldest of each group. Deletion is gated on
// --yes or an interactive confirmation unless --dry-run is set.
func FixCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "fix") {
		return nil
	}

	cal := cmd.String("calendar")
	if cal == "" {
		return errors.New("no calendar. Use --calendar, BOOKCTL_CALENDAR or the config file")
	}

	client, err := NewCalendarClient(cmd)
	if err != nil {
		return err
	}

	from, to := dateRange(cmd)
	dryRun := cmd.Bool("dry-run")

	if !dryRun {
		prompt := fmt.Sprintf("Delete duplicate events on %s between %s and %s?", cal, from, to)
		if !Confirm(cmd, prompt) {
			fmt.Println("aborted")
			return nil
		}
	}

	report, err := client.RemoveDuplicates(ctx, cal, from, to, dryRun)
	if err != nil {
		return err
	}

	if report.Groups == 0 {
		fmt.Println("no duplicates found")
		return nil
	}

	verb := "removed"
	if dryRun {
		verb = "would remove"
	}
	fmt.Printf("%d duplicate group(s): kept %d, %s %d\n",
		report.Groups, len(report.Kept), verb, len(report.Removed))

	for _, ev := range report.Removed {
		fmt.Printf("  %s %s  %s (%s)\n", verb, ev.ID, ev.Summary, ev.StartsAt)
	}

	return nil
}

// FixCommandBuilder constructs the cli.Command for "fix", wiring metadata,
// flags, and action/validator handlers.
func FixCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "fix",
		Usage:     "remove duplicate events from a calendar",
		UsageText: `bookctl fix --calendar <calendar> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewCalendarFlag("fix", meta.Config.Source),
			NewURLFlag("fix", meta.Config.Source),
			NewTokenFlag("fix", meta.Config.Source),
			&cli.StringFlag{
				Name:  "from",
				Usage: "start of the date range (YYYY-MM-DD, default today)",
				Validator: func(value string) error {
					return FlagValidators(value, DateValidator)
				},
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "end of the date range (YYYY-MM-DD, default from)",
				Validator: func(value string) error {
					return FlagValidators(value, DateValidator)
				},
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				HideDefault: true,
			},
			dryRunFlag,
			tldrFlag,
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, c); err != nil {
				return err
			}
			return FixCommandAction(ctx, c)
		},
	}
}
