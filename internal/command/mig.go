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
	"github.com/slotops/bookctl/internal/notify"
)

// MigCommandAction is the action handler for the "mig" subcommand. It copies
// events from a source calendar to a destination calendar for a date range,
// skipping events the destination already holds. The copy is idempotent, so
// a partially failed run can simply be rerun.
func MigCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "mig") {
		return nil
	}

	src := cmd.String("src")
	dst := cmd.String("dst")
	if src == "" || dst == "" {
		return errors.New("both --src and --dst calendars are required")
	}
	if src == dst {
		return errors.New("--src and --dst must differ")
	}

	client, err := NewCalendarClient(cmd)
	if err != nil {
		return err
	}

	from, to := dateRange(cmd)
	dryRun := cmd.Bool("dry-run")

	report, err := client.MigrateEvents(ctx, src, dst, from, to, dryRun)
	if err != nil {
		return err
	}

	verb := "copied"
	if dryRun {
		verb = "would copy"
	}
	fmt.Printf("%s %d event(s), skipped %d already present\n", verb, report.Copied, report.Skipped)

	if webhook := cmd.String("webhook"); webhook != "" && !dryRun {
		n := notify.New(webhook, "bookctl")
		msg := fmt.Sprintf("Calendar migration %s -> %s: %d copied, %d skipped.",
			src, dst, report.Copied, report.Skipped)
		if err := n.Send(ctx, msg); err != nil {
			log.WithError(err).Warn("failed to send migration notification")
		}
	}

	return nil
}

// MigCommandBuilder constructs the cli.Command for "mig", wiring metadata,
// flags, and action/validator handlers.
func MigCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "mig",
		Usage:     "migrate events between calendars",
		UsageText: `bookctl mig --src <calendar> --dst <calendar> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewURLFlag("mig", meta.Config.Source),
			NewTokenFlag("mig", meta.Config.Source),
			NewWebhookFlag("mig", meta.Config.Source),
			&cli.StringFlag{
				Name:  "src",
				Usage: "calendar to copy events from",
			},
			&cli.StringFlag{
				Name:  "dst",
				Usage: "calendar to copy events to",
			},
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
			dryRunFlag,
			tldrFlag,
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, c); err != nil {
				return err
			}
			return MigCommandAction(ctx, c)
		},
	}
}
