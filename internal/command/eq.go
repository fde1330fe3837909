// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/slotops/bookctl/internal/calendar"
	"github.com/slotops/bookctl/internal/meta"
)

// EqCommandAction is the action handler for the "eq" subcommand. It lists
// events for a calendar (or a single consultant) in a date range, supports
// --tldr/--schema short-circuits, and emits results per common flags. Reads
// go through the file cache unless --refresh forces a fetch.
func EqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "eq") {
		return nil
	}

	// Bail out early if we're just dumping the schema.
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(calendar.Event{})) {
		return nil
	}

	attrs := BuildAttrs(cmd, ".id", "summary", "starts-at", "ends-at")
	log.Debugf("attrs: %v", attrs)

	client, err := NewCalendarClient(cmd)
	if err != nil {
		return err
	}

	from, to := dateRange(cmd)
	consultant := cmd.String("consultant")

	if cmd.Bool("refresh") {
		invalidateEventCache(consultant, from, to)
	}

	var results []*calendar.Event
	if consultant != "" {
		results, err = client.ListConsultantEventsCached(ctx, consultant, from, to)
	} else {
		cal := cmd.String("calendar")
		if cal == "" {
			return errors.New("no calendar. Use --calendar or --consultant")
		}
		results, err = client.ListDailyEventsCached(ctx, cal, from, to)
	}
	if err != nil {
		return err
	}

	if err := EmitJSONAPISlice(results, attrs, cmd); err != nil {
		return err
	}

	return nil
}

// EqCommandBuilder constructs the cli.Command for "eq", wiring metadata,
// flags, and action/validator handlers.
func EqCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "eq",
		Usage:     "event query",
		UsageText: `bookctl eq [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewCalendarFlag("eq", meta.Config.Source),
			NewURLFlag("eq", meta.Config.Source),
			NewTokenFlag("eq", meta.Config.Source),
			&cli.StringFlag{
				Name:  "consultant",
				Usage: "query a single consultant's calendar instead",
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
			&cli.BoolFlag{
				Name:        "refresh",
				Usage:       "drop any cached result before querying",
				HideDefault: true,
			},
			tldrFlag,
			schemaFlag,
		}, NewGlobalFlags("eq")...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := EqCommandValidator(ctx, c); err != nil {
				return err
			}
			return EqCommandAction(ctx, c)
		},
	}
}

// EqCommandValidator performs validation for "eq" and delegates to
// GlobalFlagsValidator.
func EqCommandValidator(ctx context.Context, cmd *cli.Command) error {
	return GlobalFlagsValidator(ctx, cmd)
}

// dateRange resolves --from/--to with spec'd defaults: from defaults to
// today, to defaults to from.
func dateRange(cmd *cli.Command) (from, to string) {
	from = cmd.String("from")
	if from == "" {
		from = time.Now().Format("2006-01-02")
	}
	to = cmd.String("to")
	if to == "" {
		to = from
	}
	return
}

// invalidateEventCache drops the cached entry that the subsequent cached
// listing call would otherwise return.
func invalidateEventCache(consultant, from, to string) {
	store := NewCacheStore()
	if store == nil {
		return
	}
	if consultant != "" {
		store.InvalidateConsultantEvents(consultant, from, to)
	} else {
		store.InvalidateCalendarEvents(from, to)
	}
}
