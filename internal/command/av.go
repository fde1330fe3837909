// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"reflect"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/slotops/bookctl/internal/avatar"
	"github.com/slotops/bookctl/internal/bookings"
	"github.com/slotops/bookctl/internal/meta"
)

// avatarRow is one generated avatar, shaped for the common output pipeline.
type avatarRow struct {
	Name       string `jsonapi:"primary,avatars"`
	Initials   string `jsonapi:"attr,initials"`
	Background string `jsonapi:"attr,background"`
	URL        string `jsonapi:"attr,url"`
}

// AvCommandAction is the action handler for the "av" subcommand. It builds
// deterministic avatar URLs for the names given as arguments, or for every
// client in a bookings document when --source is set.
func AvCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "av") {
		return nil
	}

	if DumpSchemaIfRequested(cmd, reflect.TypeOf(avatarRow{})) {
		return nil
	}

	attrs := BuildAttrs(cmd, ".id", "initials", "url")
	log.Debugf("attrs: %v", attrs)

	names := cmd.Args().Slice()
	if src := cmd.String("source"); src != "" {
		data, err := readBookingsSource(ctx, cmd)
		if err != nil {
			return err
		}
		doc, err := bookings.Parse(data)
		if err != nil {
			return err
		}
		seen := map[string]bool{}
		for _, b := range doc.List() {
			if b.ClientName != "" && !seen[b.ClientName] {
				seen[b.ClientName] = true
				names = append(names, b.ClientName)
			}
		}
	}
	if len(names) == 0 {
		return errors.New("no names. Pass them as arguments or use --source")
	}

	gen := avatar.New(cmd.String("base-url"), cmd.Int("size"))

	results := make([]*avatarRow, 0, len(names))
	for _, name := range names {
		results = append(results, &avatarRow{
			Name:       name,
			Initials:   avatar.Initials(name),
			Background: avatar.Background(name),
			URL:        gen.URL(name),
		})
	}

	if err := EmitJSONAPISlice(results, attrs, cmd); err != nil {
		return err
	}

	return nil
}

// AvCommandBuilder constructs the cli.Command for "av", wiring metadata,
// flags, and action handlers.
func AvCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "av",
		Usage:     "generate avatar URLs",
		UsageText: `bookctl av [options] [name ...]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewSourceFlag("av", meta.Config.Source),
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "avatar service base URL",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("av.base", altsrc.StringSourcer(meta.Config.Source)),
				),
			},
			&cli.IntFlag{
				Name:  "size",
				Usage: "avatar size in pixels",
				Value: 128,
				Validator: func(value int) error {
					if value < 1 || value > 512 {
						return errors.New("must be between 1 and 512")
					}
					return nil
				},
			},
			tldrFlag,
			schemaFlag,
		}, NewGlobalFlags("av")...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, c); err != nil {
				return err
			}
			return AvCommandAction(ctx, c)
		},
	}
}
