// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/slotops/bookctl/internal/bookings"
	"github.com/slotops/bookctl/internal/differ"
	"github.com/slotops/bookctl/internal/meta"
	"github.com/slotops/bookctl/internal/storage"
)

// ConvCommandAction is the action handler for the "conv" subcommand. It
// converts a bookings document from the legacy array format to the keyed map
// format. Without --write the converted document goes to stdout; with
// --write the source is replaced (local files keep a .bak of the original).
// --diff shows what the conversion changes instead of the full document.
func ConvCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "conv") {
		return nil
	}

	src := cmd.String("source")
	data, err := readBookingsSource(ctx, cmd)
	if err != nil {
		return err
	}

	converted, changed, err := bookings.Convert(data)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("already in the keyed format, nothing to do")
		return nil
	}

	if cmd.Bool("diff") {
		report, _, err := differ.Compare(data, converted, cmd.Bool("color"))
		if err != nil {
			return err
		}
		fmt.Print(report)
	}

	if !cmd.Bool("write") {
		if !cmd.Bool("diff") {
			_, _ = os.Stdout.Write(converted)
		}
		return nil
	}

	if storage.IsS3URI(src) {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return err
		}
		if err := client.Write(ctx, src, converted); err != nil {
			return err
		}
	} else {
		if err := bookings.SaveFile(src, converted); err != nil {
			return err
		}
	}

	fmt.Printf("converted %s\n", src)
	return nil
}

// ConvCommandBuilder constructs the cli.Command for "conv", wiring metadata,
// flags, and action handlers.
func ConvCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "conv",
		Usage:     "convert a bookings document to the keyed format",
		UsageText: `bookctl conv --source <path|s3://bucket/key> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewSourceFlag("conv", meta.Config.Source),
			&cli.BoolFlag{
				Name:        "write",
				Usage:       "replace the source document in place",
				HideDefault: true,
			},
			&cli.BoolFlag{
				Name:        "diff",
				Usage:       "show what the conversion changes",
				HideDefault: true,
			},
			&cli.BoolWithInverseFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored diff output",
				Value:   false,
			},
			tldrFlag,
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, c); err != nil {
				return err
			}
			return ConvCommandAction(ctx, c)
		},
	}
}
