// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/slotops/bookctl/internal/bookings"
	"github.com/slotops/bookctl/internal/differ"
	"github.com/slotops/bookctl/internal/meta"
	"github.com/slotops/bookctl/internal/storage"
)

// BqCommandAction is the action handler for the "bq" subcommand. It reads a
// bookings document from a local file or an s3:// URI, parses either format,
// and emits the bookings per common flags.
func BqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "bq") {
		return nil
	}

	if DumpSchemaIfRequested(cmd, reflect.TypeOf(bookings.Booking{})) {
		return nil
	}

	if cmd.Bool("diff") {
		return bqDiffAction(ctx, cmd)
	}

	attrs := BuildAttrs(cmd, ".id", "client-name", "slot-start", "status")
	log.Debugf("attrs: %v", attrs)

	data, err := readBookingsSource(ctx, cmd)
	if err != nil {
		return err
	}

	doc, err := bookings.Parse(data)
	if err != nil {
		return err
	}
	if doc.Legacy {
		log.Warn("source document uses the legacy array format. Consider `bookctl conv`")
	}

	if err := EmitJSONAPISlice(doc.List(), attrs, cmd); err != nil {
		return err
	}

	return nil
}

// BqCommandBuilder constructs the cli.Command for "bq", wiring metadata,
// flags, and action/validator handlers.
func BqCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "bq",
		Usage:     "booking query",
		UsageText: `bookctl bq --source <path|s3://bucket/key> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewSourceFlag("bq", meta.Config.Source),
			&cli.BoolFlag{
				Name:        "diff",
				Usage:       "compare the two bookings documents given as arguments",
				HideDefault: true,
			},
			tldrFlag,
			schemaFlag,
		}, NewGlobalFlags("bq")...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := BqCommandValidator(ctx, c); err != nil {
				return err
			}
			return BqCommandAction(ctx, c)
		},
	}
}

// BqCommandValidator performs validation for "bq" and delegates to
// GlobalFlagsValidator.
func BqCommandValidator(ctx context.Context, cmd *cli.Command) error {
	return GlobalFlagsValidator(ctx, cmd)
}

// bqDiffAction compares the two bookings documents given as arguments and
// prints what changed between them.
func bqDiffAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return errors.New("--diff needs exactly two documents to compare")
	}

	a, err := readBookingsDocument(ctx, args[0])
	if err != nil {
		return err
	}
	b, err := readBookingsDocument(ctx, args[1])
	if err != nil {
		return err
	}

	report, changed, err := differ.Compare(a, b, cmd.Bool("color"))
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("documents are identical")
		return nil
	}
	fmt.Print(report)
	return nil
}

// readBookingsSource loads the --source document, from S3 when the spec is
// an s3:// URI and from the local filesystem otherwise.
func readBookingsSource(ctx context.Context, cmd *cli.Command) ([]byte, error) {
	src := cmd.String("source")
	if src == "" {
		return nil, errors.New("no bookings source. Use --source or the config file")
	}
	return readBookingsDocument(ctx, src)
}

func readBookingsDocument(ctx context.Context, src string) ([]byte, error) {
	if storage.IsS3URI(src) {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		return client.Read(ctx, src)
	}
	return bookings.LoadFile(src)
}
