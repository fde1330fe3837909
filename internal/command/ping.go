// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/slotops/bookctl/internal/meta"
	"github.com/slotops/bookctl/internal/notify"
)

// PingCommandAction is the action handler for the "ping" subcommand. It
// posts a message (optionally with an embed) to a Discord webhook. Transient
// webhook failures are retried; a permanent failure is the command's error.
func PingCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "ping") {
		return nil
	}

	webhook := cmd.String("webhook")
	if webhook == "" {
		return errors.New("no webhook URL. Use --webhook, BOOKCTL_WEBHOOK or the config file")
	}

	content := cmd.String("message")
	if content == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read message from stdin: %w", err)
		}
		content = strings.TrimSpace(string(raw))
	}
	title := cmd.String("title")
	if content == "" && title == "" {
		return errors.New("nothing to send. Use --message and/or --title")
	}

	msg := notify.Message{Content: content}
	if title != "" {
		msg.Embeds = []notify.Embed{{
			Title:       title,
			Description: cmd.String("description"),
		}}
	}

	n := notify.New(webhook, cmd.String("username"))
	return n.SendMessage(ctx, msg)
}

// PingCommandBuilder constructs the cli.Command for "ping", wiring metadata,
// flags, and action handlers.
func PingCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "send a Discord webhook notification",
		UsageText: `bookctl ping --message <text> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewWebhookFlag("ping", meta.Config.Source),
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "message text, or - to read it from stdin",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "embed title",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "embed description",
			},
			&cli.StringFlag{
				Name:  "username",
				Usage: "webhook display name",
				Value: "bookctl",
			},
			tldrFlag,
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, c); err != nil {
				return err
			}
			return PingCommandAction(ctx, c)
		},
	}
}
