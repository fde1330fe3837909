// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/slotops/bookctl/internal/cache"
	"github.com/slotops/bookctl/internal/meta"
)

// CacheCommandBuilder constructs the cli.Command for "cache" and its
// stats/purge/clear subcommands.
func CacheCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "cache",
		Usage:     "inspect and maintain the file cache",
		UsageText: `bookctl cache <stats|purge|clear> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{tldrFlag},
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "show cache entry counts and sizes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return cacheStatsAction(ctx, c)
				},
			},
			{
				Name:  "purge",
				Usage: "remove cache entries older than a cutoff",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "age cutoff, e.g. 24h or 30m",
						Value: 24 * time.Hour,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return cachePurgeAction(ctx, c)
				},
			},
			{
				Name:  "clear",
				Usage: "remove every cache entry",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						HideDefault: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return cacheClearAction(ctx, c)
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if ShortCircuitTLDR(ctx, c, "cache") {
				return nil
			}
			return cli.ShowSubcommandHelp(c)
		},
	}
}

// openCacheStore is the strict variant of NewCacheStore for the maintenance
// subcommands, which should fail loudly rather than silently no-op.
func openCacheStore() (*cache.Store, error) {
	store := NewCacheStore()
	if store == nil {
		return nil, errors.New("cache is disabled or has no usable directory")
	}
	return store, nil
}

func cacheStatsAction(ctx context.Context, cmd *cli.Command) error {
	store, err := openCacheStore()
	if err != nil {
		return err
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("directory: %s\n", stats.Dir)
	fmt.Printf("entries:   %s\n", humanize.Comma(int64(stats.TotalFiles)))
	fmt.Printf("size:      %s\n", humanize.IBytes(uint64(stats.TotalSize)))

	if len(stats.Categories) > 0 {
		cats := make([]string, 0, len(stats.Categories))
		for c := range stats.Categories {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		fmt.Println("categories:")
		for _, c := range cats {
			fmt.Printf("  %-30s %d entries, ttl %s\n", c, stats.Categories[c], store.TTL(c))
		}
	}

	return nil
}

func cachePurgeAction(ctx context.Context, cmd *cli.Command) error {
	store, err := openCacheStore()
	if err != nil {
		return err
	}

	maxAge := cmd.Duration("older-than")
	if err := store.Purge(maxAge); err != nil {
		return err
	}
	log.Debugf("purged entries older than %s", maxAge)
	fmt.Printf("purged entries older than %s\n", maxAge)
	return nil
}

func cacheClearAction(ctx context.Context, cmd *cli.Command) error {
	store, err := openCacheStore()
	if err != nil {
		return err
	}

	if !Confirm(cmd, "Remove every cache entry?") {
		fmt.Println("aborted")
		return nil
	}

	if err := store.ClearAll(); err != nil {
		return err
	}
	fmt.Println("cache cleared")
	return nil
}
