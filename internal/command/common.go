// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/jsonapi"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/slotops/bookctl/internal/attrs"
	"github.com/slotops/bookctl/internal/cache"
	"github.com/slotops/bookctl/internal/calendar"
	"github.com/slotops/bookctl/internal/config"
	"github.com/slotops/bookctl/internal/meta"
	"github.com/slotops/bookctl/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr bookctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "bookctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the JSON schema for the provided type when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema("", t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitJSONAPISlice marshals a slice as JSONAPI and passes it to the common
// output routine.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	output.SliceDiceSpit(raw, al, cmd, "data", os.Stdout)
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// NewCacheStore builds the file cache from config. Per-category TTLs come
// from cache.ttl.<category> keys (seconds). Returns nil when caching is
// disabled or no directory can be resolved; callers treat nil as "no cache".
func NewCacheStore() *cache.Store {
	if !cache.Enabled() {
		log.Debug("cache disabled via BOOKCTL_CACHE")
		return nil
	}

	// BOOKCTL_CACHE_DIR wins, then cache.dir from the config file, then the
	// user cache directory.
	dir, ok := cache.Dir()
	if os.Getenv("BOOKCTL_CACHE_DIR") == "" {
		if d, err := config.GetString("cache.dir"); err == nil && d != "" {
			dir, ok = d, true
		}
	}
	if !ok {
		log.Debug("no cache directory could be resolved")
		return nil
	}

	ttls := map[string]time.Duration{}
	for _, cat := range []string{
		cache.CategoryCalendarEvents,
		cache.CategoryConsultantEvents,
	} {
		if secs, err := config.GetInt("cache.ttl." + cat); err == nil && secs > 0 {
			ttls[cat] = time.Duration(secs) * time.Second
		}
	}

	store, err := cache.New(dir, ttls)
	if err != nil {
		log.WithError(err).Warn("cache unavailable")
		return nil
	}

	// cache.clean (hours) sweeps stale entries opportunistically on open.
	if hours, err := config.GetInt("cache.clean"); err == nil && hours > 0 {
		if err := store.Purge(time.Duration(hours) * time.Hour); err != nil {
			log.WithError(err).Warn("failed to clean cache")
		}
	}

	return store
}

// NewCalendarClient resolves the API URL and token from flags and builds a
// Client wired to the file cache.
func NewCalendarClient(cmd *cli.Command) (*calendar.Client, error) {
	url := cmd.String("url")
	if url == "" {
		return nil, errors.New("no calendar API URL. Use --url, BOOKCTL_URL or the config file")
	}

	token, err := ResolveToken(cmd)
	if err != nil {
		return nil, err
	}

	return calendar.NewClient(url, token, NewCacheStore()), nil
}

// ResolveToken returns the API token from the --token flag chain (flag, env,
// config file). When nothing resolves and stdin is a terminal, it prompts
// without echo.
func ResolveToken(cmd *cli.Command) (string, error) {
	if token := cmd.String("token"); token != "" {
		return token, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no API token. Use --token, BOOKCTL_TOKEN or the config file")
	}

	fmt.Fprint(os.Stderr, "API token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}

// Confirm prompts for a y/N answer on stdin. --yes short-circuits to true;
// a non-interactive stdin without --yes answers false.
func Confirm(cmd *cli.Command, prompt string) bool {
	if cmd.Bool("yes") {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
