// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/slotops/bookctl/internal/version.Version=...".
package version

var Version = "dev"
