// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package command defines the CLI command set for bookctl. It wires flags,
// validators, and actions for subcommands.
package command
