// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// bookctl is the main package for the bookctl command line tool. It wires the
// CLI, delegates to internal packages, and serves as the entry point.
package main
