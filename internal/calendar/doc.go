// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package calendar is the client for the booking platform's calendar API,
// plus the maintenance procedures built on it: event migration between
// calendars and duplicate-event repair.
package calendar
