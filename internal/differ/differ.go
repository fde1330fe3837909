// Copyright (c) 2025 The bookctl authors.
// SPDX-License-Identifier: Apache-2.0

// Package differ renders a human-readable diff between two bookings
// documents (keyed-map format).
package differ

import (
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Compare diffs two JSON objects and renders the changes in a unified,
// ascii style. changed is false when the documents are semantically equal.
func Compare(a, b []byte, coloring bool) (report string, changed bool, err error) {
	diff, err := gojsondiff.New().Compare(a, b)
	if err != nil {
		return "", false, fmt.Errorf("failed to diff documents: %w", err)
	}

	if !diff.Modified() {
		return "", false, nil
	}

	var left map[string]interface{}
	if err := json.Unmarshal(a, &left); err != nil {
		return "", true, fmt.Errorf("failed to decode left document: %w", err)
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       coloring,
	})
	report, err = f.Format(diff)
	if err != nil {
		return "", true, fmt.Errorf("failed to format diff: %w", err)
	}

	return report, true, nil
}
