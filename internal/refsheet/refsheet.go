/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package refsheet discovers a target column schema from a production's
// existing spreadsheet: the header row of a .csv or .xlsx file, cleaned of
// empty and placeholder names. Discovery never fails; anything unreadable
// falls back to the default catalog columns.
package refsheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shotcaller/internal/log"
	"shotcaller/internal/shotlist"
)

// Default returns the canonical catalog column names.
func Default() []string { return shotlist.DefaultColumns() }

// Columns reads the header row of the reference sheet at path. Header names
// are trimmed; empty ones and spreadsheet placeholders (any name starting
// with "unnamed", case-insensitive) are dropped. On any read failure, or
// when filtering leaves nothing, the default catalog columns are returned.
func Columns(path string) []string {
	headers, err := headerRow(path)
	if err != nil {
		log.WithComponent("refsheet").Warn("using default columns", "file", path, "error", err)
		return Default()
	}
	cols := filterHeaders(headers)
	if len(cols) == 0 {
		return Default()
	}
	return cols
}

func filterHeaders(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" || strings.HasPrefix(strings.ToLower(h), "unnamed") {
			continue
		}
		out = append(out, h)
	}
	return out
}

func headerRow(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return csvHeader(path)
	case ".xlsx":
		return xlsxHeader(path)
	default:
		return nil, fmt.Errorf("unsupported reference sheet type %q", filepath.Ext(path))
	}
}

func csvHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference sheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rec, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return rec, nil
}
