//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI helpers. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
//
// Ensure you have the Fyne dependencies installed and a working OS driver.
package ui

import (
	"strings"
	"testing"

	"shotcaller/internal/domain"
	"shotcaller/internal/screenplay"
	"shotcaller/internal/shotlist"
)

func TestPreviewLines(t *testing.T) {
	res := shotlist.Resolve(nil)
	scenes := screenplay.ParseString("INT. KITCHEN - DAY\n\nJohn enters with groceries.\n\nJOHN\nAnyone home?\n")
	tbl := shotlist.Build(scenes, res)
	lines := previewLines(tbl, res)
	if len(lines) != len(tbl.Rows) {
		t.Fatalf("expected %d preview lines, got %d", len(tbl.Rows), len(lines))
	}
	if !strings.HasPrefix(lines[0], "1.1 ") {
		t.Fatalf("expected first line to start with scene.shot numbering, got %q", lines[0])
	}
	if !strings.Contains(lines[0], "John enters with groceries.") {
		t.Fatalf("expected beat text in preview line, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Anyone home?") {
		t.Fatalf("expected dialogue text in second line, got %q", lines[1])
	}
}

func TestPreviewLines_TruncatesLongBeats(t *testing.T) {
	res := shotlist.Resolve(nil)
	long := strings.Repeat("walks and walks ", 20)
	scenes := screenplay.ParseString("EXT. ROAD - DAY\n\n" + long + "\n")
	tbl := shotlist.Build(scenes, res)
	lines := previewLines(tbl, res)
	if len(lines) != 1 {
		t.Fatalf("expected 1 preview line, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "…") {
		t.Fatalf("expected truncated line to end with ellipsis, got %q", lines[0])
	}
}

func TestPreviewLines_EmptyTable(t *testing.T) {
	res := shotlist.Resolve(nil)
	if got := previewLines(nil, res); len(got) != 0 {
		t.Fatalf("expected no lines for nil table, got %d", len(got))
	}
	empty := shotlist.Build(nil, res)
	if got := previewLines(empty, res); len(got) != 0 {
		t.Fatalf("expected no lines for empty table, got %d", len(got))
	}
}

func TestExportBaseName(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Pilot Episode 2", "Pilot-Episode-2"},
		{"", "shotlist"},
		{"***", "shotlist"},
		{"a/b: c", "ab-c"},
		{"Final_Cut-v3", "Final_Cut-v3"},
	}
	for _, c := range cases {
		got := exportBaseName(domain.ScreenplayRef{Title: c.title})
		if got != c.want {
			t.Fatalf("exportBaseName(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}
