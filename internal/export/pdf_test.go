/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotcaller/internal/screenplay"
	"shotcaller/internal/shotlist"
)

func TestWritePDF_CreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shotlist.pdf")
	if err := WritePDF(out, exportFixtureTable(), "Kitchen Day"); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf (starts %q)", data[:min(8, len(data))])
	}
	if len(data) < 1000 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(data))
	}
}

func TestWritePDF_ManyRowsPaginate(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("INT. STAGE - DAY\n\nThe crew resets the lights.\n\nA take rolls.\n\n")
	}
	scenes := screenplay.ParseString(sb.String())
	tbl := shotlist.Build(scenes, shotlist.Resolve(nil))
	if len(tbl.Rows) != 80 {
		t.Fatalf("fixture rows = %d, want 80", len(tbl.Rows))
	}

	out := filepath.Join(t.TempDir(), "long.pdf")
	if err := WritePDF(out, tbl, "Long One"); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	st, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() == 0 {
		t.Fatalf("empty pdf")
	}
}

func TestColumnWidths_SumToUsableWidth(t *testing.T) {
	widths := columnWidths(exportFixtureTable())
	if len(widths) != 12 {
		t.Fatalf("widths = %d columns, want 12", len(widths))
	}
	sum := 0.0
	for _, w := range widths {
		if w <= 0 {
			t.Fatalf("non-positive column width %f", w)
		}
		sum += w
	}
	usable := float64(pdfPageW - 2*pdfMargin)
	if sum < usable-0.5 || sum > usable+0.5 {
		t.Fatalf("widths sum %f, want about %f", sum, usable)
	}
}
