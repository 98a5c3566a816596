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

const exportFixtureDoc = `INT. KITCHEN - DAY

John enters with groceries.

JOHN
Anyone home?

MARY
In here.

EXT. GARDEN - NIGHT

Mary waters the roses.

CUT TO:
`

func exportFixtureScenes() []screenplay.Scene {
	return screenplay.ParseString(exportFixtureDoc)
}

func exportFixtureTable() *shotlist.Table {
	return shotlist.Build(exportFixtureScenes(), shotlist.Resolve(nil))
}

func TestWriteCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportFixtureTable()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := strings.Join([]string{
		"Scene #,Scene Heading,Beat/Action,Shot #,Shot Type,Angle,Movement,Lens,Duration (s),Location,Characters,Notes",
		`1,INT. KITCHEN - DAY,[Action] John enters with groceries.,1,MS,Eye-level,Static,35mm,,KITCHEN,"JOHN, MARY",`,
		`1,INT. KITCHEN - DAY,[Dialogue] JOHN: Anyone home?,2,MS,Eye-level,Static,35mm,,KITCHEN,"JOHN, MARY",`,
		`1,INT. KITCHEN - DAY,[Dialogue] MARY: In here.,3,MS,Eye-level,Static,35mm,,KITCHEN,"JOHN, MARY",`,
		"2,EXT. GARDEN - NIGHT,[Action] Mary waters the roses.,1,MS,Eye-level,Static,35mm,,GARDEN,,",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("csv output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteCSV_Deterministic(t *testing.T) {
	tbl := exportFixtureTable()
	var a, b bytes.Buffer
	if err := WriteCSV(&a, tbl); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteCSV(&b, tbl); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("repeated writes differ")
	}
}

func TestSaveCSV_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "exports", "run-1", "shotlist.csv")
	if err := SaveCSV(out, exportFixtureTable()); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}
	st, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() == 0 {
		t.Fatalf("empty csv written")
	}
}

func TestCellText(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"KITCHEN", "KITCHEN"},
		{7, "7"},
		{3.5, "3.5"},
	}
	for _, c := range cases {
		if got := cellText(c.in); got != c.want {
			t.Fatalf("cellText(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
