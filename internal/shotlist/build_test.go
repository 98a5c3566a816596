/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shotlist

import (
	"reflect"
	"testing"

	"shotcaller/internal/screenplay"
)

func sampleScenes() []screenplay.Scene {
	return []screenplay.Scene{
		{
			Number:  1,
			Heading: "INT. KITCHEN - DAY",
			Beats: []screenplay.Beat{
				{Kind: screenplay.BeatAction, Text: "John walks in."},
				{Kind: screenplay.BeatDialogue, Text: "JOHN: Hello."},
			},
			Characters: []string{"JOHN"},
		},
		{
			Number:  2,
			Heading: "EXT. CITY STREET - NIGHT",
			Beats: []screenplay.Beat{
				{Kind: screenplay.BeatAction, Text: "Rain falls."},
				{Kind: screenplay.BeatDialogue, Text: "MARY: It's late."},
				{Kind: screenplay.BeatDialogue, Text: "JOHN: Let's go."},
			},
			Characters: []string{"JOHN", "MARY"},
		},
	}
}

func TestBuildOneRowPerBeatWithShotRestart(t *testing.T) {
	scenes := sampleScenes()
	tbl := Build(scenes, Resolve(nil))

	if len(tbl.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(tbl.Rows))
	}
	wantScene := []int{1, 1, 2, 2, 2}
	wantShot := []int{1, 2, 1, 2, 3}
	for i, row := range tbl.Rows {
		if got := row["Scene #"]; got != wantScene[i] {
			t.Fatalf("row %d Scene # = %v, want %d", i, got, wantScene[i])
		}
		if got := row["Shot #"]; got != wantShot[i] {
			t.Fatalf("row %d Shot # = %v, want %d", i, got, wantShot[i])
		}
	}
}

func TestBuildPopulatesCellsAndDefaults(t *testing.T) {
	tbl := Build(sampleScenes(), Resolve(nil))
	row := tbl.Rows[0]

	if row["Scene Heading"] != "INT. KITCHEN - DAY" {
		t.Fatalf("unexpected heading cell: %v", row["Scene Heading"])
	}
	if row["Beat/Action"] != "[Action] John walks in." {
		t.Fatalf("unexpected beat cell: %q", row["Beat/Action"])
	}
	if tbl.Rows[1]["Beat/Action"] != "[Dialogue] JOHN: Hello." {
		t.Fatalf("unexpected dialogue cell: %q", tbl.Rows[1]["Beat/Action"])
	}
	if row["Shot Type"] != DefaultShotType || row["Angle"] != DefaultAngle {
		t.Fatalf("camera defaults missing: %+v", row)
	}
	if row["Movement"] != DefaultMovement || row["Lens"] != DefaultLens {
		t.Fatalf("camera defaults missing: %+v", row)
	}
	if row["Duration (s)"] != "" || row["Notes"] != "" {
		t.Fatalf("Duration/Notes should stay blank: %+v", row)
	}
	if row["Location"] != "KITCHEN" {
		t.Fatalf("unexpected location: %v", row["Location"])
	}
	if row["Characters"] != "JOHN" {
		t.Fatalf("unexpected characters: %v", row["Characters"])
	}
	if tbl.Rows[2]["Characters"] != "JOHN, MARY" {
		t.Fatalf("roster not joined sorted: %v", tbl.Rows[2]["Characters"])
	}
}

func TestBuildAgainstCustomSchema(t *testing.T) {
	schema := []string{"Scene", "Heading", "What Happens", "Props"}
	tbl := Build(sampleScenes(), Resolve(schema))

	row := tbl.Rows[0]
	if row["Scene"] != 1 {
		t.Fatalf("Scene cell = %v", row["Scene"])
	}
	if row["Heading"] != "INT. KITCHEN - DAY" {
		t.Fatalf("Heading cell = %v", row["Heading"])
	}
	if row["What Happens"] != "[Action] John walks in." {
		t.Fatalf("What Happens cell = %v", row["What Happens"])
	}
	// No logical field maps onto "Props"; it stays an empty placeholder.
	if row["Props"] != "" {
		t.Fatalf("Props cell = %v, want empty", row["Props"])
	}
	for _, c := range tbl.Columns {
		if _, ok := row[c]; !ok {
			t.Fatalf("row missing column %q", c)
		}
	}
}

func TestBuildEmptyScenesYieldsEmptyTable(t *testing.T) {
	tbl := Build(nil, Resolve(nil))
	if len(tbl.Rows) != 0 {
		t.Fatalf("expected 0 rows, got %d", len(tbl.Rows))
	}
	if len(tbl.Columns) != 12 {
		t.Fatalf("expected 12 columns, got %d", len(tbl.Columns))
	}
}

func TestBuildDeterministic(t *testing.T) {
	scenes := sampleScenes()
	res := Resolve([]string{"Scene", "Cast"})
	a := Build(scenes, res)
	b := Build(scenes, res)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated builds differ")
	}
}

func TestLocationFromHeading(t *testing.T) {
	cases := []struct {
		heading string
		want    string
	}{
		{"INT. KITCHEN - DAY", "KITCHEN"},
		{"EXT. CITY STREET - NIGHT", "CITY STREET"},
		{"INT/EXT. CAR - MOVING", "CAR"},
		{"I/E. TUNNEL", "TUNNEL"},
		{"INT. BASEMENT", "BASEMENT"},
		{"int. corner cafe - morning", "corner cafe"},
		{"INT. A - B - C", "A"},
		{"INT. ", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := locationFromHeading(c.heading); got != c.want {
			t.Errorf("locationFromHeading(%q) = %q, want %q", c.heading, got, c.want)
		}
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	input := "INT. KITCHEN - DAY\nJohn walks in.\n\nJOHN\nHello.\n"
	scenes := screenplay.ParseString(input)
	tbl := Build(scenes, Resolve(nil))

	total := 0
	for _, sc := range scenes {
		total += len(sc.Beats)
	}
	if len(tbl.Rows) != total {
		t.Fatalf("row count %d != beat count %d", len(tbl.Rows), total)
	}
	if tbl.Rows[0]["Location"] != "KITCHEN" || tbl.Rows[1]["Characters"] != "JOHN" {
		t.Fatalf("unexpected derived cells: %+v", tbl.Rows)
	}
}
