/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package shotlist

import (
	"fmt"
	"regexp"
	"strings"

	"shotcaller/internal/screenplay"
)

// Row is one shotlist line keyed by resolved output column name. Scene and
// shot numbers are ints; every other populated cell is a string. Columns no
// logical field maps to hold "".

type Row map[string]any

// Table is the builder's output: Columns in resolution order, one Row per
// beat across all scenes.

type Table struct {
	Columns []string
	Rows    []Row
}

var (
	locationPrefixRE = regexp.MustCompile(`(?i)^\s*(INT|EXT|INT/EXT|I/E)\.?\s*`)
	locationSplitRE  = regexp.MustCompile(`\s*-\s*`)
)

// Build emits one row per beat, in scene then beat order. The per-scene
// shot counter starts at 1 and increments once per beat; camera columns get
// the fixed defaults; Duration and Notes stay blank. Build is deterministic
// and side-effect-free: the same scenes and resolution always produce the
// same table.
func Build(scenes []screenplay.Scene, res Resolution) *Table {
	t := &Table{Columns: res.Columns()}
	for _, sc := range scenes {
		roster := strings.Join(sc.Characters, ", ")
		location := locationFromHeading(sc.Heading)
		shot := 1
		for _, b := range sc.Beats {
			row := make(Row, len(t.Columns))
			for _, c := range t.Columns {
				row[c] = ""
			}
			row[res.Column(FieldSceneNumber)] = sc.Number
			row[res.Column(FieldSceneHeading)] = sc.Heading
			row[res.Column(FieldBeat)] = fmt.Sprintf("[%s] %s", b.Kind, b.Text)
			row[res.Column(FieldShotNumber)] = shot
			row[res.Column(FieldShotType)] = DefaultShotType
			row[res.Column(FieldAngle)] = DefaultAngle
			row[res.Column(FieldMovement)] = DefaultMovement
			row[res.Column(FieldLens)] = DefaultLens
			row[res.Column(FieldLocation)] = location
			row[res.Column(FieldCharacters)] = roster
			shot++
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// locationFromHeading strips the leading scene-type token from a heading
// and takes the text before the first hyphen separator: "INT. KITCHEN -
// DAY" yields "KITCHEN". Extraction never fails; degenerate headings yield
// the empty string.
func locationFromHeading(heading string) string {
	rest := locationPrefixRE.ReplaceAllString(heading, "")
	parts := locationSplitRE.Split(rest, -1)
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}
