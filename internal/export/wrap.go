/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// boardFace is the fixed bitmap face used on the contact sheet. Face7x13
// keeps rendering deterministic with no font files to load.
func boardFace() font.Face { return basicfont.Face7x13 }

// wrapText breaks s into lines no wider than maxWidth pixels when rendered
// with face. Splitting is word-based; a single word wider than the limit
// gets its own line rather than being broken mid-word.
func wrapText(face font.Face, s string, maxWidth int) []string {
	d := &font.Drawer{Face: face}
	var lines []string
	var cur strings.Builder
	curW := 0
	for _, word := range strings.Fields(s) {
		w := advance(d, word)
		sp := 0
		if cur.Len() > 0 {
			sp = advance(d, " ")
		}
		if cur.Len() > 0 && curW+sp+w > maxWidth {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
			sp = 0
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
		curW += sp + w
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func advance(d *font.Drawer, s string) int {
	return int(d.MeasureString(s) >> 6) // fixed.Int26_6 to px
}
