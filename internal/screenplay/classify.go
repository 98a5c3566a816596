/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"regexp"
	"strings"
	"unicode"
)

// Line classification is heuristic and strictly line-local: no look-ahead or
// look-behind. Precedence for lines matching more than one pattern is
// heading > cue > transition; anything unmatched falls through to action
// text in the parser.

var (
	// Scene headings start with a scene-type token, an optional period and
	// at least one whitespace character: "INT. KITCHEN - DAY", "I/E CAR".
	sceneHeadingRE = regexp.MustCompile(`(?i)^(INT|EXT|INT/EXT|I/E)\.?\s`)

	// Transitions are all-caps lines anchored on a trailing "TO:", such as
	// "CUT TO:" or "SMASH CUT TO:". A bare "TO:" does not qualify.
	transitionRE = regexp.MustCompile(`^[A-Z \t]+TO:$`)

	// Character cue names: letters, digits, spaces, hyphens, parentheses,
	// apostrophes and periods, with an optional parenthetical extension
	// like "(O.S.)" or "(CONT'D)".
	characterNameRE = regexp.MustCompile(`^[A-Z0-9 ()'.\-]+(?:\(.*\))?$`)
)

// maxCueLength bounds cue lines; real cues are short.
const maxCueLength = 60

// cueUpperRatio is the minimum share of uppercase letters among all letters
// for a line to count as a cue.
const cueUpperRatio = 0.8

// IsSceneHeading reports whether the line opens a new scene.
func IsSceneHeading(line string) bool {
	return sceneHeadingRE.MatchString(strings.TrimSpace(line))
}

// IsTransition reports whether the line is a transition such as "CUT TO:".
func IsTransition(line string) bool {
	return transitionRE.MatchString(strings.TrimSpace(line))
}

// IsCharacterCue reports whether the line names a character about to speak.
// A line that already classifies as a heading or transition is never a cue,
// and a line with no letters at all is never a cue.
func IsCharacterCue(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" || len(s) > maxCueLength {
		return false
	}
	if IsSceneHeading(s) || IsTransition(s) {
		return false
	}
	var letters, upper int
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return false
	}
	if float64(upper)/float64(letters) <= cueUpperRatio {
		return false
	}
	return characterNameRE.MatchString(s)
}
