/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

// BeatKind tags the variant of a Beat.

type BeatKind int

const (
	BeatAction BeatKind = iota
	BeatDialogue
)

func (k BeatKind) String() string {
	switch k {
	case BeatAction:
		return "Action"
	case BeatDialogue:
		return "Dialogue"
	default:
		return "Unknown"
	}
}

// Beat is one unit of shotlist content: an action description or a single
// spoken line. For BeatDialogue the text carries the speaker prefix, e.g.
// "JOHN: Hello.". Text is never empty after trimming; the parser discards
// empty buffers instead of emitting them.

type Beat struct {
	Kind BeatKind
	Text string
}

// Scene is a finalized slice of the screenplay. Scenes are immutable once
// returned by the parser: Number is 1-based and contiguous in document order,
// Heading is the raw trimmed heading line, Beats are in document order and
// Characters holds the unique cue names spoken in the scene, sorted.
//
// During parsing a scene exists only as the parser's internal builder;
// callers never observe a partially built Scene.

type Scene struct {
	Number     int
	Heading    string
	Beats      []Beat
	Characters []string
}
