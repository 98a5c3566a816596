/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// maxLineBytes is the scanner token limit for Parse. Screenplay lines are
// short; the limit only guards against pathological input.
const maxLineBytes = 1 << 20

// state names the parser's position in the document.

type state int

const (
	stateNoScene state = iota
	stateInScene
	stateInDialogue
)

// sceneBuilder accumulates one scene while it is current. finalize produces
// the immutable Scene value; ownership transfers to the output sequence and
// the builder is discarded.

type sceneBuilder struct {
	number  int
	heading string
	beats   []Beat
	chars   map[string]struct{}
}

func newSceneBuilder(number int, heading string) *sceneBuilder {
	return &sceneBuilder{number: number, heading: heading, chars: make(map[string]struct{})}
}

func (b *sceneBuilder) addBeat(kind BeatKind, text string) {
	b.beats = append(b.beats, Beat{Kind: kind, Text: text})
}

func (b *sceneBuilder) addCharacter(name string) {
	b.chars[name] = struct{}{}
}

func (b *sceneBuilder) finalize() Scene {
	names := make([]string, 0, len(b.chars))
	for n := range b.chars {
		names = append(names, n)
	}
	sort.Strings(names)
	return Scene{Number: b.number, Heading: b.heading, Beats: b.beats, Characters: names}
}

// parser is the line state machine. One call to step consumes one raw input
// line; the transitions below are tested in order:
//
//  1. Scene heading: close the open scene (flush pending action first), open
//     a new one with the next sequential number.
//  2. No scene open: the line is discarded; pre-heading content is not
//     represented.
//  3. Blank line: flush pending action, end the active speaker's block.
//  4. Character cue: flush pending action, the cue becomes the active
//     speaker and joins the scene roster.
//  5. Active speaker and a non-blank line: emit a Dialogue beat immediately,
//     prefixed with the speaker name.
//  6. Transition (only reachable with no active speaker): flush pending
//     action, drop the transition line itself.
//  7. Anything else: accumulate as action text.

type parser struct {
	st      state
	scenes  []Scene
	cur     *sceneBuilder
	action  []string
	speaker string
}

func (p *parser) step(line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case IsSceneHeading(line):
		p.closeScene()
		p.cur = newSceneBuilder(len(p.scenes)+1, trimmed)
		p.st = stateInScene
	case p.st == stateNoScene:
		// discard
	case trimmed == "":
		p.flushAction()
		p.speaker = ""
		p.st = stateInScene
	case IsCharacterCue(line):
		p.flushAction()
		p.speaker = trimmed
		p.cur.addCharacter(trimmed)
		p.st = stateInDialogue
	case p.st == stateInDialogue:
		p.cur.addBeat(BeatDialogue, p.speaker+": "+trimmed)
	case IsTransition(line):
		p.flushAction()
	default:
		p.action = append(p.action, line)
	}
}

// flushAction joins the pending buffer into a single Action beat: lines are
// trimmed individually, blank ones skipped, the rest joined with single
// spaces. An all-blank buffer yields no beat.
func (p *parser) flushAction() {
	if len(p.action) == 0 {
		return
	}
	parts := make([]string, 0, len(p.action))
	for _, l := range p.action {
		if t := strings.TrimSpace(l); t != "" {
			parts = append(parts, t)
		}
	}
	p.action = p.action[:0]
	if len(parts) == 0 {
		return
	}
	p.cur.addBeat(BeatAction, strings.Join(parts, " "))
}

// closeScene flushes pending action and moves the current scene, if any,
// into the finalized output.
func (p *parser) closeScene() {
	if p.cur == nil {
		return
	}
	p.flushAction()
	p.scenes = append(p.scenes, p.cur.finalize())
	p.cur = nil
	p.speaker = ""
	p.st = stateNoScene
}

// Parse segments a screenplay document into scenes. Recognized line forms:
//
//   - Scene headings: lines starting with INT/EXT/INT/EXT/I/E (optional
//     period, then whitespace) open a new scene.
//   - Character cues: short, mostly-uppercase lines naming a speaker.
//   - Dialogue: non-blank lines while a speaker is active.
//   - Transitions: all-caps lines ending in "TO:", dropped from output.
//   - Everything else accumulates as action text until the next blank line,
//     cue, transition or heading.
//
// Malformed text is never an error; every line lands in exactly one of the
// categories above or is absorbed as action. The only error returned is a
// failure of the underlying reader.
func Parse(r io.Reader) ([]Scene, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		p.step(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan screenplay: %w", err)
	}
	p.closeScene()
	return p.scenes, nil
}

// ParseString is Parse over an in-memory document. It cannot fail.
func ParseString(text string) []Scene {
	p := &parser{}
	for _, line := range strings.Split(text, "\n") {
		p.step(strings.TrimSuffix(line, "\r"))
	}
	p.closeScene()
	return p.scenes
}
