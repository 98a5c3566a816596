/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"shotcaller/internal/screenplay"
)

func TestWriteBoard_CreatesDecodablePNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board.png")
	if err := WriteBoard(out, exportFixtureScenes(), BoardOptions{}); err != nil {
		t.Fatalf("WriteBoard: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Fixture has 4 beats, one row of 4 default 240x150 cards.
	wantW := 2*boardMargin + 4*defaultCardW + 3*boardGap
	wantH := 2*boardMargin + defaultCardH
	b := img.Bounds()
	if b.Dx() != wantW || b.Dy() != wantH {
		t.Fatalf("bounds %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
}

func TestWriteBoard_CustomGrid(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board")
	opt := BoardOptions{Columns: 2, CardW: 200, CardH: 100}
	if err := WriteBoard(out, exportFixtureScenes(), opt); err != nil {
		t.Fatalf("WriteBoard: %v", err)
	}
	f, err := os.Open(out + ".png")
	if err != nil {
		t.Fatalf("extension not appended: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 4 beats in 2 columns is a 2x2 grid.
	wantW := 2*boardMargin + 2*200 + boardGap
	wantH := 2*boardMargin + 2*100 + boardGap
	b := img.Bounds()
	if b.Dx() != wantW || b.Dy() != wantH {
		t.Fatalf("bounds %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
}

func TestWriteBoard_NoBeatsFails(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board.png")
	if err := WriteBoard(out, nil, BoardOptions{}); err == nil {
		t.Fatalf("expected error for empty scene list")
	}
}

func TestWrapText(t *testing.T) {
	face := boardFace()
	// Face7x13 advances 7px per glyph, so 70px fits ten characters.
	cases := []struct {
		in    string
		width int
		want  []string
	}{
		{"", 100, nil},
		{"alpha beta gamma", 70, []string{"alpha beta", "gamma"}},
		{"a b c", 1000, []string{"a b c"}},
		{"unbreakablyverylong", 70, []string{"unbreakablyverylong"}},
	}
	for _, c := range cases {
		got := wrapText(face, c.in, c.width)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("wrapText(%q, %d) = %v, want %v", c.in, c.width, got, c.want)
		}
	}
}

func TestWrapText_NeverExceedsWidthForBreakableText(t *testing.T) {
	face := boardFace()
	lines := wrapText(face, exportFixtureScenes()[0].Beats[0].Text, 120)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for _, line := range lines {
		if w := 7 * len(line); w > 120 {
			t.Fatalf("line %q is %dpx wide", line, w)
		}
	}
}

func sceneWithBeats(n int) []screenplay.Scene {
	sc := screenplay.Scene{Number: 1, Heading: "INT. SET - DAY"}
	for i := 0; i < n; i++ {
		sc.Beats = append(sc.Beats, screenplay.Beat{Kind: screenplay.BeatAction, Text: "A beat."})
	}
	return []screenplay.Scene{sc}
}

func TestWriteBoard_PartialLastRow(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board.png")
	if err := WriteBoard(out, sceneWithBeats(5), BoardOptions{}); err != nil {
		t.Fatalf("WriteBoard: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Five cards wrap to two rows at the default four columns.
	wantH := 2*boardMargin + 2*defaultCardH + boardGap
	if got := img.Bounds().Dy(); got != wantH {
		t.Fatalf("height %d, want %d", got, wantH)
	}
}
