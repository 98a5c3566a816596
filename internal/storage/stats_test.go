/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"testing"

	"shotcaller/internal/screenplay"
)

func TestComputeBeatCoverage(t *testing.T) {
	scenes := screenplay.ParseString(storageFixtureDoc)
	cov := ComputeBeatCoverage(scenes)
	if len(cov) != 2 {
		t.Fatalf("expected coverage for 2 scenes, got %d", len(cov))
	}

	s1 := cov[0]
	if s1.SceneNumber != 1 || s1.Heading != "INT. KITCHEN - DAY" {
		t.Fatalf("scene 1 identity: %+v", s1)
	}
	if s1.TotalBeats != 3 || s1.DialogueBeats != 2 || s1.ActionBeats != 1 {
		t.Fatalf("scene 1 counts: %+v", s1)
	}
	if s1.SpeakerBeatCounts["JOHN"] != 1 || s1.SpeakerBeatCounts["MARY"] != 1 {
		t.Fatalf("scene 1 speakers: %+v", s1.SpeakerBeatCounts)
	}

	s2 := cov[1]
	if s2.SceneNumber != 2 || s2.Heading != "EXT. GARDEN - NIGHT" {
		t.Fatalf("scene 2 identity: %+v", s2)
	}
	if s2.TotalBeats != 1 || s2.DialogueBeats != 0 || s2.ActionBeats != 1 {
		t.Fatalf("scene 2 counts: %+v", s2)
	}
	if len(s2.SpeakerBeatCounts) != 0 {
		t.Fatalf("scene 2 should have no speakers: %+v", s2.SpeakerBeatCounts)
	}
}

func TestComputeTotals(t *testing.T) {
	cov := ComputeBeatCoverage(screenplay.ParseString(storageFixtureDoc))
	totals := ComputeTotals(cov)
	if totals.Scenes != 2 || totals.Beats != 4 {
		t.Fatalf("totals: %+v", totals)
	}
	if totals.DialogueBeats != 2 || totals.ActionBeats != 2 {
		t.Fatalf("beat split: %+v", totals)
	}
	if totals.DialogueRatio != 0.5 {
		t.Fatalf("dialogue ratio: got %v want 0.5", totals.DialogueRatio)
	}

	empty := ComputeTotals(nil)
	if empty.Scenes != 0 || empty.Beats != 0 || empty.DialogueRatio != 0 {
		t.Fatalf("empty totals: %+v", empty)
	}
}

func TestSpeakerFromDialogue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"JOHN: Anyone home?", "JOHN"},
		{"MARY : In here.", "MARY"},
		{"No speaker here", ""},
		{": leading colon", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := speakerFromDialogue(c.in); got != c.want {
			t.Fatalf("speakerFromDialogue(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
