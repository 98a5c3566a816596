/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"strings"

	"shotcaller/internal/screenplay"
)

// SceneBeatCoverage summarizes one scene's beat makeup for pacing review.
type SceneBeatCoverage struct {
	SceneNumber       int
	Heading           string
	TotalBeats        int
	DialogueBeats     int
	ActionBeats       int
	SpeakerBeatCounts map[string]int
}

// CoverageTotals aggregates coverage across all scenes.
type CoverageTotals struct {
	Scenes        int
	Beats         int
	DialogueBeats int
	ActionBeats   int
	DialogueRatio float64
}

// ComputeBeatCoverage returns per-scene beat statistics in scene order.
// Speaker counts attribute each dialogue beat to the name before the colon.
func ComputeBeatCoverage(scenes []screenplay.Scene) []SceneBeatCoverage {
	out := make([]SceneBeatCoverage, 0, len(scenes))
	for _, sc := range scenes {
		cov := SceneBeatCoverage{
			SceneNumber:       sc.Number,
			Heading:           sc.Heading,
			TotalBeats:        len(sc.Beats),
			SpeakerBeatCounts: make(map[string]int),
		}
		for _, b := range sc.Beats {
			switch b.Kind {
			case screenplay.BeatDialogue:
				cov.DialogueBeats++
				if spk := speakerFromDialogue(b.Text); spk != "" {
					cov.SpeakerBeatCounts[spk]++
				}
			default:
				cov.ActionBeats++
			}
		}
		out = append(out, cov)
	}
	return out
}

// ComputeTotals folds per-scene coverage into project totals. DialogueRatio
// is 0 for an empty screenplay.
func ComputeTotals(cov []SceneBeatCoverage) CoverageTotals {
	t := CoverageTotals{Scenes: len(cov)}
	for _, c := range cov {
		t.Beats += c.TotalBeats
		t.DialogueBeats += c.DialogueBeats
		t.ActionBeats += c.ActionBeats
	}
	if t.Beats > 0 {
		t.DialogueRatio = float64(t.DialogueBeats) / float64(t.Beats)
	}
	return t
}

// speakerFromDialogue extracts the speaker name from a "NAME: line" beat.
// Returns "" when no colon-delimited prefix is present.
func speakerFromDialogue(text string) string {
	idx := strings.Index(text, ":")
	if idx <= 0 {
		return ""
	}
	return strings.TrimSpace(text[:idx])
}
