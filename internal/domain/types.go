/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"strings"
	"time"
)

// CurrentSchemaVersion is stamped into new manifests. Bump on breaking
// manifest changes.
const CurrentSchemaVersion = 1

// Project represents a shotlist project and its metadata.
// It is intended to serialize to a human-readable JSON manifest.
type Project struct {
	SchemaVersion int             `json:"schemaVersion"`
	Name          string          `json:"name"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Screenplays   []ScreenplayRef `json:"screenplays"`
	Export        ExportSettings  `json:"export,omitempty"`
}

// ScreenplayRef points at a screenplay file kept inside the project's
// screenplays folder. File is relative to that folder.
type ScreenplayRef struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	File    string    `json:"file"`
	AddedAt time.Time `json:"addedAt"`
}

// ExportSettings carries the project's preferred export preset and an
// optional explicit format list overriding the preset.
type ExportSettings struct {
	Preset  string   `json:"preset,omitempty"`
	Formats []string `json:"formats,omitempty"`
}

// FindScreenplay resolves a screenplay by ID, title (case-insensitive), or
// file name, in that order.
func (p Project) FindScreenplay(key string) (ScreenplayRef, bool) {
	for _, sp := range p.Screenplays {
		if sp.ID == key {
			return sp, true
		}
	}
	for _, sp := range p.Screenplays {
		if strings.EqualFold(sp.Title, key) {
			return sp, true
		}
	}
	for _, sp := range p.Screenplays {
		if sp.File == key {
			return sp, true
		}
	}
	return ScreenplayRef{}, false
}
