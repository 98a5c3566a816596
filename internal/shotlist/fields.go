/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package shotlist turns parsed screenplay scenes into a tabular shotlist:
// one row per beat, mapped onto a caller-supplied or default column schema.
package shotlist

// Field identifies a logical shotlist column independent of the output
// column name it resolves to.

type Field int

const (
	FieldSceneNumber Field = iota
	FieldSceneHeading
	FieldBeat
	FieldShotNumber
	FieldShotType
	FieldAngle
	FieldMovement
	FieldLens
	FieldDuration
	FieldLocation
	FieldCharacters
	FieldNotes
	fieldCount
)

// Name returns the canonical column name for the field.
func (f Field) Name() string { return catalog[f].name }

// Camera defaults stamped into every row. Composition is never inferred
// from beat content.
const (
	DefaultShotType = "MS"
	DefaultAngle    = "Eye-level"
	DefaultMovement = "Static"
	DefaultLens     = "35mm"
)

// fieldSpec pairs a logical field with its accepted header aliases,
// case-insensitive and whitespace-trimmed on both sides. The canonical name
// is always the first alias so an exact header wins before looser ones; it
// is also the fallback appended to the schema when nothing matches.

type fieldSpec struct {
	field   Field
	name    string
	aliases []string
}

// catalog is the fixed ordered set of logical fields. Resolution walks it
// in this order, and appended fallback columns keep it too.
var catalog = [fieldCount]fieldSpec{
	{FieldSceneNumber, "Scene #", []string{"Scene #", "Scene", "Scene No", "Scene Number"}},
	{FieldSceneHeading, "Scene Heading", []string{"Scene Heading", "Heading", "Slugline"}},
	{FieldBeat, "Beat/Action", []string{"Beat/Action", "Beat", "Action", "Description", "What Happens"}},
	{FieldShotNumber, "Shot #", []string{"Shot #", "Shot Number", "Shot"}},
	{FieldShotType, "Shot Type", []string{"Shot Type", "Type"}},
	{FieldAngle, "Angle", []string{"Angle"}},
	{FieldMovement, "Movement", []string{"Movement", "Move"}},
	{FieldLens, "Lens", []string{"Lens"}},
	{FieldDuration, "Duration (s)", []string{"Duration (s)", "Duration", "Est. Duration (s)"}},
	{FieldLocation, "Location", []string{"Location"}},
	{FieldCharacters, "Characters", []string{"Characters", "Cast"}},
	{FieldNotes, "Notes", []string{"Notes"}},
}

// Fields returns all logical fields in catalog order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// DefaultColumns returns the canonical column names in catalog order, the
// schema used when the caller supplies none.
func DefaultColumns() []string {
	out := make([]string, fieldCount)
	for i, spec := range catalog {
		out[i] = spec.name
	}
	return out
}
