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
	"strings"
)

// Resolution maps every logical field to the output column it populates and
// carries the deduplicated, ordered list of all output columns. Values are
// immutable after Resolve; accessors return copies so a batch can share one
// Resolution across goroutines.

type Resolution struct {
	columns []string
	byField [fieldCount]string
}

// Columns returns the output column names in order: caller-supplied columns
// first (duplicates collapsed to the first occurrence), then any appended
// fallback columns in catalog order.
func (r Resolution) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Column returns the output column name the field resolved to.
func (r Resolution) Column(f Field) string { return r.byField[f] }

// Resolve computes the field-to-column mapping against a target schema. For
// each logical field in catalog order, the working schema is scanned for
// the first column whose trimmed, case-folded name equals one of the
// field's aliases (aliases in priority order, schema left to right per
// alias). A field with no match anywhere falls back to its canonical name,
// which is appended to the working schema so later fields may match it.
//
// A header that aliases two different fields is claimed by both: the later
// field's cell value overwrites the earlier one's at build time. Resolve
// keeps that permissive behavior; use ResolveStrict to reject it.
func Resolve(target []string) Resolution {
	res, _ := resolveWith(target, catalog[:])
	return res
}

// ResolveStrict is Resolve, but returns an error when two logical fields
// resolve to the same output column. The shipped catalog has disjoint alias
// sets, so this can only trip on schemas that pun two fields onto one
// header; callers that must not silently lose a column use it.
func ResolveStrict(target []string) (Resolution, error) {
	res, collisions := resolveWith(target, catalog[:])
	if len(collisions) > 0 {
		c := collisions[0]
		return Resolution{}, fmt.Errorf("schema column %q claimed by both %s and %s", c.column, c.first.Name(), c.second.Name())
	}
	return res, nil
}

type collision struct {
	column        string
	first, second Field
}

func resolveWith(target []string, specs []fieldSpec) (Resolution, []collision) {
	work := make([]string, 0, len(target)+len(specs))
	work = append(work, target...)

	var res Resolution
	claimed := make(map[string]Field, len(specs))
	var collisions []collision
	for _, spec := range specs {
		match := ""
		found := false
		for _, alias := range spec.aliases {
			for _, c := range work {
				if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(alias)) {
					match = c
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			match = spec.name
			if !containsExact(work, match) {
				work = append(work, match)
			}
		}
		if prev, dup := claimed[match]; dup {
			collisions = append(collisions, collision{column: match, first: prev, second: spec.field})
		}
		claimed[match] = spec.field
		res.byField[spec.field] = match
	}
	res.columns = dedupe(work)
	return res, collisions
}

func containsExact(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// dedupe collapses exact duplicates, preserving first-seen order. Columns
// differing only in case or whitespace are kept distinct, matching the
// exact header strings the caller will see in output.
func dedupe(cols []string) []string {
	seen := make(map[string]struct{}, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
