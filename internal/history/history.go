/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"sync"
	"time"
)

// Revision represents a reversible text state for a screenplay.
// Text content is opaque to the manager; size is estimated as len(Text).
// TS is when the revision was captured.
type Revision struct {
	ScreenplayID string
	Text         string
	TS           time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerScreenplay limits revisions kept per screenplay (0 means unlimited).
	MaxPerScreenplay int
	// MinInterval coalesces revisions captured within the interval for the same
	// screenplay, replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per screenplay with
// performance safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-screenplay stacks
	undo map[string][]Revision
	redo map[string][]Revision
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	// Set conservative defaults if not provided
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Revision), redo: make(map[string][]Revision)}
}

// Push records a revision for a screenplay. If within MinInterval from the last
// revision of the same screenplay, it replaces the last one. Clears the redo
// stack for that screenplay.
func (m *Manager) Push(r Revision) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[r.ScreenplayID]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if r.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: adjust accounting and replace
			m.totalBytes -= len(last.Text)
			m.totalBytes += len(r.Text)
			stack[n-1] = r
			m.undo[r.ScreenplayID] = stack
			m.redo[r.ScreenplayID] = nil
			m.enforceCapsLocked(r.ScreenplayID)
			return
		}
	}
	// Push new
	stack = append(stack, r)
	m.undo[r.ScreenplayID] = stack
	m.totalBytes += len(r.Text)
	// Any new change invalidates redo for the screenplay
	m.redo[r.ScreenplayID] = nil
	m.enforceCapsLocked(r.ScreenplayID)
}

// Undo pops from the screenplay undo stack and pushes to redo, returning the revision.
func (m *Manager) Undo(screenplayID string) (Revision, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[screenplayID]
	if len(stack) == 0 {
		return Revision{}, false
	}
	r := stack[len(stack)-1]
	m.undo[screenplayID] = stack[:len(stack)-1]
	m.totalBytes -= len(r.Text)
	m.redo[screenplayID] = append(m.redo[screenplayID], r)
	return r, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(screenplayID string) (Revision, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.redo[screenplayID]
	if len(rs) == 0 {
		return Revision{}, false
	}
	r := rs[len(rs)-1]
	m.redo[screenplayID] = rs[:len(rs)-1]
	m.undo[screenplayID] = append(m.undo[screenplayID], r)
	m.totalBytes += len(r.Text)
	m.enforceCapsLocked(screenplayID)
	return r, true
}

// Clear drops undo/redo stacks for a screenplay to free memory.
func (m *Manager) Clear(screenplayID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.undo[screenplayID] {
		m.totalBytes -= len(r.Text)
	}
	delete(m.undo, screenplayID)
	delete(m.redo, screenplayID)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, screenplays int, totalRevisions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	screenplays = len(m.undo)
	for _, v := range m.undo {
		totalRevisions += len(v)
	}
	return m.totalBytes, screenplays, totalRevisions
}

func (m *Manager) enforceCapsLocked(screenplayID string) {
	// Per-screenplay depth cap
	if m.cfg.MaxPerScreenplay > 0 {
		stack := m.undo[screenplayID]
		if len(stack) > m.cfg.MaxPerScreenplay {
			// drop the oldest extras
			toDrop := len(stack) - m.cfg.MaxPerScreenplay
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Text)
			}
			m.undo[screenplayID] = append([]Revision{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all screenplays
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestID := ""
		oldestIdx := -1
		var oldestTS time.Time
		for id, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestID = id
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestID]
		m.totalBytes -= len(stack[0].Text)
		m.undo[oldestID] = stack[1:]
		if len(m.undo[oldestID]) == 0 {
			delete(m.undo, oldestID)
		}
	}
}
