/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDetectAndRebuildIndex_OnCorruption(t *testing.T) {
	ph, _ := newScreenplayProject(t, "CorruptTest")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := RebuildIndex(ctx, ph.Root, ph.Project); err != nil {
		t.Fatalf("initial RebuildIndex: %v", err)
	}
	// Corrupt the DB file by writing junk
	idx := IndexPath(ph.Root)
	if err := os.WriteFile(idx, []byte("THIS IS NOT SQLITE"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	// Attempt detect and rebuild
	rebuilt, err := DetectAndRebuildIndex(ctx, ph.Root, ph.Project)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if !rebuilt {
		t.Fatalf("expected rebuild to occur")
	}
	// Verify DB looks healthy and serves queries again
	st, err := os.Stat(idx)
	if err != nil || st.Size() == 0 {
		t.Fatalf("rebuilt index missing or empty: %v", err)
	}
	res, err := Search(ctx, ph.Root, SearchQuery{Text: "groceries"})
	if err != nil {
		t.Fatalf("Search after rebuild: %v", err)
	}
	if len(res) == 0 {
		t.Fatalf("expected rebuilt index to contain screenplay content")
	}
	// Backup file should exist
	bdir := filepath.Join(ph.Root, IndexDirName, "backups")
	entries, _ := os.ReadDir(bdir)
	if len(entries) == 0 {
		t.Fatalf("expected backup file in %s", bdir)
	}
}

func TestDetectAndRebuildIndex_HealthyIsUntouched(t *testing.T) {
	ph, _ := newScreenplayProject(t, "HealthyIndex")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := RebuildIndex(ctx, ph.Root, ph.Project); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	rebuilt, err := DetectAndRebuildIndex(ctx, ph.Root, ph.Project)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if rebuilt {
		t.Fatalf("healthy index should not be rebuilt")
	}
}
