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
	"database/sql"
	"errors"
	"strings"
	"time"
)

// language=SQL
// dialect=SQLite
const insertScreenplaySnapshotSQL = `INSERT INTO screenplay_snapshots(screenplay_id, ts, text) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestScreenplaySnapshotSQL = `SELECT ts, text FROM screenplay_snapshots WHERE screenplay_id = ? ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listScreenplaySnapshotsSQL = `SELECT ts, text FROM screenplay_snapshots WHERE screenplay_id = ? ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldScreenplaySnapshotsSQL = `DELETE FROM screenplay_snapshots WHERE screenplay_id = ? AND id NOT IN (
	SELECT id FROM screenplay_snapshots WHERE screenplay_id = ? ORDER BY ts DESC LIMIT ?
)`

// ScreenplaySnapshot is one stored revision of a screenplay's full text.
type ScreenplaySnapshot struct {
	TS   time.Time
	Text string
}

// SaveScreenplaySnapshot persists a full-text snapshot of a screenplay with
// a timestamp. The index database is ephemeral and derived; this history is
// meant for change tracking, not canonical storage.
func SaveScreenplaySnapshot(ctx context.Context, ph *ProjectHandle, screenplayID, text string, ts time.Time) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if strings.TrimSpace(screenplayID) == "" {
		return errors.New("screenplay id is required")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertScreenplaySnapshotSQL, screenplayID, ts.UTC().Format(time.RFC3339Nano), text)
	return err
}

// GetLatestScreenplaySnapshot returns the latest snapshot text and timestamp
// for a screenplay, or empty values if none exist.
func GetLatestScreenplaySnapshot(ctx context.Context, ph *ProjectHandle, screenplayID string) (string, time.Time, error) {
	if ph == nil {
		return "", time.Time{}, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return "", time.Time{}, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var txt string
	err = db.QueryRowContext(ctx, selectLatestScreenplaySnapshotSQL, screenplayID).Scan(&tsStr, &txt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, nil
	}
	if err != nil {
		return "", time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return txt, time.Time{}, nil
	}
	return txt, ts, nil
}

// ListScreenplaySnapshots returns up to limit most recent snapshots for a screenplay.
func ListScreenplaySnapshots(ctx context.Context, ph *ProjectHandle, screenplayID string, limit int) ([]ScreenplaySnapshot, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listScreenplaySnapshotsSQL, screenplayID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []ScreenplaySnapshot
	for rows.Next() {
		var tsStr string
		var txt string
		if err := rows.Scan(&tsStr, &txt); err != nil {
			return nil, err
		}
		ts, _ := time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, ScreenplaySnapshot{TS: ts, Text: txt})
	}
	return out, rows.Err()
}

// PruneOldScreenplaySnapshots keeps at most keepLast snapshots for a
// screenplay and deletes older ones. Other screenplays are untouched.
func PruneOldScreenplaySnapshots(ctx context.Context, ph *ProjectHandle, screenplayID string, keepLast int) (int64, error) {
	if ph == nil {
		return 0, errors.New("nil ProjectHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldScreenplaySnapshotsSQL, screenplayID, screenplayID, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
