/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SearchHit is one row of a server-side search response.
type SearchHit struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	RowCount  int       `json:"row_count"`
	Snippet   string    `json:"snippet"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchPG runs the full-text query over published conversions. Matching
// mirrors the local index: 'simple' tokenization, one bracketed headline
// fragment per hit, best matches first.
func SearchPG(ctx context.Context, db *sql.DB, q string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, title, row_count, created_at,
		COALESCE(ts_headline('simple', script_text, plainto_tsquery('simple', $1),
			'StartSel=[, StopSel=], MaxFragments=1, MaxWords=12'), '') AS snippet
		FROM conversions
		WHERE search_vector @@ plainto_tsquery('simple', $1)
		ORDER BY ts_rank(search_vector, plainto_tsquery('simple', $1)) DESC, created_at DESC, id
		LIMIT $2`
	rows, err := db.QueryContext(ctx, query, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search pg query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.ID, &h.Title, &h.RowCount, &h.CreatedAt, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
