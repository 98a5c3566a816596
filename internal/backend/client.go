/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shotcaller/internal/screenplay"
	"shotcaller/internal/shotlist"
)

// Client is a minimal HTTP client for the share backend API.
// It carries the publish and read operations used by the CLI push and pull commands.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Conversion is one published screenplay-to-shotlist run. List responses carry
// only the summary fields; GetConversion returns the full payload including
// columns, rows, and the source text.
type Conversion struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	SceneCount int            `json:"scene_count"`
	RowCount   int            `json:"row_count"`
	Columns    []string       `json:"columns,omitempty"`
	Rows       []shotlist.Row `json:"rows,omitempty"`
	ScriptText string         `json:"script_text,omitempty"`
	CreatedBy  string         `json:"created_by,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewConversion assembles the publish payload from a converted screenplay.
func NewConversion(title string, scenes []screenplay.Scene, tbl *shotlist.Table, scriptText string) Conversion {
	conv := Conversion{
		Title:      title,
		SceneCount: len(scenes),
		ScriptText: scriptText,
	}
	if tbl != nil {
		conv.RowCount = len(tbl.Rows)
		conv.Columns = tbl.Columns
		conv.Rows = tbl.Rows
	}
	return conv
}

// Table reconstructs the shotlist table carried by a pulled conversion.
func (conv *Conversion) Table() *shotlist.Table {
	return &shotlist.Table{Columns: conv.Columns, Rows: conv.Rows}
}

// ListConversions returns the published conversions, newest first.
func (c *Client) ListConversions(ctx context.Context) ([]Conversion, error) {
	var list []Conversion
	if err := c.doJSON(ctx, http.MethodGet, "/api/conversions", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetConversion fetches one conversion with its full payload.
func (c *Client) GetConversion(ctx context.Context, id string) (*Conversion, error) {
	var conv Conversion
	path := "/api/conversions/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateConversion publishes a conversion and returns the stored summary
// with the server-assigned id and timestamp.
func (c *Client) CreateConversion(ctx context.Context, conv Conversion) (*Conversion, error) {
	var out Conversion
	if err := c.doJSON(ctx, http.MethodPost, "/api/conversions", conv, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchConversions runs a server-side full-text query over published conversions.
func (c *Client) SearchConversions(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	v := url.Values{}
	v.Set("q", query)
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var hits []SearchHit
	if err := c.doJSON(ctx, http.MethodGet, "/api/search?"+v.Encode(), nil, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}
