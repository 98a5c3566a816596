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
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"shotcaller/internal/domain"
)

// ScreenplayFilePath returns the absolute path of a referenced screenplay
// file, or "" for a nil handle.
func ScreenplayFilePath(ph *ProjectHandle, ref domain.ScreenplayRef) string {
	if ph == nil {
		return ""
	}
	return filepath.Join(ph.Root, ScreenplaysDirName, ref.File)
}

// ReadScreenplay returns the text of a referenced screenplay. A missing
// file yields an empty string without error so callers can treat newly
// registered screenplays uniformly.
func ReadScreenplay(ph *ProjectHandle, ref domain.ScreenplayRef) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	p := ScreenplayFilePath(ph, ref)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return ReadScreenplayText(p)
}

// WriteScreenplay stores text as the content of a referenced screenplay,
// creating the screenplays folder when needed.
func WriteScreenplay(ph *ProjectHandle, ref domain.ScreenplayRef, text string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	dir := filepath.Join(ph.Root, ScreenplaysDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure screenplays dir: %w", err)
	}
	return writeFileSync(filepath.Join(dir, ref.File), []byte(text))
}

// ReadScreenplayText loads screenplay text from any path. Word documents
// (.docx) get their paragraph text extracted; everything else is read as
// UTF-8 with a leading BOM stripped and invalid byte sequences replaced, so
// a stray Latin-1 file cannot poison the parser.
func ReadScreenplayText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return readDocxText(path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read screenplay: %w", err)
	}
	s := strings.TrimPrefix(string(b), "\uFEFF")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return s, nil
}

// readDocxText extracts paragraph text from word/document.xml inside a
// .docx container. Each paragraph becomes one line; empty paragraphs yield
// blank lines, which is what separates dialogue blocks downstream.
func readDocxText(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("no word/document.xml in %s", filepath.Base(path))
	}
	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open document part: %w", err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var sb strings.Builder
	var inText bool
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document part: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}
	return sb.String(), nil
}
