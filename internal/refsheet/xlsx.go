/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package refsheet

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// An .xlsx file is a ZIP of XML parts. Header discovery needs only the
// first worksheet's first row plus the shared string table, if any; the
// workbook relationship indirection is skipped in favor of the
// conventional xl/worksheets/sheetN.xml layout every producer emits.

type worksheetXML struct {
	Rows []rowXML `xml:"sheetData>row"`
}

type rowXML struct {
	Index int       `xml:"r,attr"`
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	Ref  string `xml:"r,attr"`
	Type string `xml:"t,attr"`
	V    string `xml:"v"`
	Is   struct {
		T string `xml:"t"`
	} `xml:"is"`
}

type sharedStringsXML struct {
	Items []sharedStringItem `xml:"si"`
}

type sharedStringItem struct {
	T    string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (s sharedStringItem) text() string {
	if s.T != "" {
		return s.T
	}
	var b strings.Builder
	for _, r := range s.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

func xlsxHeader(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer zr.Close()

	shared, err := readSharedStrings(&zr.Reader)
	if err != nil {
		return nil, err
	}

	sheet, err := firstWorksheet(&zr.Reader)
	if err != nil {
		return nil, err
	}
	var ws worksheetXML
	if err := xml.Unmarshal(sheet, &ws); err != nil {
		return nil, fmt.Errorf("parse worksheet: %w", err)
	}
	if len(ws.Rows) == 0 {
		return nil, fmt.Errorf("workbook has no rows")
	}

	row := ws.Rows[0]
	headers := make([]string, 0, len(row.Cells))
	for _, c := range row.Cells {
		headers = append(headers, cellString(c, shared))
	}
	return headers, nil
}

// firstWorksheet returns the raw XML of the lowest-numbered worksheet part.
func firstWorksheet(zr *zip.Reader) ([]byte, error) {
	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}
	sort.Strings(names)
	return readZipFile(zr, names[0])
}

func readSharedStrings(zr *zip.Reader) ([]string, error) {
	data, err := readZipFile(zr, "xl/sharedStrings.xml")
	if err != nil {
		// Optional part; workbooks using inline strings omit it.
		return nil, nil
	}
	var sst sharedStringsXML
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, fmt.Errorf("parse shared strings: %w", err)
	}
	out := make([]string, len(sst.Items))
	for i, it := range sst.Items {
		out[i] = it.text()
	}
	return out, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found in workbook", name)
}

func cellString(c cellXML, shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return c.Is.T
	default:
		// "str" (formula result), "n", "b" and untyped cells all carry
		// their value in <v>.
		return c.V
	}
}
