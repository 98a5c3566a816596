/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shotcaller/internal/shotlist"
)

// SheetName is the worksheet the shotlist lands on.
const SheetName = "Shotlist"

// An .xlsx workbook is a ZIP of XML parts. The writer emits the minimal
// set every consumer accepts: content types, package relationships, a
// one-sheet workbook, a styles part with a bold header format, and the
// worksheet itself. Ints become numeric cells, strings inline strings;
// empty cells are omitted (their reference encodes the position).

// WriteXLSX writes the table as a single-sheet workbook at path.
func WriteXLSX(path string, t *shotlist.Table) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	zw, f, err := createZip(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"xl/workbook.xml", workbookXML()},
		{"xl/_rels/workbook.xml.rels", workbookRelsXML},
		{"xl/styles.xml", stylesXML},
		{"xl/worksheets/sheet1.xml", worksheetXML(t)},
	}
	for _, p := range parts {
		if err := addZipFile(zw, p.name, []byte(p.data)); err != nil {
			return fmt.Errorf("zip add %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
<Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>
<Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/>
</Types>
`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>
</Relationships>
`

const workbookRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>
`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<fonts count="2"><font><sz val="11"/><name val="Calibri"/></font><font><b/><sz val="11"/><name val="Calibri"/></font></fonts>
<fills count="2"><fill><patternFill patternType="none"/></fill><fill><patternFill patternType="gray125"/></fill></fills>
<borders count="1"><border/></borders>
<cellStyleXfs count="1"><xf/></cellStyleXfs>
<cellXfs count="2"><xf xfId="0"/><xf fontId="1" xfId="0" applyFont="1"/></cellXfs>
</styleSheet>
`

func workbookXML() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="%s" sheetId="1" r:id="rId1"/></sheets>
</workbook>
`, xmlEsc(SheetName))
}

func worksheetXML(t *shotlist.Table) string {
	buf := &bytes.Buffer{}
	wf := func(format string, args ...any) { fmt.Fprintf(buf, format, args...) }
	wf("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"yes\"?>\n")
	wf("<worksheet xmlns=\"http://schemas.openxmlformats.org/spreadsheetml/2006/main\">\n<sheetData>\n")

	wf("<row r=\"1\">")
	for i, col := range t.Columns {
		wf("<c r=\"%s1\" t=\"inlineStr\" s=\"1\"><is><t>%s</t></is></c>", columnRef(i), xmlEsc(col))
	}
	wf("</row>\n")

	for ri, row := range t.Rows {
		rowNum := ri + 2
		wf("<row r=\"%d\">", rowNum)
		for ci, col := range t.Columns {
			switch v := row[col].(type) {
			case int:
				wf("<c r=\"%s%d\"><v>%d</v></c>", columnRef(ci), rowNum, v)
			case string:
				if v == "" {
					continue
				}
				wf("<c r=\"%s%d\" t=\"inlineStr\"><is><t>%s</t></is></c>", columnRef(ci), rowNum, xmlEsc(v))
			default:
				wf("<c r=\"%s%d\" t=\"inlineStr\"><is><t>%s</t></is></c>", columnRef(ci), rowNum, xmlEsc(cellText(v)))
			}
		}
		wf("</row>\n")
	}
	wf("</sheetData>\n</worksheet>\n")
	return buf.String()
}

// columnRef converts a zero-based column index to a spreadsheet column
// letter: 0 is A, 25 is Z, 26 is AA.
func columnRef(i int) string {
	ref := ""
	for i >= 0 {
		ref = string(rune('A'+i%26)) + ref
		i = i/26 - 1
	}
	return ref
}

func createZip(outPath string) (*zip.Writer, *os.File, error) {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create archive: %w", err)
	}
	return zip.NewWriter(f), f, nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func xmlEsc(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '\'':
			out = append(out, '&', 'a', 'p', 'o', 's', ';')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
