/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"shotcaller/internal/shotlist"
)

// PDF layout constants, in points. Landscape A4 gives the beat column room
// to breathe; text stays vector via built-in Helvetica so nothing needs
// embedding.
const (
	pdfPageW    = 842.0
	pdfPageH    = 595.0
	pdfMargin   = 36.0
	pdfRowH     = 16.0
	pdfHeaderH  = 18.0
	pdfTitleH   = 26.0
	pdfFontSize = 8.0
	pdfCellPad  = 3.0
)

// WritePDF renders the table as a paged landscape review sheet: a title
// line on the first page, a repeated header row on every page, one row per
// beat with cell text truncated to its column width.
func WritePDF(path string, t *shotlist.Table, title string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		path += ".pdf"
	}
	if title == "" {
		title = "Shotlist"
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pdfPageW, Ht: pdfPageH},
	})
	pdf.SetTitle(title, false)
	pdf.SetAuthor("Shotcaller", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)

	widths := columnWidths(t)

	drawHeader := func() {
		x := pdfMargin
		y := pdf.GetY()
		pdf.SetFillColor(230, 230, 230)
		pdf.SetDrawColor(120, 120, 120)
		pdf.SetLineWidth(0.4)
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		for i, col := range t.Columns {
			pdf.Rect(x, y, widths[i], pdfHeaderH, "FD")
			pdf.Text(x+pdfCellPad, y+pdfHeaderH-5, truncate(pdf, col, widths[i]-2*pdfCellPad))
			x += widths[i]
		}
		pdf.SetFont("Helvetica", "", pdfFontSize)
		pdf.SetY(y + pdfHeaderH)
	}

	newPage := func() {
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: pdfPageW, Ht: pdfPageH})
		pdf.SetY(pdfMargin)
	}

	newPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(pdfMargin, pdfMargin+12, title)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.SetY(pdfMargin + pdfTitleH)
	drawHeader()

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	for _, row := range t.Rows {
		if pdf.GetY()+pdfRowH > pdfPageH-pdfMargin {
			newPage()
			drawHeader()
			pdf.SetDrawColor(200, 200, 200)
			pdf.SetLineWidth(0.2)
		}
		x := pdfMargin
		y := pdf.GetY()
		for i, col := range t.Columns {
			pdf.Text(x+pdfCellPad, y+pdfRowH-5, truncate(pdf, cellText(row[col]), widths[i]-2*pdfCellPad))
			x += widths[i]
		}
		pdf.Line(pdfMargin, y+pdfRowH, x, y+pdfRowH)
		pdf.SetY(y + pdfRowH)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// columnWidths distributes the printable width across columns in proportion
// to their longest cell (clamped so a verbose beat cannot starve the short
// numeric columns).
func columnWidths(t *shotlist.Table) []float64 {
	const minChars, maxChars = 6, 60
	usable := pdfPageW - 2*pdfMargin

	chars := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		chars[i] = len(col)
	}
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			if n := len(cellText(row[col])); n > chars[i] {
				chars[i] = n
			}
		}
	}
	total := 0.0
	for i := range chars {
		if chars[i] < minChars {
			chars[i] = minChars
		}
		if chars[i] > maxChars {
			chars[i] = maxChars
		}
		total += float64(chars[i])
	}
	widths := make([]float64, len(chars))
	for i := range chars {
		widths[i] = usable * float64(chars[i]) / total
	}
	return widths
}

// truncate shortens s so it renders within width points, appending "..."
// when anything was cut.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if width <= 0 || pdf.GetStringWidth(s) <= width {
		return s
	}
	ell := pdf.GetStringWidth("...")
	for len(s) > 0 && pdf.GetStringWidth(s)+ell > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
