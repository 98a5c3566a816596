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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"shotcaller/internal/screenplay"
	"shotcaller/internal/shotlist"
)

// BoardOptions controls the contact-sheet rendering. Zero values pick the
// defaults: 4 cards per row, 240x150 pt cards.
type BoardOptions struct {
	Columns int
	CardW   int
	CardH   int
}

const (
	boardMargin  = 16
	boardGap     = 12
	cardPad      = 8
	lineH        = 13 // Face7x13 glyph height
	cardHeaderH  = 20
	cardFooterH  = 18
	defaultCols  = 4
	defaultCardW = 240
	defaultCardH = 150
)

// WriteBoard renders one card per beat into a PNG contact sheet: a header
// with scene and shot numbers, the location, the wrapped beat text, and the
// camera defaults along the bottom edge. Shot numbering matches the table
// builder: restart at 1 per scene, one increment per beat.
func WriteBoard(path string, scenes []screenplay.Scene, opt BoardOptions) error {
	if !strings.HasSuffix(strings.ToLower(path), ".png") {
		path += ".png"
	}
	cols := opt.Columns
	if cols <= 0 {
		cols = defaultCols
	}
	cardW := opt.CardW
	if cardW <= 0 {
		cardW = defaultCardW
	}
	cardH := opt.CardH
	if cardH <= 0 {
		cardH = defaultCardH
	}

	type card struct {
		scene    int
		shot     int
		location string
		text     string
	}
	var cards []card
	for _, sc := range scenes {
		loc := sc.Heading
		shot := 1
		for _, b := range sc.Beats {
			cards = append(cards, card{
				scene:    sc.Number,
				shot:     shot,
				location: loc,
				text:     fmt.Sprintf("[%s] %s", b.Kind, b.Text),
			})
			shot++
		}
	}
	if len(cards) == 0 {
		return fmt.Errorf("no beats to render")
	}

	rows := (len(cards) + cols - 1) / cols
	imgW := 2*boardMargin + cols*cardW + (cols-1)*boardGap
	imgH := 2*boardMargin + rows*cardH + (rows-1)*boardGap

	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	border := color.RGBA{60, 60, 60, 255}
	ink := color.RGBA{20, 20, 20, 255}
	faint := color.RGBA{110, 110, 110, 255}
	face := boardFace()

	for i, c := range cards {
		x0 := boardMargin + (i%cols)*(cardW+boardGap)
		y0 := boardMargin + (i/cols)*(cardH+boardGap)
		x1 := x0 + cardW - 1
		y1 := y0 + cardH - 1

		strokeRect(img, x0, y0, x1, y1, border)
		// header separator
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y0+cardHeaderH, border)
		}

		drawString(img, x0+cardPad, y0+cardHeaderH-6, fmt.Sprintf("SC %d / SHOT %d", c.scene, c.shot), ink, face)

		textX := x0 + cardPad
		textY := y0 + cardHeaderH + lineH
		maxW := cardW - 2*cardPad
		maxY := y1 - cardFooterH - 2

		locLines := wrapText(face, c.location, maxW)
		if len(locLines) > 0 {
			drawString(img, textX, textY, locLines[0], faint, face)
			textY += lineH + 2
		}
		for _, line := range wrapText(face, c.text, maxW) {
			if textY > maxY {
				drawString(img, textX, maxY+lineH-2, "...", faint, face)
				break
			}
			drawString(img, textX, textY, line, ink, face)
			textY += lineH
		}

		camera := strings.Join([]string{
			shotlist.DefaultShotType, shotlist.DefaultAngle, shotlist.DefaultMovement, shotlist.DefaultLens,
		}, " / ")
		drawString(img, textX, y1-5, camera, faint, face)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

func drawString(img *image.RGBA, x, y int, s string, col color.RGBA, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}
