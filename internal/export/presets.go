/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"shotcaller/internal/screenplay"
	"shotcaller/internal/shotlist"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetSpreadsheet PresetName = "spreadsheet"
	PresetReview      PresetName = "review"
	PresetAll         PresetName = "all"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - Outputs land in OutDir; relative or empty OutDir resolves against the
//     current directory.
//   - Base names the output files: <Base>.csv, <Base>.xlsx, <Base>.pdf and
//     <Base>-board.png. Empty Base defaults to "shotlist".
//
// Formats overrides the preset's defaults when non-empty. Allowed values:
// csv, xlsx, pdf, board.
type BatchOptions struct {
	Preset  PresetName
	Formats []string
	OutDir  string
	Base    string
	Title   string
}

// BatchExport writes the shotlist in every requested format and returns the
// paths it created, in the order they were written.
func BatchExport(scenes []screenplay.Scene, t *shotlist.Table, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	base := opt.Base
	if base == "" {
		base = "shotlist"
	}
	outDir := opt.OutDir
	if outDir == "" {
		outDir = "."
	}
	title := opt.Title
	if title == "" {
		title = base
	}

	var written []string
	for _, f := range formats {
		switch f {
		case "csv":
			out := filepath.Join(outDir, base+".csv")
			if err := SaveCSV(out, t); err != nil {
				return written, fmt.Errorf("csv: %w", err)
			}
			written = append(written, out)
		case "xlsx":
			out := filepath.Join(outDir, base+".xlsx")
			if err := WriteXLSX(out, t); err != nil {
				return written, fmt.Errorf("xlsx: %w", err)
			}
			written = append(written, out)
		case "pdf":
			out := filepath.Join(outDir, base+".pdf")
			if err := WritePDF(out, t, title); err != nil {
				return written, fmt.Errorf("pdf: %w", err)
			}
			written = append(written, out)
		case "board":
			out := filepath.Join(outDir, base+"-board.png")
			if err := WriteBoard(out, scenes, BoardOptions{}); err != nil {
				return written, fmt.Errorf("board: %w", err)
			}
			written = append(written, out)
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetSpreadsheet:
		return []string{"csv", "xlsx"}
	case PresetReview:
		return []string{"pdf", "board"}
	case PresetAll:
		return []string{"csv", "xlsx", "pdf", "board"}
	default:
		return []string{"csv"}
	}
}
