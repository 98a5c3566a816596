//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"shotcaller/internal/config"
	"shotcaller/internal/crash"
	"shotcaller/internal/domain"
	"shotcaller/internal/export"
	"shotcaller/internal/history"
	applog "shotcaller/internal/log"
	"shotcaller/internal/screenplay"
	"shotcaller/internal/shotlist"
	"shotcaller/internal/storage"
	"shotcaller/internal/version"
)

// Run starts the Fyne-based desktop shell: a screenplay editor on the left,
// the live shotlist preview on the right, export actions on top.
// Pass an optional project directory to open immediately.
func Run(projectDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	fyneApp := app.NewWithID("shotcaller")
	w := fyneApp.NewWindow("Shotcaller")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 750)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	countsLabel := widget.NewLabel("No screenplay loaded")

	// Conversion state, rebuilt on every edit. The default schema is fixed
	// for the preview; exports use the same resolution.
	res := shotlist.Resolve(nil)
	var (
		scenes     []screenplay.Scene
		tbl        *shotlist.Table
		currentRef domain.ScreenplayRef
		restoring  bool
		lastText   string
	)

	// Revision manager with safeguards (snapshots capture the whole text)
	hist := history.NewManager(history.Config{
		MaxBytes:         16 * 1024 * 1024, // 16 MiB in-memory cap
		MaxPerScreenplay: 20,               // keep up to 20 revisions per screenplay
		MinInterval:      300 * time.Millisecond,
	})
	historyID := func() string {
		if currentRef.ID != "" {
			return currentRef.ID
		}
		if currentRef.File != "" {
			return currentRef.File
		}
		return "scratch"
	}

	// Shotlist preview (right pane)
	previewDisplay := []string{}
	previewList := widget.NewList(
		func() int { return len(previewDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(previewDisplay) {
				o.(*widget.Label).SetText(previewDisplay[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)

	scriptEntry := widget.NewMultiLineEntry()
	scriptEntry.SetPlaceHolder("Open a screenplay or paste text here…")
	scriptEntry.Wrapping = fyne.TextWrapWord

	reconvert := func() {
		scenes = screenplay.ParseString(scriptEntry.Text)
		tbl = shotlist.Build(scenes, res)
		countsLabel.SetText(fmt.Sprintf("%d scenes · %d rows", len(scenes), len(tbl.Rows)))
		previewDisplay = previewLines(tbl, res)
		previewList.Refresh()
	}
	scriptEntry.OnChanged = func(text string) {
		if !restoring {
			// Capture the pre-change state so Undo restores it
			hist.Push(history.Revision{ScreenplayID: historyID(), Text: lastText, TS: time.Now()})
		}
		lastText = text
		reconvert()
	}
	restoreText := func(text string) {
		restoring = true
		scriptEntry.SetText(text)
		restoring = false
	}

	undoAction := func() {
		if r, ok := hist.Undo(historyID()); ok {
			restoreText(r.Text)
			status.SetText("Undid last edit")
		} else {
			status.SetText("Nothing to undo")
		}
	}
	redoAction := func() {
		if r, ok := hist.Redo(historyID()); ok {
			restoreText(r.Text)
			status.SetText("Redid last edit")
		} else {
			status.SetText("Nothing to redo")
		}
	}

	var openProjectAndLoad func(dir string)
	openProjectAndLoad = func(dir string) {
		if err := openProject(dir, &ph, w, l, status); err != nil {
			dialog.ShowError(err, w)
			return
		}
		addRecentProject(prefs, dir)
		if len(ph.Project.Screenplays) > 0 {
			currentRef = ph.Project.Screenplays[0]
			if text, rerr := storage.ReadScreenplay(ph, currentRef); rerr == nil {
				hist.Clear(historyID())
				restoreText(text)
			} else {
				l.Error("read screenplay failed", slog.Any("err", rerr))
			}
		}
	}

	openScreenplayAction := func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			if ph != nil {
				// Re-opening a registered screenplay reloads it; anything
				// else is copied into the project first.
				ref, known := ph.Project.FindScreenplay(filepath.Base(path))
				if !known {
					var aerr error
					ref, aerr = storage.AddScreenplay(ph, path, "")
					if aerr != nil {
						dialog.ShowError(aerr, w)
						return
					}
				}
				currentRef = ref
				text, rerr := storage.ReadScreenplay(ph, ref)
				if rerr != nil {
					dialog.ShowError(rerr, w)
					return
				}
				hist.Clear(historyID())
				restoreText(text)
				if known {
					status.SetText("Opened screenplay: " + ref.Title)
				} else {
					status.SetText("Added screenplay: " + ref.Title)
				}
				return
			}
			text, rerr := storage.ReadScreenplayText(path)
			if rerr != nil {
				dialog.ShowError(rerr, w)
				return
			}
			base := filepath.Base(path)
			currentRef = domain.ScreenplayRef{Title: strings.TrimSuffix(base, filepath.Ext(base)), File: base}
			hist.Clear(historyID())
			restoreText(text)
			w.SetTitle("Shotcaller — " + base)
			status.SetText("Opened " + base)
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".fountain", ".txt", ".md", ".docx"}))
		fd.Show()
	}

	saveAction := func() {
		if ph == nil || currentRef.ID == "" {
			dialog.ShowInformation("Save", "Open a project and add the screenplay first.", w)
			return
		}
		text := scriptEntry.Text
		if err := storage.WriteScreenplay(ph, currentRef, text); err != nil {
			dialog.ShowError(err, w)
			return
		}
		if err := storage.Save(ph); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + currentRef.Title)
		go func(h *storage.ProjectHandle, ref domain.ScreenplayRef, txt string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := storage.SaveScreenplaySnapshot(ctx, h, ref.ID, txt, time.Now()); err != nil {
				l.Error("snapshot failed", slog.Any("err", err))
			}
			if err := storage.RebuildIndex(ctx, h.Root, h.Project); err != nil {
				l.Error("index rebuild failed", slog.Any("err", err))
			}
		}(ph, currentRef, text)
	}

	// Export actions. CSV streams into the chosen file; the others take paths.
	exportGuard := func(name string) bool {
		if tbl == nil || len(tbl.Rows) == 0 {
			dialog.ShowInformation(name, "Nothing to export yet.", w)
			return false
		}
		return true
	}
	exportCSVAction := func() {
		if !exportGuard("Export CSV") {
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			werr := export.WriteCSV(uc, tbl)
			_ = uc.Close()
			if werr != nil {
				dialog.ShowError(werr, w)
				return
			}
			dialog.ShowInformation("Export CSV", "Exported to "+outPath, w)
		}, w)
		save.SetFileName(exportBaseName(currentRef) + ".csv")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".csv"}))
		save.Show()
	}
	exportXLSXAction := func() {
		if !exportGuard("Export XLSX") {
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			if werr := export.WriteXLSX(outPath, tbl); werr != nil {
				dialog.ShowError(werr, w)
				return
			}
			dialog.ShowInformation("Export XLSX", "Exported to "+outPath, w)
		}, w)
		save.SetFileName(exportBaseName(currentRef) + ".xlsx")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".xlsx"}))
		save.Show()
	}
	exportPDFAction := func() {
		if !exportGuard("Export PDF") {
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			if werr := export.WritePDF(outPath, tbl, currentRef.Title); werr != nil {
				dialog.ShowError(werr, w)
				return
			}
			dialog.ShowInformation("Export PDF", "Exported to "+outPath, w)
		}, w)
		save.SetFileName(exportBaseName(currentRef) + ".pdf")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".pdf"}))
		save.Show()
	}
	exportBoardAction := func() {
		if !exportGuard("Export Board") {
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			if werr := export.WriteBoard(outPath, scenes, export.BoardOptions{}); werr != nil {
				dialog.ShowError(werr, w)
				return
			}
			dialog.ShowInformation("Export Board", "Exported to "+outPath, w)
		}, w)
		save.SetFileName(exportBaseName(currentRef) + "-board.png")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".png"}))
		save.Show()
	}
	// Export Bundle writes the project's preferred format set into exports/
	// in one go: explicit Formats from the manifest win, then the project
	// preset, then the user's configured default.
	exportBundleAction := func() {
		if !exportGuard("Export Bundle") {
			return
		}
		if ph == nil {
			dialog.ShowInformation("Export Bundle", "Open a project first; the bundle lands in its exports folder.", w)
			return
		}
		opts := export.BatchOptions{
			Preset:  export.PresetName(ph.Project.Export.Preset),
			Formats: ph.Project.Export.Formats,
			OutDir:  filepath.Join(ph.Root, storage.ExportsDirName),
			Base:    exportBaseName(currentRef),
			Title:   currentRef.Title,
		}
		if opts.Preset == "" && len(opts.Formats) == 0 {
			cfg, _, _ := config.Load()
			opts.Preset = export.PresetName(cfg.General.DefaultPreset)
		}
		status.SetText("Exporting bundle…")
		go func(scs []screenplay.Scene, t *shotlist.Table, opts export.BatchOptions) {
			paths, err := export.BatchExport(scs, t, opts)
			fyne.Do(func() {
				if err != nil {
					l.Error("bundle export failed", slog.Any("err", err))
					dialog.ShowError(err, w)
					status.SetText("Bundle export failed.")
					return
				}
				status.SetText(fmt.Sprintf("Exported %d files to %s", len(paths), opts.OutDir))
			})
		}(scenes, tbl, opts)
	}

	// Search over the project's embedded index
	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Search the project index (FTS5; use quotes for phrases)")
	searchEntry.OnSubmitted = func(q string) {
		if ph == nil {
			status.SetText("Search needs an open project.")
			return
		}
		if strings.TrimSpace(q) == "" {
			return
		}
		status.SetText("Searching…")
		go func(h *storage.ProjectHandle, sq storage.SearchQuery) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			resList, err := storage.Search(ctx, h.Root, sq)
			fyne.Do(func() {
				if err != nil {
					l.Error("search failed", slog.Any("err", err))
					dialog.ShowError(err, w)
					status.SetText("Search failed.")
					return
				}
				status.SetText(fmt.Sprintf("%d results", len(resList)))
				items := make([]string, len(resList))
				for i, r := range resList {
					scene := "-"
					if r.SceneNo > 0 {
						scene = fmt.Sprintf("%d", r.SceneNo)
					}
					sn := strings.TrimSpace(r.Snippet)
					if sn == "" {
						sn = r.Path
					}
					if len(sn) > 120 {
						sn = sn[:120] + "…"
					}
					items[i] = fmt.Sprintf("sc.%s — %s — %s", scene, r.Kind, sn)
				}
				list := widget.NewList(func() int { return len(items) }, func() fyne.CanvasObject { return widget.NewLabel("") }, func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(items[i]) })
				d := dialog.NewCustom("Search Results", "Close", container.NewMax(list), w)
				d.Resize(fyne.NewSize(700, 400))
				d.Show()
			})
		}(ph, storage.SearchQuery{Text: strings.TrimSpace(q)})
	}

	// Menus
	openProjItem := fyne.NewMenuItem("Open Project…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uri == nil {
				return
			}
			openProjectAndLoad(uri.Path())
		}, w)
		fd.Show()
	})
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	{
		rec := loadRecentProjects(prefs)
		items := make([]*fyne.MenuItem, 0, len(rec))
		for _, p := range rec {
			p := p
			items = append(items, fyne.NewMenuItem(p, func() { openProjectAndLoad(p) }))
		}
		if len(items) == 0 {
			items = append(items, fyne.NewMenuItem("(empty)", nil))
		}
		recentItem.ChildMenu = fyne.NewMenu("Open Recent", items...)
	}
	openScriptItem := fyne.NewMenuItem("Open Screenplay…", openScreenplayAction)
	saveItem := fyne.NewMenuItem("Save", saveAction)
	rebuildIndexItem := fyne.NewMenuItem("Rebuild Index", func() {
		if ph == nil {
			dialog.ShowInformation("Rebuild Index", "No project open.", w)
			return
		}
		status.SetText("Rebuilding index…")
		go func(h *storage.ProjectHandle) {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			err := storage.RebuildIndex(ctx, h.Root, h.Project)
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(err, w)
					status.SetText("Index rebuild failed.")
					return
				}
				status.SetText("Index rebuilt.")
			})
		}(ph)
	})
	closeProjItem := fyne.NewMenuItem("Close Project", func() {
		if ph == nil {
			return
		}
		ph = nil
		currentRef = domain.ScreenplayRef{}
		w.SetTitle("Shotcaller")
		status.SetText("Project closed.")
	})
	fileMenu := fyne.NewMenu("File", openProjItem, recentItem, openScriptItem, saveItem, fyne.NewMenuItemSeparator(), rebuildIndexItem, fyne.NewMenuItemSeparator(), closeProjItem)

	undoMenuItem := fyne.NewMenuItem("Undo", undoAction)
	redoMenuItem := fyne.NewMenuItem("Redo", redoAction)
	editMenu := fyne.NewMenu("Edit", undoMenuItem, redoMenuItem)

	exportMenu := fyne.NewMenu("Export",
		fyne.NewMenuItem("Export CSV…", exportCSVAction),
		fyne.NewMenuItem("Export XLSX…", exportXLSXAction),
		fyne.NewMenuItem("Export PDF…", exportPDFAction),
		fyne.NewMenuItem("Export Board PNG…", exportBoardAction),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Bundle", exportBundleAction),
	)

	aboutItem := fyne.NewMenuItem("About", func() {
		dialog.ShowInformation("About", "Shotcaller "+version.String(), w)
	})
	aboutMenu := fyne.NewMenu("About", aboutItem)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, exportMenu, aboutMenu))

	// Toolbar and layout
	toolbar := container.NewHBox(
		widget.NewButton("Open", openScreenplayAction),
		widget.NewButton("Save", saveAction),
		widget.NewSeparator(),
		widget.NewButton("CSV", exportCSVAction),
		widget.NewButton("XLSX", exportXLSXAction),
		widget.NewButton("PDF", exportPDFAction),
		widget.NewButton("Board", exportBoardAction),
		widget.NewSeparator(),
		widget.NewButton("Undo", undoAction),
		widget.NewButton("Redo", redoAction),
	)
	topBar := container.NewBorder(nil, nil, toolbar, countsLabel, searchEntry)
	split := container.NewHSplit(scriptEntry, previewList)
	split.SetOffset(0.55)
	w.SetContent(container.NewBorder(topBar, status, nil, nil, split))

	// Persist preferences on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	// Try to open a project if provided
	if projectDir != "" {
		openProjectAndLoad(projectDir)
	}

	w.ShowAndRun()
	return nil
}

func openProject(dir string, ph **storage.ProjectHandle, w fyne.Window, l *slog.Logger, status *widget.Label) error {
	abs, _ := filepath.Abs(dir)
	l.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		return err
	}
	*ph = h
	w.SetTitle(fmt.Sprintf("Shotcaller — %s", h.Project.Name))
	status.SetText(fmt.Sprintf("Opened project: %s", abs))
	return nil
}

// previewLines renders one list line per shotlist row for the preview pane.
func previewLines(t *shotlist.Table, res shotlist.Resolution) []string {
	if t == nil || len(t.Rows) == 0 {
		return []string{}
	}
	sceneCol := res.Column(shotlist.FieldSceneNumber)
	shotCol := res.Column(shotlist.FieldShotNumber)
	beatCol := res.Column(shotlist.FieldBeat)
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		beat, _ := row[beatCol].(string)
		if len(beat) > 100 {
			beat = beat[:100] + "…"
		}
		out = append(out, fmt.Sprintf("%v.%v %s", row[sceneCol], row[shotCol], beat))
	}
	return out
}

// exportBaseName picks the default file stem for export dialogs.
func exportBaseName(ref domain.ScreenplayRef) string {
	t := strings.TrimSpace(ref.Title)
	if t == "" {
		return "shotlist"
	}
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, t)
	if mapped == "" {
		return "shotlist"
	}
	return mapped
}

// Recent project persistence helpers
const recentPrefsKey = "recent.projects"
const recentMax = 10

func loadRecentProjects(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		var tmp []string
		if err := json.Unmarshal([]byte(raw), &tmp); err == nil {
			items = tmp
		}
	}
	if items == nil {
		items = []string{}
	}
	// Filter out non-existing paths
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentProjects(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	b, _ := json.Marshal(items)
	p.SetString(recentPrefsKey, string(b))
}

func addRecentProject(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	abs, _ := filepath.Abs(path)
	rec := loadRecentProjects(p)
	out := make([]string, 0, 1+len(rec))
	out = append(out, abs)
	for _, s := range rec {
		// de-dup (case-insensitive on Windows)
		if strings.EqualFold(s, abs) {
			continue
		}
		out = append(out, s)
	}
	saveRecentProjects(p, out)
}
