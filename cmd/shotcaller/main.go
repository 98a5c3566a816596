/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"shotcaller/internal/backend"
	"shotcaller/internal/config"
	"shotcaller/internal/crash"
	"shotcaller/internal/domain"
	"shotcaller/internal/export"
	"shotcaller/internal/history"
	applog "shotcaller/internal/log"
	"shotcaller/internal/refsheet"
	"shotcaller/internal/screenplay"
	"shotcaller/internal/shotlist"
	"shotcaller/internal/storage"
	"shotcaller/internal/ui"
	"shotcaller/internal/version"
	"shotcaller/internal/watch"
)

func usage() {
	fmt.Println("Shotcaller — screenplay to shotlist converter")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shotcaller version|-v|--version             Show version")
	fmt.Println("  shotcaller init <dir> <name>                Create a new project at <dir> with name <name>")
	fmt.Println("  shotcaller add [-title t] <dir> <file>      Copy a screenplay into the project at <dir>")
	fmt.Println("  shotcaller convert [flags] <file>           Convert a screenplay (see convert -h)")
	fmt.Println("  shotcaller columns [sheet]                  Show the resolved column mapping for a reference sheet")
	fmt.Println("  shotcaller stats <file>                     Per-scene beat counts and dialogue/action ratio")
	fmt.Println("  shotcaller search [flags] <dir> <query...>  Full-text search over the project index")
	fmt.Println("  shotcaller watch [flags] <file>             Re-convert on every change to <file>")
	fmt.Println("  shotcaller push [flags] <file>              Publish a conversion to the share backend")
	fmt.Println("  shotcaller pull [flags] [id]                Fetch a conversion as CSV (no id lists recent, -q searches)")
	fmt.Println("  shotcaller ui [<dir>]                       Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Println("  shotcaller help                             Show this help")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	var err error
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Shotcaller — screenplay to shotlist converter")
		fmt.Println(version.String())
		return
	case "init":
		if len(args) < 4 {
			fmt.Fprintln(os.Stderr, "init requires <dir> and <name>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		name := args[3]
		l.Info("init project", slog.String("root", abs), slog.String("name", name))
		ph, err = storage.InitProject(abs, domain.Project{Name: name, Screenplays: []domain.ScreenplayRef{}})
		if err == nil {
			fmt.Println("Created project at", abs)
		}
	case "add":
		err = runAdd(l, &ph, args[2:])
	case "convert":
		err = runConvert(l, args[2:])
	case "columns":
		err = runColumns(args[2:])
	case "stats":
		err = runStats(args[2:])
	case "search":
		err = runSearch(l, &ph, args[2:])
	case "watch":
		err = runWatch(l, args[2:])
	case "push":
		err = runPush(l, args[2:])
	case "pull":
		err = runPull(l, args[2:])
	case "ui":
		var dir string
		if len(args) >= 3 {
			dir = args[2]
		}
		err = ui.Run(dir)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Error("command failed", slog.String("command", args[1]), slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runAdd(l *slog.Logger, ph **storage.ProjectHandle, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "display title (default: file name without extension)")
	_ = fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("add requires <dir> and <file>")
	}
	abs, _ := filepath.Abs(fs.Arg(0))
	h, err := storage.Open(abs)
	if err != nil {
		return err
	}
	*ph = h
	ref, err := storage.AddScreenplay(h, fs.Arg(1), *title)
	if err != nil {
		return err
	}
	l.Info("screenplay added", slog.String("id", ref.ID), slog.String("title", ref.Title))
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := storage.RebuildIndex(ctx, h.Root, h.Project); err != nil {
		l.Warn("index rebuild failed", slog.Any("err", err))
	}
	fmt.Printf("Added %q as %s (%s)\n", ref.Title, ref.ID, ref.File)
	return nil
}

// convertInput parses a screenplay file and builds the shotlist against the
// schema of an optional reference sheet.
func convertInput(file, refPath string) (string, []screenplay.Scene, *shotlist.Table, shotlist.Resolution, error) {
	text, err := storage.ReadScreenplayText(file)
	if err != nil {
		return "", nil, nil, shotlist.Resolution{}, err
	}
	scenes := screenplay.ParseString(text)
	cols := refsheet.Default()
	if refPath != "" {
		cols = refsheet.Columns(refPath)
	}
	res := shotlist.Resolve(cols)
	return text, scenes, shotlist.Build(scenes, res), res, nil
}

func runConvert(l *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	refPath := fs.String("ref", "", "reference sheet (.csv/.xlsx) supplying the target column schema")
	format := fs.String("format", "csv", "output format: csv, xlsx, pdf, or board")
	out := fs.String("o", "", "output file (default: stdout for csv, <file>.<ext> otherwise)")
	preset := fs.String("preset", "", "batch preset: spreadsheet, review, or all (overrides -format)")
	outDir := fs.String("outdir", "", "directory for preset outputs (default: configured export dir or .)")
	title := fs.String("title", "", "title for the PDF header (default: file name)")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("convert requires a screenplay file")
	}
	file := fs.Arg(0)
	_, scenes, tbl, _, err := convertInput(file, *refPath)
	if err != nil {
		return err
	}
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	docTitle := *title
	if docTitle == "" {
		docTitle = stem
	}
	l.Info("converted", slog.Int("scenes", len(scenes)), slog.Int("rows", len(tbl.Rows)))

	if *preset != "" {
		cfg, _, _ := config.Load()
		dir := *outDir
		if dir == "" {
			dir = cfg.General.DefaultExportDir
		}
		paths, err := export.BatchExport(scenes, tbl, export.BatchOptions{
			Preset: export.PresetName(strings.ToLower(*preset)),
			OutDir: dir,
			Base:   stem,
			Title:  docTitle,
		})
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	switch strings.ToLower(*format) {
	case "csv":
		if *out == "" {
			if err := export.WriteCSV(os.Stdout, tbl); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%d scenes, %d rows\n", len(scenes), len(tbl.Rows))
			return nil
		}
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		if err := export.WriteCSV(f, tbl); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	case "xlsx":
		if *out == "" {
			*out = stem + ".xlsx"
		}
		if err := export.WriteXLSX(*out, tbl); err != nil {
			return err
		}
	case "pdf":
		if *out == "" {
			*out = stem + ".pdf"
		}
		if err := export.WritePDF(*out, tbl, docTitle); err != nil {
			return err
		}
	case "board":
		if *out == "" {
			*out = stem + "-board.png"
		}
		if err := export.WriteBoard(*out, scenes, export.BoardOptions{}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want csv, xlsx, pdf, or board)", *format)
	}
	fmt.Printf("Wrote %s (%d scenes, %d rows)\n", *out, len(scenes), len(tbl.Rows))
	return nil
}

func runColumns(args []string) error {
	fs := flag.NewFlagSet("columns", flag.ExitOnError)
	_ = fs.Parse(args)
	cols := refsheet.Default()
	src := "default schema"
	if fs.NArg() > 0 {
		cols = refsheet.Columns(fs.Arg(0))
		src = fs.Arg(0)
	}
	res := shotlist.Resolve(cols)
	fmt.Printf("Column mapping for %s:\n", src)
	for _, f := range shotlist.Fields() {
		col := res.Column(f)
		marker := ""
		if col != f.Name() {
			marker = " (mapped)"
		}
		fmt.Printf("  %-14s -> %s%s\n", f.Name(), col, marker)
	}
	fmt.Println()
	fmt.Println("Output columns:", strings.Join(res.Columns(), ", "))
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("stats requires a screenplay file")
	}
	text, err := storage.ReadScreenplayText(fs.Arg(0))
	if err != nil {
		return err
	}
	scenes := screenplay.ParseString(text)
	cov := storage.ComputeBeatCoverage(scenes)
	for _, c := range cov {
		fmt.Printf("sc.%-3d %-45s beats=%-3d dialogue=%-3d action=%d\n",
			c.SceneNumber, c.Heading, c.TotalBeats, c.DialogueBeats, c.ActionBeats)
	}
	totals := storage.ComputeTotals(cov)
	fmt.Printf("\n%d scenes, %d beats (%d dialogue / %d action, %.0f%% dialogue)\n",
		totals.Scenes, totals.Beats, totals.DialogueBeats, totals.ActionBeats, totals.DialogueRatio*100)

	speakers := map[string]int{}
	for _, c := range cov {
		for name, n := range c.SpeakerBeatCounts {
			speakers[name] += n
		}
	}
	if len(speakers) > 0 {
		type speakerCount struct {
			name string
			n    int
		}
		ranked := make([]speakerCount, 0, len(speakers))
		for name, n := range speakers {
			ranked = append(ranked, speakerCount{name, n})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].n != ranked[j].n {
				return ranked[i].n > ranked[j].n
			}
			return ranked[i].name < ranked[j].name
		})
		if len(ranked) > 5 {
			ranked = ranked[:5]
		}
		fmt.Println("Top speakers:")
		for _, s := range ranked {
			fmt.Printf("  %-20s %d\n", s.name, s.n)
		}
	}
	return nil
}

func runSearch(l *slog.Logger, ph **storage.ProjectHandle, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	character := fs.String("character", "", "restrict to scenes featuring this character")
	kinds := fs.String("kind", "", "comma-separated document kinds (heading, action, dialogue, characters)")
	from := fs.Int("from", 0, "lowest scene number to include")
	to := fs.Int("to", 0, "highest scene number to include")
	limit := fs.Int("limit", 20, "maximum results")
	offset := fs.Int("offset", 0, "results to skip (pagination)")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("search requires <dir> and a query")
	}
	abs, _ := filepath.Abs(fs.Arg(0))
	h, err := storage.Open(abs)
	if err != nil {
		return err
	}
	*ph = h
	q := storage.SearchQuery{
		Text:      strings.Join(fs.Args()[1:], " "),
		Character: *character,
		SceneFrom: *from,
		SceneTo:   *to,
		Limit:     *limit,
		Offset:    *offset,
	}
	if *kinds != "" {
		for _, k := range strings.Split(*kinds, ",") {
			if k = strings.TrimSpace(k); k != "" {
				q.Kinds = append(q.Kinds, k)
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	results, err := storage.Search(ctx, h.Root, q)
	if err != nil {
		return err
	}
	l.Debug("search done", slog.Int("results", len(results)))
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, r := range results {
		scene := "-"
		if r.SceneNo > 0 {
			scene = fmt.Sprintf("%d", r.SceneNo)
		}
		line := r.Snippet
		if line == "" {
			line = r.Path
		}
		fmt.Printf("sc.%-3s [%s] %s\n", scene, r.Kind, line)
	}
	return nil
}

func runWatch(l *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	refPath := fs.String("ref", "", "reference sheet (.csv/.xlsx) supplying the target column schema")
	out := fs.String("o", "", "output CSV path (default: <file>.csv next to the screenplay)")
	debounce := fs.Duration("debounce", 500*time.Millisecond, "settle time before re-converting")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("watch requires a screenplay file")
	}
	target, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return err
	}
	outPath := *out
	if outPath == "" {
		outPath = strings.TrimSuffix(target, filepath.Ext(target)) + ".csv"
	}

	// Keep prior renders so "changed vs unchanged" survives rapid saves.
	hist := history.NewManager(history.Config{MaxPerScreenplay: 20})
	var lastCSV string
	render := func() {
		_, scenes, tbl, _, err := convertInput(target, *refPath)
		if err != nil {
			l.Error("convert failed", slog.Any("err", err))
			return
		}
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, tbl); err != nil {
			l.Error("render failed", slog.Any("err", err))
			return
		}
		if buf.String() == lastCSV {
			l.Info("shotlist unchanged", slog.Int("rows", len(tbl.Rows)))
			return
		}
		if lastCSV != "" {
			hist.Push(history.Revision{ScreenplayID: target, Text: lastCSV, TS: time.Now()})
		}
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			l.Error("write output failed", slog.Any("err", err))
			return
		}
		lastCSV = buf.String()
		l.Info("shotlist updated", slog.String("out", outPath),
			slog.Int("scenes", len(scenes)), slog.Int("rows", len(tbl.Rows)))
	}
	render()

	w, err := watch.New(watch.Options{
		Dir:      filepath.Dir(target),
		Debounce: *debounce,
		OnChange: func(path string) {
			if path == target {
				render()
			}
		},
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %s -> %s (Ctrl+C to stop)\n", target, outPath)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	w.Stop()
	st := w.GetStats()
	_, _, revs := hist.Stats()
	l.Info("watch stopped", slog.Int("modified", st.Modified), slog.Int("created", st.Created),
		slog.Int("revisions", revs))
	return nil
}

func runPush(l *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	urlFlag := fs.String("url", "", "backend base URL (default: configured backend)")
	tokenFlag := fs.String("token", "", "bearer token (default: OS keychain)")
	refPath := fs.String("ref", "", "reference sheet (.csv/.xlsx) supplying the target column schema")
	title := fs.String("title", "", "conversion title (default: file name)")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("push requires a screenplay file")
	}
	file := fs.Arg(0)

	text, err := storage.ReadScreenplayText(file)
	if err != nil {
		return err
	}
	scenes := screenplay.ParseString(text)
	cols := refsheet.Default()
	if *refPath != "" {
		cols = refsheet.Columns(*refPath)
	}
	// Publishing is strict: a schema that claims one column twice is an
	// error here, not a silent pick.
	res, err := shotlist.ResolveStrict(cols)
	if err != nil {
		return err
	}
	tbl := shotlist.Build(scenes, res)

	convTitle := *title
	if convTitle == "" {
		convTitle = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	cfg, token, _ := config.Load()
	baseURL := cfg.Backend.BaseURL
	if *urlFlag != "" {
		baseURL = *urlFlag
	}
	if *tokenFlag != "" {
		token = *tokenFlag
	}
	client := backend.NewClient(baseURL, token)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
	defer cancel()
	out, err := client.CreateConversion(ctx, backend.NewConversion(convTitle, scenes, tbl, text))
	if err != nil {
		return err
	}
	l.Info("pushed conversion", slog.String("id", out.ID), slog.Int("rows", out.RowCount))
	fmt.Printf("Published %q as %s (%d scenes, %d rows)\n", out.Title, out.ID, out.SceneCount, out.RowCount)
	return nil
}

func runPull(l *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("pull", flag.ExitOnError)
	urlFlag := fs.String("url", "", "backend base URL (default: configured backend)")
	tokenFlag := fs.String("token", "", "bearer token (default: OS keychain)")
	out := fs.String("o", "", "output CSV path (default: stdout)")
	query := fs.String("q", "", "search published conversions instead of fetching")
	_ = fs.Parse(args)

	cfg, token, _ := config.Load()
	baseURL := cfg.Backend.BaseURL
	if *urlFlag != "" {
		baseURL = *urlFlag
	}
	if *tokenFlag != "" {
		token = *tokenFlag
	}
	client := backend.NewClient(baseURL, token)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
	defer cancel()

	if *query != "" {
		hits, err := client.SearchConversions(ctx, *query, 20)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, h := range hits {
			fmt.Printf("%s  %4d rows  %s  %s\n", h.ID, h.RowCount, h.Title, h.Snippet)
		}
		return nil
	}

	if fs.NArg() == 0 {
		convs, err := client.ListConversions(ctx)
		if err != nil {
			return err
		}
		if len(convs) == 0 {
			fmt.Println("No conversions on the backend.")
			return nil
		}
		for _, c := range convs {
			fmt.Printf("%s  %4d rows  %s  %s\n", c.ID, c.RowCount, c.CreatedAt.Format("2006-01-02 15:04"), c.Title)
		}
		return nil
	}

	conv, err := client.GetConversion(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	l.Debug("pulled conversion", slog.String("id", conv.ID), slog.Int("rows", conv.RowCount))
	tbl := conv.Table()
	if *out == "" {
		if err := export.WriteCSV(os.Stdout, tbl); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%q: %d rows\n", conv.Title, len(tbl.Rows))
		return nil
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, tbl); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d rows)\n", *out, len(tbl.Rows))
	return nil
}
