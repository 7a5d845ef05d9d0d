// Package dupcheck verifies extracted JSON output for repeated records.
// Two records are the same game when every field except category is
// identical.
package dupcheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"eolgames/internal"
	"eolgames/internal/storage"
)

const ReportFile = "duplicate_analysis.json"

type Options struct {
	// IncludeCombined also reads <console>_all.json files, which repeat
	// every per-category record by construction.
	IncludeCombined bool
}

type Location struct {
	File  string `json:"file"`
	Index int    `json:"index"`
}

type InternalDuplicate struct {
	Index int                 `json:"index"`
	Game  internal.GameRecord `json:"game"`
}

type CrossFileDuplicate struct {
	Game      internal.GameRecord `json:"game"`
	Locations []Location          `json:"locations"`
	Count     int                 `json:"count"`
}

type Stats struct {
	TotalUniqueGames int `json:"total_unique_games"`
	TotalGameEntries int `json:"total_game_entries"`
}

func (s Stats) DuplicateRate() float64 {
	if s.TotalGameEntries == 0 {
		return 0
	}
	return float64(s.TotalGameEntries-s.TotalUniqueGames) / float64(s.TotalGameEntries) * 100
}

type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type Result struct {
	InternalDuplicates  map[string][]InternalDuplicate `json:"internal_duplicates"`
	CrossFileDuplicates []CrossFileDuplicate           `json:"cross_file_duplicates"`
	Stats               Stats                          `json:"stats"`
	Errors              []FileError                    `json:"errors,omitempty"`
}

// Analyze reads every JSON record file under dir. Unreadable files are
// reported in Result.Errors and treated as empty.
func Analyze(dir string, opts Options) (Result, error) {
	paths, err := storage.ListJSONFiles(dir)
	if err != nil {
		return Result{}, err
	}

	var (
		files  []string
		errs   []FileError
		loaded = map[string][]internal.GameRecord{}
	)
	for _, p := range paths {
		name := filepath.Base(p)
		if name == ReportFile {
			continue
		}
		if !opts.IncludeCombined && strings.HasSuffix(name, storage.CombinedSuffix) {
			continue
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			rel = p
		}
		files = append(files, rel)
		records, err := storage.ReadRecords(p)
		if err != nil {
			errs = append(errs, FileError{File: rel, Error: err.Error()})
			continue
		}
		loaded[rel] = records
	}

	res := AnalyzeFiles(files, loaded)
	res.Errors = errs
	return res, nil
}

func AnalyzeFiles(files []string, data map[string][]internal.GameRecord) Result {
	res := Result{
		InternalDuplicates:  map[string][]InternalDuplicate{},
		CrossFileDuplicates: []CrossFileDuplicate{},
	}

	locations := map[string][]Location{}
	var order []string
	for _, f := range files {
		seen := map[string]struct{}{}
		for i, g := range data[f] {
			res.Stats.TotalGameEntries++
			key := recordKey(g)

			if _, dup := seen[key]; dup {
				res.InternalDuplicates[f] = append(res.InternalDuplicates[f], InternalDuplicate{Index: i, Game: g})
			}
			seen[key] = struct{}{}

			if _, known := locations[key]; !known {
				order = append(order, key)
			}
			locations[key] = append(locations[key], Location{File: f, Index: i})
		}
	}
	res.Stats.TotalUniqueGames = len(locations)

	for _, key := range order {
		locs := locations[key]
		if len(locs) < 2 {
			continue
		}
		first := locs[0]
		res.CrossFileDuplicates = append(res.CrossFileDuplicates, CrossFileDuplicate{
			Game:      data[first.File][first.Index],
			Locations: locs,
			Count:     len(locs),
		})
	}
	sort.SliceStable(res.CrossFileDuplicates, func(i, j int) bool {
		return res.CrossFileDuplicates[i].Count > res.CrossFileDuplicates[j].Count
	})
	return res
}

// recordKey serializes g without its category. encoding/json sorts map
// keys, so field order in the source file does not matter.
func recordKey(g internal.GameRecord) string {
	m := make(map[string]string, len(g))
	for k, v := range g {
		if k == internal.FieldCategory {
			continue
		}
		m[string(k)] = v
	}
	blob, _ := json.Marshal(m)
	return string(blob)
}

func WriteJSON(path string, res Result) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func Render(w io.Writer, res Result, top int) {
	stats := table.NewWriter()
	stats.SetOutputMirror(w)
	stats.AppendHeader(table.Row{"Statistic", "Value"})
	stats.AppendRows([]table.Row{
		{"Total unique games", res.Stats.TotalUniqueGames},
		{"Total game entries", res.Stats.TotalGameEntries},
		{"Duplicate rate", fmt.Sprintf("%.1f%%", res.Stats.DuplicateRate())},
		{"Repeated games", len(res.CrossFileDuplicates)},
	})
	stats.SetStyle(table.StyleRounded)
	stats.Render()

	for _, fe := range res.Errors {
		fmt.Fprintf(w, "error: %s: %s\n", fe.File, fe.Error)
	}

	if len(res.InternalDuplicates) == 0 {
		fmt.Fprintln(w, "no internal duplicates")
	} else {
		files := make([]string, 0, len(res.InternalDuplicates))
		for f := range res.InternalDuplicates {
			files = append(files, f)
		}
		sort.Strings(files)

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"File", "Row", "Title"})
		for _, f := range files {
			dups := res.InternalDuplicates[f]
			for i, d := range dups {
				if i == 5 {
					t.AppendRow(table.Row{f, "", fmt.Sprintf("... and %d more", len(dups)-5)})
					break
				}
				t.AppendRow(table.Row{f, d.Index + 1, d.Game.Title()})
			}
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	}

	if len(res.CrossFileDuplicates) == 0 {
		fmt.Fprintln(w, "no repeated games across files")
		return
	}
	if top <= 0 || top > len(res.CrossFileDuplicates) {
		top = len(res.CrossFileDuplicates)
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Title", "Count", "Locations"})
	for i, d := range res.CrossFileDuplicates[:top] {
		locs := make([]string, 0, len(d.Locations))
		for _, l := range d.Locations {
			locs = append(locs, fmt.Sprintf("%s row %d", l.File, l.Index+1))
		}
		t.AppendRow(table.Row{i + 1, d.Game.Title(), d.Count, strings.Join(locs, "\n")})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
