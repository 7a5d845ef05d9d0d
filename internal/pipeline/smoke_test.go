package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"eolgames/internal"
	"eolgames/internal/config"
	"eolgames/internal/storage"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSmokeHTMLDirToJSON(t *testing.T) {
	tmp := t.TempDir()
	htmlDir := filepath.Join(tmp, "html")
	outDir := filepath.Join(tmp, "database")
	if err := os.MkdirAll(htmlDir, 0o755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, htmlDir, "List_of_Nintendo_Entertainment_System_games.html", page(
		htmlTable("softwarelist", []string{"Title", "Developer", "Publisher"}, [][]string{
			{"Super Mario Bros.[1]", "Nintendo EAD", "Nintendo"},
			{"Tetris", "Nintendo", "Nintendo"},
			{"Tetris", "Atari Games", "Tengen"},
		}),
		htmlTable("softwarelistunreleased", []string{"Title", "Year"}, [][]string{
			{"Mother 2", "1990"},
		}),
		htmlTable("konamiqtalist", []string{"Title"}, [][]string{
			{"Konami Quiz"},
		}),
	))
	writeFile(t, htmlDir, "List_of_Super_Nintendo_Entertainment_System_games.html", page(
		htmlTable("navbox", []string{"Links"}, [][]string{{"Home"}}),
	))
	writeFile(t, htmlDir, "List_of_Atari_Lynx_games.html", page())
	writeFile(t, htmlDir, "notes.txt", "not html")

	db, err := storage.Open(filepath.Join(tmp, "data", "games.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg := config.Config{Workers: 2, MinTableRows: 10, HeaderMatchThreshold: 0.95}
	profiles, err := config.LoadProfiles(cfg, "")
	if err != nil {
		t.Fatal(err)
	}

	report, err := NewProcessingService(db, cfg, profiles, nil).Run(context.Background(), htmlDir, outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Consoles) != 2 || report.Failed() != 1 {
		t.Fatalf("consoles=%d failed=%d", len(report.Consoles), report.Failed())
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Kind != internal.WarningUnknownConsole {
		t.Fatalf("batch warnings=%v", report.Warnings)
	}

	nes, snes := report.Consoles[0], report.Consoles[1]
	if nes.Console != "nes" || !nes.OK() {
		t.Fatalf("nes=%+v", nes)
	}
	var fatal *FatalConsoleError
	if !errors.As(snes.Err, &fatal) || fatal.Console != "snes" || !errors.Is(snes.Err, ErrLicensedTableNotFound) {
		t.Fatalf("snes err=%v", snes.Err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "snes")); !os.IsNotExist(err) {
		t.Fatal("failed console wrote output")
	}
	if len(nes.Duplicates) != 1 || nes.Duplicates[0].Title != "Tetris" {
		t.Fatalf("duplicates=%v", nes.Duplicates)
	}

	for _, name := range []string{"licensed.json", "unreleased.json", "konami_qta.json", "nes_all.json"} {
		if _, err := os.Stat(filepath.Join(outDir, "nes", name)); err != nil {
			t.Fatal(err)
		}
	}

	// round trip: combined output keeps every record with its source set
	combined, err := storage.ReadRecords(filepath.Join(outDir, "nes", "nes_all.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := len(nes.Dataset.Licensed) + len(nes.Dataset.Unreleased) + len(nes.Dataset.Special)
	if len(combined) != want || want != 5 {
		t.Fatalf("combined=%d want %d", len(combined), want)
	}
	for i, r := range combined {
		var source []internal.GameRecord
		offset := i
		for _, c := range internal.Categories {
			if offset < len(nes.Dataset.Records(c)) {
				source = nes.Dataset.Records(c)
				if r[internal.FieldCategory] != string(c) || source[offset].Title() != r.Title() {
					t.Fatalf("record %d=%v, source %s", i, r, c)
				}
				break
			}
			offset -= len(nes.Dataset.Records(c))
		}
		if source == nil {
			t.Fatalf("record %d has no source", i)
		}
	}

	stored, err := db.ListGames("nes", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 5 {
		t.Fatalf("stored=%d", len(stored))
	}
	last, err := db.GetMetadata("last_run")
	if err != nil || last == nil || *last != report.TraceID {
		t.Fatalf("last_run=%v err=%v", last, err)
	}

	var buf bytes.Buffer
	RenderReport(&buf, report, true)
	out := buf.String()
	if !strings.Contains(out, "FAILED") || !strings.Contains(out, "[duplicate]") {
		t.Fatalf("report:\n%s", out)
	}
}

func TestExportConsolesToXLSX(t *testing.T) {
	data := map[string][]internal.GameRecord{
		"nes": {
			rec("Contra").WithCategory(internal.CategoryLicensed),
			rec("Mother").WithCategory(internal.CategoryUnreleased),
		},
		"snes": {rec("Chrono Trigger").WithCategory(internal.CategoryLicensed)},
	}
	out := filepath.Join(t.TempDir(), "export", "games.xlsx")
	if err := ExportConsolesToXLSX(data, out); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("nes")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][0] != "title" || rows[2][0] != "Mother" {
		t.Fatalf("rows=%v", rows)
	}
	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 3 || summary[1][0] != "nes" || summary[1][4] != "2" {
		t.Fatalf("summary=%v", summary)
	}
}
