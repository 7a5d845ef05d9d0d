package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"eolgames/internal"
)

const summarySheet = "summary"

// ExportConsolesToXLSX writes a workbook with a summary sheet followed by
// one sheet per console. Columns follow FieldOrder; the category column
// carries each record's source set.
func ExportConsolesToXLSX(data map[string][]internal.GameRecord, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}

	consoles := make([]string, 0, len(data))
	for c := range data {
		consoles = append(consoles, c)
	}
	sort.Strings(consoles)

	setRow(f, summarySheet, 1, "console", "licensed", "unreleased", "special", "total")
	for i, console := range consoles {
		counts := map[string]int{}
		for _, rec := range data[console] {
			counts[rec[internal.FieldCategory]]++
		}
		setRow(f, summarySheet, i+2, console,
			counts[string(internal.CategoryLicensed)],
			counts[string(internal.CategoryUnreleased)],
			counts[string(internal.CategorySpecial)],
			len(data[console]),
		)
	}

	headers := make([]any, len(internal.FieldOrder))
	for i, field := range internal.FieldOrder {
		headers[i] = string(field)
	}
	for _, console := range consoles {
		sheet := sheetName(console)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		setRow(f, sheet, 1, headers...)
		for i, rec := range data[console] {
			values := make([]any, len(internal.FieldOrder))
			for j, field := range internal.FieldOrder {
				values[j] = rec[field]
			}
			setRow(f, sheet, i+2, values...)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

// sheetName keeps names inside Excel's 31 character limit.
func sheetName(console string) string {
	r := []rune(console)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
