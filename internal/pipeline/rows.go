package pipeline

import (
	"fmt"

	"eolgames/internal"
	"eolgames/internal/config"
)

// ExtractRows emits one record per data row of h. Merged cells were
// already expanded when the grid was built, so a rowspan publisher lands
// on every row it covers. Rows without a title are skipped with a warning.
func ExtractRows(h TableHandle, profile config.Profile) ([]internal.GameRecord, []internal.Warning) {
	if h.grid == nil {
		return nil, nil
	}

	columns := h.Schema.Columns()
	titleCol := h.Schema.IndexOf(internal.FieldTitle)
	headerTitle := ""
	if titleCol >= 0 && titleCol < len(h.Header) {
		headerTitle = h.Header[titleCol]
	}

	records := make([]internal.GameRecord, 0, len(h.grid.rows))
	var warnings []internal.Warning
	skip := func(r int, format string, args ...any) {
		warnings = append(warnings, internal.Warning{
			Kind:    internal.WarningRowSkipped,
			Table:   h.Index,
			Row:     r + 1,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for r := h.headerRows; r < len(h.grid.rows); r++ {
		if h.grid.isSectionRow(r) {
			skip(r, "section header %q", h.grid.textAt(r, 0))
			continue
		}
		if h.grid.isHeaderRow(r) && headerTitle != "" && h.grid.textAt(r, titleCol) == headerTitle {
			skip(r, "repeated header row")
			continue
		}

		rec := internal.GameRecord{}
		for _, c := range columns {
			rec.Set(c.Field, cleanValue(profile, c.Field, h.grid.textAt(r, c.Index)))
		}
		if rec.Title() == "" {
			skip(r, "empty title")
			continue
		}
		records = append(records, rec)
	}
	return records, warnings
}
