package pipeline

import (
	"io"

	"eolgames/internal"
	"eolgames/internal/config"
)

// TableSummary describes one table that contributed records.
type TableSummary struct {
	Category internal.Category
	Index    int
	ID       string
	Strategy string
	Fields   []internal.Field
	Records  int
}

type DocumentResult struct {
	Records  map[internal.Category][]internal.GameRecord
	Tables   []TableSummary
	Warnings []internal.Warning
}

func (r DocumentResult) Count(c internal.Category) int {
	return len(r.Records[c])
}

// Extractor runs locate, map and row extraction over documents of one
// console. It holds no per-document state.
type Extractor struct {
	profile config.Profile
	locator *Locator
}

func NewExtractor(profile config.Profile) *Extractor {
	return &Extractor{profile: profile, locator: NewLocator(profile)}
}

// ExtractDocument returns records for every category. A missing licensed
// table aborts with ErrLicensedTableNotFound; the partial result still
// carries the warnings gathered so far.
func (e *Extractor) ExtractDocument(doc *Document) (DocumentResult, error) {
	res := DocumentResult{Records: map[internal.Category][]internal.GameRecord{}}

	for _, c := range internal.Categories {
		handles, warnings, err := e.locator.Locate(doc, c)
		res.Warnings = append(res.Warnings, warnings...)
		if err != nil {
			return res, err
		}

		records := []internal.GameRecord{}
		for _, h := range handles {
			rows, rowWarnings := ExtractRows(h, e.profile)
			records = append(records, rows...)
			res.Warnings = append(res.Warnings, withCategory(rowWarnings, c)...)

			fields := make([]internal.Field, 0, h.Schema.Len())
			for _, col := range h.Schema.Columns() {
				fields = append(fields, col.Field)
			}
			res.Tables = append(res.Tables, TableSummary{
				Category: c,
				Index:    h.Index,
				ID:       h.ID,
				Strategy: h.Strategy,
				Fields:   fields,
				Records:  len(rows),
			})
		}
		res.Records[c] = records
	}
	return res, nil
}

func (e *Extractor) ExtractHTML(r io.Reader) (DocumentResult, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return DocumentResult{}, err
	}
	return e.ExtractDocument(doc)
}

func BuildDataset(console, specialName string, results []DocumentResult) (internal.ConsoleDataset, []internal.DuplicateNotice) {
	per := map[internal.Category][]internal.GameRecord{}
	for _, res := range results {
		for _, c := range internal.Categories {
			per[c] = append(per[c], res.Records[c]...)
		}
	}

	agg := Aggregate(per[internal.CategoryLicensed], per[internal.CategoryUnreleased], per[internal.CategorySpecial])
	return internal.ConsoleDataset{
		Console:     console,
		SpecialName: specialName,
		Licensed:    agg.PerCategory[internal.CategoryLicensed],
		Unreleased:  agg.PerCategory[internal.CategoryUnreleased],
		Special:     agg.PerCategory[internal.CategorySpecial],
		Combined:    agg.Combined,
	}, agg.Duplicates
}
