package pipeline

import "eolgames/internal"

type Aggregation struct {
	PerCategory map[internal.Category][]internal.GameRecord
	Combined    []internal.GameRecord
	Duplicates  []internal.DuplicateNotice
}

// Aggregate concatenates the three sets into the combined output in
// licensed, unreleased, special order, stamping each copy with its
// category. The input slices are not modified.
func Aggregate(licensed, unreleased, special []internal.GameRecord) Aggregation {
	per := map[internal.Category][]internal.GameRecord{
		internal.CategoryLicensed:   nonNil(licensed),
		internal.CategoryUnreleased: nonNil(unreleased),
		internal.CategorySpecial:    nonNil(special),
	}

	out := Aggregation{
		PerCategory: per,
		Combined:    make([]internal.GameRecord, 0, len(licensed)+len(unreleased)+len(special)),
	}
	for _, c := range internal.Categories {
		for _, rec := range per[c] {
			out.Combined = append(out.Combined, rec.WithCategory(c))
		}
		out.Duplicates = append(out.Duplicates, FindDuplicates(c, per[c])...)
	}
	return out
}

// FindDuplicates flags titles that occur more than once in one category.
// Groups are reported in order of first occurrence. Titles compare by
// exact normalized text; case and diacritics are significant.
func FindDuplicates(c internal.Category, records []internal.GameRecord) []internal.DuplicateNotice {
	positions := map[string][]int{}
	var order []string
	for i, rec := range records {
		t := rec.Title()
		if t == "" {
			continue
		}
		if _, seen := positions[t]; !seen {
			order = append(order, t)
		}
		positions[t] = append(positions[t], i)
	}

	var out []internal.DuplicateNotice
	for _, t := range order {
		if len(positions[t]) > 1 {
			out = append(out, internal.DuplicateNotice{Category: c, Title: t, Positions: positions[t]})
		}
	}
	return out
}

func nonNil(records []internal.GameRecord) []internal.GameRecord {
	if records == nil {
		return []internal.GameRecord{}
	}
	return records
}
