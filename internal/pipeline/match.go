package pipeline

import (
	"fmt"

	"github.com/antzucaro/matchr"

	"eolgames/internal"
	"eolgames/internal/config"
	"eolgames/internal/util"
)

const (
	minFuzzyLabelLen = 4
	minFuzzyDice     = 0.5
)

// Mapper assigns header columns to canonical fields using a console
// profile's synonym table.
type Mapper struct {
	exact     map[string]internal.Field
	synonyms  []synonym
	threshold float64
}

type synonym struct {
	key   string
	field internal.Field
}

func NewMapper(profile config.Profile) *Mapper {
	m := &Mapper{
		exact:     map[string]internal.Field{},
		threshold: profile.HeaderMatchThreshold,
	}
	for _, f := range internal.FieldOrder {
		if f == internal.FieldCategory {
			continue
		}
		keys := append([]string{util.NormalizeHeader(string(f))}, profile.Synonyms[f]...)
		for _, key := range keys {
			if key == "" {
				continue
			}
			// earlier fields in FieldOrder keep ambiguous synonyms
			if _, taken := m.exact[key]; !taken {
				m.exact[key] = f
			}
			m.synonyms = append(m.synonyms, synonym{key: key, field: f})
		}
	}
	return m
}

// Match returns the field for a single header label.
func (m *Mapper) Match(label string) (internal.Field, bool) {
	key := util.NormalizeHeader(label)
	if key == "" {
		return "", false
	}
	if f, ok := m.exact[key]; ok {
		return f, true
	}
	if len([]rune(key)) < minFuzzyLabelLen || m.threshold <= 0 {
		return "", false
	}

	var best internal.Field
	bestScore := 0.0
	for _, s := range m.synonyms {
		score := matchr.JaroWinkler(key, s.key, false)
		if score < m.threshold || score <= bestScore {
			continue
		}
		if util.DiceCoefficient(key, s.key) < minFuzzyDice {
			continue
		}
		best, bestScore = s.field, score
	}
	return best, best != ""
}

// MapColumns builds the schema for one header row. Unrecognized columns
// are dropped. When two columns resolve to the same field the first one
// wins and a column_conflict warning is returned. A header without a
// title column yields ErrNoTitleColumn.
func (m *Mapper) MapColumns(header []string) (internal.TableSchema, []internal.Warning, error) {
	columns := make([]internal.ColumnMapping, 0, len(header))
	assigned := map[internal.Field]int{}
	var warnings []internal.Warning

	for i, label := range header {
		f, ok := m.Match(label)
		if !ok {
			continue
		}
		if prev, dup := assigned[f]; dup {
			warnings = append(warnings, internal.Warning{
				Kind:    internal.WarningColumnConflict,
				Message: fmt.Sprintf("column %d %q also maps to %s, keeping column %d", i, label, f, prev),
			})
			continue
		}
		assigned[f] = i
		columns = append(columns, internal.ColumnMapping{Index: i, Field: f})
	}

	schema := internal.NewTableSchema(columns)
	if !schema.Has(internal.FieldTitle) {
		return schema, warnings, ErrNoTitleColumn
	}
	return schema, warnings, nil
}
