package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

type Category string

const (
	CategoryLicensed   Category = "licensed"
	CategoryUnreleased Category = "unreleased"
	CategorySpecial    Category = "special"
)

// Categories lists every category in combined-output order.
var Categories = []Category{CategoryLicensed, CategoryUnreleased, CategorySpecial}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

type Field string

const (
	FieldTitle         Field = "title"
	FieldDeveloper     Field = "developer"
	FieldPublisher     Field = "publisher"
	FieldFirstReleased Field = "first_released"
	FieldJPRelease     Field = "jp_release"
	FieldNARelease     Field = "na_release"
	FieldPALRelease    Field = "pal_release"
	FieldYear          Field = "year"
	FieldRegions       Field = "regions"
	FieldCategory      Field = "category"
)

// FieldOrder is the serialization order of canonical fields.
var FieldOrder = []Field{
	FieldTitle, FieldDeveloper, FieldPublisher, FieldFirstReleased,
	FieldJPRelease, FieldNARelease, FieldPALRelease, FieldYear, FieldRegions, FieldCategory,
}

func IsCanonicalField(f Field) bool {
	for _, c := range FieldOrder {
		if c == f {
			return true
		}
	}
	return false
}

// GameRecord maps a field to its value. A missing key means "no value";
// empty strings are never stored.
type GameRecord map[Field]string

func (r GameRecord) Title() string {
	return r[FieldTitle]
}

func (r GameRecord) Get(f Field) (string, bool) {
	v, ok := r[f]
	return v, ok
}

// Set stores value under f, or removes f when value is empty.
func (r GameRecord) Set(f Field, value string) {
	if value == "" {
		delete(r, f)
		return
	}
	r[f] = value
}

func (r GameRecord) Clone() GameRecord {
	out := make(GameRecord, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (r GameRecord) WithCategory(c Category) GameRecord {
	out := r.Clone()
	out[FieldCategory] = string(c)
	return out
}

// MarshalJSON writes canonical fields in FieldOrder, then any other fields
// sorted by name. Empty values are omitted.
func (r GameRecord) MarshalJSON() ([]byte, error) {
	keys := make([]Field, 0, len(r))
	for _, f := range FieldOrder {
		if v, ok := r[f]; ok && v != "" {
			keys = append(keys, f)
		}
	}
	extra := make([]Field, 0)
	for f, v := range r {
		if !IsCanonicalField(f) && v != "" {
			extra = append(extra, f)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	keys = append(keys, extra...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, string(f)); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, r[f]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// ConsoleDataset is the result of one extraction pass for a console.
type ConsoleDataset struct {
	Console     string
	SpecialName string
	Licensed    []GameRecord
	Unreleased  []GameRecord
	Special     []GameRecord
	Combined    []GameRecord
}

func (d ConsoleDataset) Records(c Category) []GameRecord {
	switch c {
	case CategoryLicensed:
		return d.Licensed
	case CategoryUnreleased:
		return d.Unreleased
	case CategorySpecial:
		return d.Special
	default:
		return nil
	}
}

// FileStem returns the output file name (without extension) for a category.
func (d ConsoleDataset) FileStem(c Category) string {
	if c == CategorySpecial && d.SpecialName != "" {
		return d.SpecialName
	}
	return string(c)
}

type ColumnMapping struct {
	Index int
	Field Field
}

// TableSchema maps column indexes to fields. It is built once per table
// and is read-only afterwards.
type TableSchema struct {
	columns []ColumnMapping
}

func NewTableSchema(columns []ColumnMapping) TableSchema {
	cp := make([]ColumnMapping, len(columns))
	copy(cp, columns)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Index < cp[j].Index })
	return TableSchema{columns: cp}
}

func (s TableSchema) Columns() []ColumnMapping {
	cp := make([]ColumnMapping, len(s.columns))
	copy(cp, s.columns)
	return cp
}

func (s TableSchema) Len() int {
	return len(s.columns)
}

func (s TableSchema) IndexOf(f Field) int {
	for _, c := range s.columns {
		if c.Field == f {
			return c.Index
		}
	}
	return -1
}

func (s TableSchema) Has(f Field) bool {
	return s.IndexOf(f) >= 0
}

type WarningKind string

const (
	WarningRowSkipped     WarningKind = "row_skipped"
	WarningColumnConflict WarningKind = "column_conflict"
	WarningTableRejected  WarningKind = "table_rejected"
	WarningUnknownConsole WarningKind = "unknown_console"
)

// Warning is a recoverable problem recorded during extraction.
type Warning struct {
	Console  string      `json:"console,omitempty"`
	File     string      `json:"file,omitempty"`
	Category Category    `json:"category,omitempty"`
	Kind     WarningKind `json:"kind"`
	Table    int         `json:"table"`
	Row      int         `json:"row,omitempty"`
	Message  string      `json:"message"`
}

func (w Warning) String() string {
	loc := fmt.Sprintf("table %d", w.Table)
	if w.Row > 0 {
		loc += fmt.Sprintf(" row %d", w.Row)
	}
	if w.Category != "" {
		return fmt.Sprintf("[%s] %s %s: %s", w.Kind, w.Category, loc, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Kind, loc, w.Message)
}

// DuplicateNotice flags records sharing one title inside a single category.
type DuplicateNotice struct {
	Category  Category `json:"category"`
	Title     string   `json:"title"`
	Positions []int    `json:"positions"`
}
