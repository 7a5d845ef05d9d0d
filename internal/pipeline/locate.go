package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"eolgames/internal"
	"eolgames/internal/config"
)

const (
	StrategyID       = "id"
	StrategyFallback = "fallback"
)

// Document is one parsed source page. Tables are indexed in document
// order; a table claimed by one category is not offered to another.
type Document struct {
	doc     *goquery.Document
	tables  []*goquery.Selection
	grids   map[int]*tableGrid
	claimed map[int]internal.Category
}

func ParseDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return NewDocument(doc), nil
}

func NewDocument(doc *goquery.Document) *Document {
	d := &Document{
		doc:     doc,
		grids:   map[int]*tableGrid{},
		claimed: map[int]internal.Category{},
	}
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		d.tables = append(d.tables, s)
	})
	return d
}

func (d *Document) tableID(i int) string {
	id, _ := d.tables[i].Attr("id")
	return strings.TrimSpace(id)
}

func (d *Document) grid(i int) *tableGrid {
	if g, ok := d.grids[i]; ok {
		return g
	}
	g := buildGrid(d.tables[i])
	d.grids[i] = g
	return g
}

// TableHandle is a located table together with its derived schema.
type TableHandle struct {
	Index    int
	ID       string
	Strategy string
	Header   []string
	Schema   internal.TableSchema

	grid       *tableGrid
	headerRows int
}

// DataRowCount counts body rows, ignoring section dividers.
func (h TableHandle) DataRowCount() int {
	if h.grid == nil {
		return 0
	}
	n := 0
	for r := h.headerRows; r < len(h.grid.rows); r++ {
		if !h.grid.isSectionRow(r) {
			n++
		}
	}
	return n
}

// Locator finds the tables holding each category for one console.
type Locator struct {
	profile config.Profile
	mapper  *Mapper
}

func NewLocator(profile config.Profile) *Locator {
	return &Locator{profile: profile, mapper: NewMapper(profile)}
}

func (l *Locator) handle(doc *Document, i int) (TableHandle, []internal.Warning, error) {
	g := doc.grid(i)
	headerRows := g.headerRowCount()
	header := g.headerLabels(headerRows)
	schema, warnings, err := l.mapper.MapColumns(header)
	for j := range warnings {
		warnings[j].Table = i
	}
	return TableHandle{
		Index:      i,
		ID:         doc.tableID(i),
		Header:     header,
		Schema:     schema,
		grid:       g,
		headerRows: headerRows,
	}, warnings, err
}

// Locate returns the tables for category in document order. Tables whose
// id is configured for the category win; otherwise the first unclaimed
// table passing the category's fallback rule is used. Only the licensed
// category treats "nothing found" as an error.
func (l *Locator) Locate(doc *Document, category internal.Category) ([]TableHandle, []internal.Warning, error) {
	var (
		handles  []TableHandle
		warnings []internal.Warning
	)

	wanted := map[string]struct{}{}
	for _, id := range l.profile.TableIDs[category] {
		wanted[id] = struct{}{}
	}
	for i := range doc.tables {
		if _, ok := wanted[doc.tableID(i)]; !ok {
			continue
		}
		if _, taken := doc.claimed[i]; taken {
			continue
		}
		h, ws, err := l.handle(doc, i)
		if err != nil {
			warnings = append(warnings, internal.Warning{
				Category: category,
				Kind:     internal.WarningTableRejected,
				Table:    i,
				Message:  fmt.Sprintf("table #%s: %v", h.ID, err),
			})
			continue
		}
		h.Strategy = StrategyID
		doc.claimed[i] = category
		handles = append(handles, h)
		warnings = append(warnings, withCategory(ws, category)...)
	}
	if len(handles) > 0 {
		return handles, warnings, nil
	}

	var rejected []string
	if rule, ok := l.profile.Fallback[category]; ok {
		reserved := l.reservedIDs(category)
		for i := range doc.tables {
			if _, taken := doc.claimed[i]; taken {
				continue
			}
			if _, skip := reserved[doc.tableID(i)]; skip {
				continue
			}
			h, ws, err := l.handle(doc, i)
			if err != nil {
				continue
			}
			if res := detectTable(h, rule, l.profile.MinDataRows); !res.OK {
				rejected = append(rejected, fmt.Sprintf("table %d: %s", i, res.Reason))
				continue
			}
			h.Strategy = StrategyFallback
			doc.claimed[i] = category
			return []TableHandle{h}, append(warnings, withCategory(ws, category)...), nil
		}
	}

	if category == internal.CategoryLicensed {
		if len(rejected) > 0 {
			return nil, warnings, fmt.Errorf("%w (%s)", ErrLicensedTableNotFound, strings.Join(rejected, "; "))
		}
		return nil, warnings, ErrLicensedTableNotFound
	}
	return nil, warnings, nil
}

func (l *Locator) reservedIDs(category internal.Category) map[string]struct{} {
	out := map[string]struct{}{}
	for c, ids := range l.profile.TableIDs {
		if c == category {
			continue
		}
		for _, id := range ids {
			out[id] = struct{}{}
		}
	}
	return out
}

func withCategory(ws []internal.Warning, c internal.Category) []internal.Warning {
	for i := range ws {
		ws[i].Category = c
	}
	return ws
}
