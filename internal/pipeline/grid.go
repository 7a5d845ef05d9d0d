package pipeline

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"eolgames/internal/util"
)

const (
	maxRowSpan = 1000
	maxColSpan = 64
)

// gridCell is one logical position of a table after rowspan/colspan
// expansion. Positions covered by the same source cell share id.
type gridCell struct {
	id        int
	text      string
	header    bool
	rowHeader bool
	originRow int
}

type tableGrid struct {
	rows  [][]*gridCell
	width int
}

func (g *tableGrid) at(row, col int) *gridCell {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return nil
	}
	return g.rows[row][col]
}

func (g *tableGrid) textAt(row, col int) string {
	if c := g.at(row, col); c != nil {
		return c.text
	}
	return ""
}

// single cell spanning the whole table, e.g. the "A", "B" dividers
func (g *tableGrid) isSectionRow(row int) bool {
	if g.width < 2 || row < 0 || row >= len(g.rows) || len(g.rows[row]) < g.width {
		return false
	}
	first := g.rows[row][0]
	if first == nil || first.originRow != row {
		return false
	}
	for _, c := range g.rows[row][:g.width] {
		if c == nil || c.id != first.id {
			return false
		}
	}
	return true
}

func (g *tableGrid) isHeaderRow(row int) bool {
	if row < 0 || row >= len(g.rows) || len(g.rows[row]) == 0 {
		return false
	}
	for _, c := range g.rows[row] {
		if c == nil || !c.header || c.rowHeader {
			return false
		}
	}
	return true
}

// the first row always counts
func (g *tableGrid) headerRowCount() int {
	if len(g.rows) == 0 {
		return 0
	}
	n := 1
	for n < len(g.rows) && g.isHeaderRow(n) && !g.isSectionRow(n) {
		n++
	}
	return n
}

// headerLabels returns one label per column taken from the bottom header
// row, so grouped headers such as "Release date" over "JP | NA | PAL"
// resolve to the specific region.
func (g *tableGrid) headerLabels(headerRows int) []string {
	if headerRows == 0 {
		return nil
	}
	bottom := headerRows - 1
	labels := make([]string, g.width)
	for col := 0; col < g.width; col++ {
		labels[col] = g.textAt(bottom, col)
		if labels[col] == "" {
			for r := bottom - 1; r >= 0; r-- {
				if t := g.textAt(r, col); t != "" {
					labels[col] = t
					break
				}
			}
		}
	}
	return labels
}

func buildGrid(table *goquery.Selection) *tableGrid {
	rows := table.ChildrenFiltered("thead, tbody, tfoot").ChildrenFiltered("tr")
	g := &tableGrid{rows: make([][]*gridCell, rows.Length())}

	nextID := 0
	rows.Each(func(r int, row *goquery.Selection) {
		col := 0
		row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			for col < len(g.rows[r]) && g.rows[r][col] != nil {
				col++
			}

			rowSpan := spanAttr(cell, "rowspan", maxRowSpan)
			colSpan := spanAttr(cell, "colspan", maxColSpan)
			node := cell.Get(0)
			gc := &gridCell{
				id:        nextID,
				text:      cellText(node),
				header:    node.DataAtom == atom.Th,
				originRow: r,
			}
			if gc.header {
				scope, _ := cell.Attr("scope")
				gc.rowHeader = strings.EqualFold(scope, "row")
			}
			nextID++

			for dr := 0; dr < rowSpan && r+dr < len(g.rows); dr++ {
				for dc := 0; dc < colSpan; dc++ {
					g.place(r+dr, col+dc, gc)
				}
			}
			col += colSpan
		})
	})

	for _, row := range g.rows {
		if len(row) > g.width {
			g.width = len(row)
		}
	}
	return g
}

func (g *tableGrid) place(row, col int, c *gridCell) {
	for len(g.rows[row]) <= col {
		g.rows[row] = append(g.rows[row], nil)
	}
	if g.rows[row][col] == nil {
		g.rows[row][col] = c
	}
}

func spanAttr(cell *goquery.Selection, name string, limit int) int {
	raw, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}

// cellText renders the visible text of a cell and normalizes it.
// Footnote superscripts, hidden sort keys and edit links are dropped.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipNode(n) {
				return
			}
			switch n.DataAtom {
			case atom.Br:
				b.WriteByte(' ')
				return
			case atom.P, atom.Div, atom.Li:
				b.WriteByte(' ')
				defer b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return util.NormalizeText(b.String())
}

func skipNode(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Style, atom.Script, atom.Template:
		return true
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "class":
			for _, cls := range strings.Fields(a.Val) {
				switch cls {
				case "reference", "sortkey", "mw-editsection", "mw-ref":
					return true
				}
			}
		case "style":
			compact := strings.ToLower(strings.ReplaceAll(a.Val, " ", ""))
			if strings.Contains(compact, "display:none") {
				return true
			}
		}
	}
	return false
}
