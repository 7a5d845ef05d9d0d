package pipeline

import (
	"strings"
	"testing"

	"eolgames/internal"
)

func locateLicensed(t *testing.T, html string) (TableHandle, []internal.GameRecord, []internal.Warning) {
	t.Helper()
	profile := testProfile(t, "nes")
	doc, err := ParseDocument(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	handles, _, err := NewLocator(profile).Locate(doc, internal.CategoryLicensed)
	if err != nil {
		t.Fatal(err)
	}
	if len(handles) != 1 {
		t.Fatalf("handles=%d", len(handles))
	}
	records, warnings := ExtractRows(handles[0], profile)
	return handles[0], records, warnings
}

func TestExtractRowsRowspan(t *testing.T) {
	html := page(`<table class="wikitable" id="softwarelist"><tbody>
<tr><th>Title</th><th>Developer</th><th>Publisher</th></tr>
<tr><td>Adventure Island</td><td>Hudson Soft</td><td>Hudson Soft</td></tr>
<tr><td>Mega Man</td><td>Capcom</td><td rowspan="3">Capcom USA</td></tr>
<tr><td>Mega Man 2</td><td>Capcom</td></tr>
<tr><td>Mega Man 3</td><td>Capcom</td></tr>
<tr><td>Metroid</td><td>Nintendo R&amp;D1</td><td>Nintendo</td></tr>
</tbody></table>`)

	_, records, warnings := locateLicensed(t, html)
	if len(warnings) != 0 {
		t.Fatalf("warnings=%v", warnings)
	}
	if len(records) != 5 {
		t.Fatalf("len=%d", len(records))
	}
	for i := 1; i <= 3; i++ {
		if got := records[i][internal.FieldPublisher]; got != "Capcom USA" {
			t.Fatalf("row %d publisher=%q", i, got)
		}
	}
	if got := records[4][internal.FieldDeveloper]; got != "Nintendo R&D1" {
		t.Fatalf("developer=%q", got)
	}
	if got := records[4][internal.FieldPublisher]; got != "Nintendo" {
		t.Fatalf("publisher=%q", got)
	}
}

func TestExtractRowsColspanAndGroupedHeader(t *testing.T) {
	html := page(`<table class="wikitable" id="softwarelist"><tbody>
<tr><th rowspan="2">Title</th><th rowspan="2">Publisher</th><th colspan="2">Release date</th></tr>
<tr><th>NA</th><th>PAL</th></tr>
<tr><th scope="row"><i>Tetris</i></th><td>Nintendo</td><td colspan="2">1989</td></tr>
<tr><th scope="row"><i>Dr. Mario</i></th><td>Nintendo</td><td>October 1990</td><td>Unreleased</td></tr>
</tbody></table>`)

	h, records, _ := locateLicensed(t, html)
	if h.headerRows != 2 {
		t.Fatalf("headerRows=%d", h.headerRows)
	}
	if len(records) != 2 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0][internal.FieldNARelease] != "1989" || records[0][internal.FieldPALRelease] != "1989" {
		t.Fatalf("colspan not propagated: %v", records[0])
	}
	if _, ok := records[1].Get(internal.FieldPALRelease); ok {
		t.Fatalf("unreleased placeholder kept: %v", records[1])
	}
}

func TestExtractRowsSkipsNonGameRows(t *testing.T) {
	html := page(`<table class="wikitable" id="softwarelist"><tbody>
<tr><th>Title</th><th>Developer</th><th>Publisher</th></tr>
<tr><td colspan="3">A</td></tr>
<tr><td>Abadox</td><td>Natsume</td><td>Milton Bradley</td></tr>
<tr><td><sup class="reference"><a href="#cite_note-1">[1]</a></sup></td><td></td><td></td></tr>
<tr><td>[2]</td><td>&nbsp;</td><td></td></tr>
<tr><td>Athena</td><td>N/A</td><td>&mdash;</td></tr>
</tbody></table>`)

	_, records, warnings := locateLicensed(t, html)
	if len(records) != 2 {
		t.Fatalf("len=%d records=%v", len(records), records)
	}
	if records[0].Title() != "Abadox" || records[1].Title() != "Athena" {
		t.Fatalf("titles=%q,%q", records[0].Title(), records[1].Title())
	}
	if len(records[1]) != 1 {
		t.Fatalf("placeholders kept: %v", records[1])
	}
	if len(warnings) != 3 {
		t.Fatalf("warnings=%v", warnings)
	}
	for _, w := range warnings {
		if w.Kind != internal.WarningRowSkipped {
			t.Fatalf("kind=%s", w.Kind)
		}
	}
	if warnings[0].Row != 2 {
		t.Fatalf("section header row=%d", warnings[0].Row)
	}
}

func TestCellTextDropsHiddenMarkup(t *testing.T) {
	html := page(`<table class="wikitable" id="softwarelist"><tbody>
<tr><th>Title<sup class="reference">[a]</sup></th><th>Publisher</th></tr>
<tr><td><span class="sortkey" style="display:none">Legend of Zelda, The</span><i>The Legend of Zelda</i></td><td>Nintendo<br>Nintendo of America</td></tr>
</tbody></table>`)

	_, records, _ := locateLicensed(t, html)
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	if got := records[0].Title(); got != "The Legend of Zelda" {
		t.Fatalf("title=%q", got)
	}
	if got := records[0][internal.FieldPublisher]; got != "Nintendo Nintendo of America" {
		t.Fatalf("publisher=%q", got)
	}
}
