package pipeline

import (
	"errors"
	"testing"

	"eolgames/internal"
)

func TestMapColumnsFirstWins(t *testing.T) {
	m := NewMapper(testProfile(t, "nes"))
	schema, warnings, err := m.MapColumns([]string{"Title", "Developer", "Developer"})
	if err != nil {
		t.Fatal(err)
	}
	if got := schema.IndexOf(internal.FieldDeveloper); got != 1 {
		t.Fatalf("developer column=%d", got)
	}
	if schema.Len() != 2 {
		t.Fatalf("len=%d", schema.Len())
	}
	if len(warnings) != 1 || warnings[0].Kind != internal.WarningColumnConflict {
		t.Fatalf("warnings=%v", warnings)
	}
}

func TestMapperMatch(t *testing.T) {
	m := NewMapper(testProfile(t, "nes"))
	cases := []struct {
		label string
		want  internal.Field
	}{
		{"Title", internal.FieldTitle},
		{"Developer(s)", internal.FieldDeveloper},
		{"Publisher(s)[a]", internal.FieldPublisher},
		{"NA release", internal.FieldNARelease},
		{"North America", internal.FieldNARelease},
		{"PAL", internal.FieldPALRelease},
		{"First released", internal.FieldFirstReleased},
		{"Year cancelled", internal.FieldYear},
		{"Regions", internal.FieldRegions},
		{"Publsher", internal.FieldPublisher},
		{"Genre(s)", ""},
		{"Ref.", ""},
		{"", ""},
	}

	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			got, ok := m.Match(tc.label)
			if tc.want == "" {
				if ok {
					t.Fatalf("Match(%q)=%s, want no field", tc.label, got)
				}
				return
			}
			if !ok || got != tc.want {
				t.Fatalf("Match(%q)=%q want %q", tc.label, got, tc.want)
			}
		})
	}
}

func TestMapColumnsDropsUnknownColumns(t *testing.T) {
	m := NewMapper(testProfile(t, "nes"))
	schema, _, err := m.MapColumns([]string{"Genre", "Title", "Ref.", "Publisher"})
	if err != nil {
		t.Fatal(err)
	}
	cols := schema.Columns()
	if len(cols) != 2 || cols[0].Index != 1 || cols[1].Index != 3 {
		t.Fatalf("columns=%v", cols)
	}
}

func TestMapColumnsRequiresTitle(t *testing.T) {
	m := NewMapper(testProfile(t, "nes"))
	_, _, err := m.MapColumns([]string{"Developer", "Publisher"})
	if !errors.Is(err, ErrNoTitleColumn) {
		t.Fatalf("err=%v", err)
	}
}
