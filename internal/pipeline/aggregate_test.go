package pipeline

import (
	"reflect"
	"testing"

	"eolgames/internal"
)

func rec(title string) internal.GameRecord {
	return internal.GameRecord{internal.FieldTitle: title}
}

func TestAggregateCombinedOrder(t *testing.T) {
	licensed := []internal.GameRecord{rec("Contra"), rec("Gradius")}
	unreleased := []internal.GameRecord{rec("Contra")}
	special := []internal.GameRecord{rec("Konami Quiz")}

	agg := Aggregate(licensed, unreleased, special)
	if len(agg.Combined) != 4 {
		t.Fatalf("len=%d", len(agg.Combined))
	}
	wantCats := []string{"licensed", "licensed", "unreleased", "special"}
	for i, r := range agg.Combined {
		if r[internal.FieldCategory] != wantCats[i] {
			t.Fatalf("record %d category=%q want %q", i, r[internal.FieldCategory], wantCats[i])
		}
	}
	if _, ok := licensed[0].Get(internal.FieldCategory); ok {
		t.Fatal("input record was modified")
	}
	if len(agg.Duplicates) != 0 {
		t.Fatalf("cross-category repeat flagged: %v", agg.Duplicates)
	}
}

func TestAggregateEmptyInputs(t *testing.T) {
	agg := Aggregate(nil, nil, nil)
	if agg.Combined == nil || len(agg.Combined) != 0 {
		t.Fatalf("combined=%v", agg.Combined)
	}
	for _, c := range internal.Categories {
		if agg.PerCategory[c] == nil {
			t.Fatalf("%s is nil", c)
		}
	}
}

func TestFindDuplicates(t *testing.T) {
	records := []internal.GameRecord{
		rec("Tetris"),
		rec("Pokémon Puzzle League"),
		rec("Tetris"),
		rec("Pokemon Puzzle League"),
		rec("tetris"),
		rec("Tetris"),
	}

	got := FindDuplicates(internal.CategoryLicensed, records)
	want := []internal.DuplicateNotice{
		{Category: internal.CategoryLicensed, Title: "Tetris", Positions: []int{0, 2, 5}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}
