package track

import (
	"testing"

	"github.com/matzehuels/varlayout/pkg/variant"
)

func rec(id string, occ *int) *variant.Record {
	return &variant.Record{SSMID: id, Chr: "1", Pos: 100, DataType: variant.PointMutation, Occurrence: occ}
}

func TestTypeGroupAdd(t *testing.T) {
	tg := &TypeGroup{DataType: variant.PointMutation}
	tg.Add(rec("a", variant.Count(3)))
	tg.Add(rec("b", nil))
	r := rec("c", variant.Count(2))
	r.IsRim1, r.IsRim2 = true, true
	tg.Add(r)

	if got, want := tg.Occurrence, 5; got != want {
		t.Errorf("Occurrence = %d, want %d", got, want)
	}
	if tg.Rim1Count != 1 || tg.Rim2Count != 1 {
		t.Errorf("rim counts = (%d, %d), want (1, 1)", tg.Rim1Count, tg.Rim2Count)
	}
	if len(tg.Records) != 3 {
		t.Errorf("len(Records) = %d, want 3", len(tg.Records))
	}
}

func TestSumOccurrence(t *testing.T) {
	g := &PositionGroup{Types: []*TypeGroup{{Occurrence: 2}, {Occurrence: 7}}}
	if got := g.SumOccurrence(); got != 9 || g.Occurrence != 9 {
		t.Errorf("SumOccurrence = %d (field %d), want 9", got, g.Occurrence)
	}
}

func TestSortByOccurrenceStable(t *testing.T) {
	types := []*TypeGroup{
		{Name: "a", Occurrence: 1},
		{Name: "b", Occurrence: 5},
		{Name: "c", Occurrence: 1},
		{Name: "d", Occurrence: 5},
	}
	SortByOccurrence(types)
	var got string
	for _, tg := range types {
		got += tg.Name
	}
	if want := "bdac"; got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestSortByXStable(t *testing.T) {
	groups := []*PositionGroup{
		{Pos: 1, X: 5},
		{Pos: 2, X: 1},
		{Pos: 3, X: 5},
	}
	SortByX(groups)
	for i, want := range []int{2, 1, 3} {
		if groups[i].Pos != want {
			t.Errorf("groups[%d].Pos = %d, want %d", i, groups[i].Pos, want)
		}
	}
}

func TestContains(t *testing.T) {
	g := &PositionGroup{Records: []*variant.Record{rec("a", nil), rec("b", nil)}}
	if !g.Contains(map[string]struct{}{"b": {}}) {
		t.Error("Contains(b) = false, want true")
	}
	if g.Contains(map[string]struct{}{"z": {}}) {
		t.Error("Contains(z) = true, want false")
	}
	if got := RecordCount([]*PositionGroup{g, g}); got != 4 {
		t.Errorf("RecordCount = %d, want 4", got)
	}
}

func TestKeyString(t *testing.T) {
	if got := (Key{Chr: "X", Pos: 42}).String(); got != "X:42" {
		t.Errorf("String() = %q", got)
	}
}
