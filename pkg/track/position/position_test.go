package position

import (
	"math"
	"testing"

	"github.com/matzehuels/varlayout/pkg/coord"
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/track"
	"github.com/matzehuels/varlayout/pkg/variant"
)

func at(id string, pos int, x float64) *variant.Record {
	return &variant.Record{SSMID: id, Chr: "1", Pos: float64(pos), DataType: variant.PointMutation, ViewX: x}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestGroupNucleotideResolution(t *testing.T) {
	records := []*variant.Record{
		at("a", 200, 40),
		at("b", 100, 20),
		at("c", 200, 40),
		at("d", 101, 24),
	}
	groups, _, err := Group(records, Options{PixelsPerBase: MinBpWidth})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	wantPos := []int{100, 101, 200}
	for i, g := range groups {
		if g.Pos != wantPos[i] {
			t.Errorf("groups[%d].Pos = %d, want %d", i, g.Pos, wantPos[i])
		}
		if g.IsBin {
			t.Errorf("groups[%d] is a bin at nucleotide resolution", i)
		}
	}
	if n := len(groups[2].Records); n != 2 {
		t.Errorf("pos 200 has %d records, want 2", n)
	}
}

func TestGroupBoundaryIsInclusive(t *testing.T) {
	records := []*variant.Record{at("a", 100, 10.1), at("b", 101, 10.2)}

	groups, _, _ := Group(records, Options{PixelsPerBase: 4})
	if len(groups) != 2 {
		t.Errorf("ppb=4 gave %d groups, want 2 exact-position groups", len(groups))
	}
	groups, _, _ = Group(records, Options{PixelsPerBase: 3.99})
	if len(groups) != 1 || !groups[0].IsBin {
		t.Errorf("ppb=3.99 gave %d groups, want 1 bin", len(groups))
	}
}

func TestGroupPixelBin(t *testing.T) {
	records := []*variant.Record{
		at("a", 100, 10.9),
		at("b", 102, 11.2),
		at("c", 105, 13.0),
	}
	groups, _, err := Group(records, Options{PixelsPerBase: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	g := groups[0]
	if !g.IsBin || len(g.Records) != 2 || !approx(g.X, 11.05) {
		t.Errorf("first bin = {isBin:%v n:%d x:%v}, want {true 2 11.05}", g.IsBin, len(g.Records), g.X)
	}
	if g.Key() != (track.Key{Chr: "1", Pos: 100}) {
		t.Errorf("bin key = %v, want first member's position", g.Key())
	}
	if groups[1].X != 13 || len(groups[1].Records) != 1 {
		t.Errorf("second bin = %+v", groups[1])
	}
}

func TestGroupNegativeBins(t *testing.T) {
	groups, _, _ := Group([]*variant.Record{at("a", 1, -0.5), at("b", 2, 0.5)}, Options{PixelsPerBase: 1})
	if len(groups) != 2 {
		t.Errorf("x=-0.5 and x=0.5 should land in different bins, got %d groups", len(groups))
	}
}

func codingGene() *variant.GeneModel {
	return &variant.GeneModel{Chr: "1", Start: 1, Stop: 1000, Strand: "+", IsCoding: true, CodingStart: 1, CodingStop: 900}
}

func TestGroupAminoAcid(t *testing.T) {
	aa := func(r *variant.Record, n int) *variant.Record { r.AAPos = &n; return r }
	records := []*variant.Record{
		aa(at("a", 10, 5.0), 4),
		aa(at("b", 11, 5.5), 4),
		at("c", 12, 6.0),       // converts to aa 4
		aa(at("d", 13, 6.5), 5),
		at("e", 2000, 40),      // outside gene model: falls through
		aa(at("f", 14, 20), 4), // same aa but too far away
	}
	groups, rej, err := Group(records, Options{PixelsPerBase: 0.5, GeneModel: codingGene()})
	if err != nil {
		t.Fatal(err)
	}
	if rej.AAMappingFailed != 1 {
		t.Errorf("AAMappingFailed = %d, want 1", rej.AAMappingFailed)
	}
	if len(groups) != 4 {
		for _, g := range groups {
			t.Logf("group %v x=%v n=%d bin=%v", g.Key(), g.X, len(g.Records), g.IsBin)
		}
		t.Fatalf("got %d groups, want 4", len(groups))
	}

	first := groups[0]
	if first.IsBin || len(first.Records) != 3 || first.AAPos == nil || *first.AAPos != 4 {
		t.Errorf("merged group = {bin:%v n:%d aa:%v}", first.IsBin, len(first.Records), first.AAPos)
	}
	if !approx(first.X, 5.5) {
		t.Errorf("merged X = %v, want 5.5", first.X)
	}
	if groups[1].Pos != 13 || groups[2].Pos != 14 {
		t.Errorf("unexpected order: %v, %v", groups[1].Key(), groups[2].Key())
	}
	if last := groups[3]; !last.IsBin || last.Pos != 2000 {
		t.Errorf("fallthrough group = %v bin=%v", last.Key(), last.IsBin)
	}
}

func TestGroupAminoAcidSkippedInGenomicDisplay(t *testing.T) {
	records := []*variant.Record{at("a", 10, 5.0), at("b", 11, 5.5)}
	groups, rej, _ := Group(records, Options{PixelsPerBase: 0.5, GeneModel: codingGene(), GenomicDisplay: true})
	if len(groups) != 1 || !groups[0].IsBin || rej.AAMappingFailed != 0 {
		t.Errorf("genomic display should bin by pixel")
	}
}

func TestGroupUsesConverter(t *testing.T) {
	calls := 0
	conv := converterFunc(func(pos int, _ variant.GeneModel) (coord.TranscriptPos, bool) {
		calls++
		return coord.TranscriptPos{}, false
	})
	_, rej, _ := Group([]*variant.Record{at("a", 10, 1)}, Options{PixelsPerBase: 1, GeneModel: codingGene(), Converter: conv})
	if calls != 1 || rej.AAMappingFailed != 1 {
		t.Errorf("calls=%d failed=%d", calls, rej.AAMappingFailed)
	}
}

type converterFunc func(int, variant.GeneModel) (coord.TranscriptPos, bool)

func (f converterFunc) GenomicToTranscript(pos int, gm variant.GeneModel) (coord.TranscriptPos, bool) {
	return f(pos, gm)
}

func TestGroupStateCarryOver(t *testing.T) {
	states := track.StateTable{
		{Chr: "1", Pos: 100}: {Folded: true, XOffset: 2},
	}
	records := []*variant.Record{at("a", 100, 10.9), at("b", 102, 11.2)}

	// state written under exact grouping is found after switching to bins
	groups, _, _ := Group(records, Options{PixelsPerBase: 1, States: states})
	if got := groups[0].State; !got.Folded || got.XOffset != 2 {
		t.Errorf("bin state = %+v, want carried over", got)
	}

	groups, _, _ = Group(records, Options{PixelsPerBase: 10, States: states})
	if !groups[0].State.Folded || groups[1].State.Folded {
		t.Errorf("exact-position states = %+v, %+v", groups[0].State, groups[1].State)
	}
}

func TestGroupInvalidResolution(t *testing.T) {
	for _, ppb := range []float64{0, -1, math.NaN()} {
		_, _, err := Group(nil, Options{PixelsPerBase: ppb})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ppb=%v: err = %v, want INVALID_INPUT", ppb, err)
		}
	}
}
