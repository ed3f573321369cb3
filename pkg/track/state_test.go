package track

import "testing"

func TestStateTableAttachStore(t *testing.T) {
	st := StateTable{
		{Chr: "1", Pos: 100}: {Folded: true, XOffset: 3},
		{Chr: "1", Pos: 999}: {Folded: true},
	}
	groups := []*PositionGroup{
		{Chr: "1", Pos: 100},
		{Chr: "1", Pos: 200},
	}
	st.Attach(groups)

	if got := groups[0].State; !got.Folded || got.XOffset != 3 {
		t.Errorf("groups[0].State = %+v, want folded with offset 3", got)
	}
	if groups[1].State.Folded {
		t.Error("groups[1] should keep zero state")
	}

	groups[1].State.XOffset = 8
	st.Store(groups)
	if len(st) != 3 {
		t.Fatalf("len(table) = %d, want 3", len(st))
	}
	if !st[Key{Chr: "1", Pos: 999}].Folded {
		t.Error("Store dropped state of an absent group")
	}
	if got := st[Key{Chr: "1", Pos: 200}].XOffset; got != 8 {
		t.Errorf("captured offset = %v, want 8", got)
	}
}

func TestStateTableClone(t *testing.T) {
	st := StateTable{{Chr: "1", Pos: 1}: {Folded: true}}
	c := st.Clone()
	c[Key{Chr: "1", Pos: 1}] = UIState{}
	if !st[Key{Chr: "1", Pos: 1}].Folded {
		t.Error("Clone shares storage with the original")
	}
}

func TestRejectionsMerge(t *testing.T) {
	var r Rejections
	r.Merge(&Rejections{Unmapped: 2, OutOfView: 1, AAMappingFailed: 4})
	r.Merge(nil)
	r.Merge(&Rejections{MissingChromosome: 1})

	if got, want := r.Total(), 4; got != want {
		t.Errorf("Total = %d, want %d", got, want)
	}
	if r.AAMappingFailed != 4 {
		t.Errorf("AAMappingFailed = %d, want 4", r.AAMappingFailed)
	}
	var nilRej *Rejections
	if nilRej.Total() != 0 {
		t.Error("nil Total should be 0")
	}
}
