package track

import (
	"testing"

	"github.com/matzehuels/varlayout/pkg/variant"
)

func sampleGroups(x float64) []*PositionGroup {
	a, b := rec("a", nil), rec("b", nil)
	return []*PositionGroup{{
		Chr: "1", Pos: 100, X: x,
		Records: []*variant.Record{a, b},
		Types: []*TypeGroup{
			{DataType: variant.PointMutation, Class: "M", Records: []*variant.Record{a}},
			{DataType: variant.PointMutation, Class: "F", Records: []*variant.Record{b}},
		},
	}}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint(sampleGroups(1))
	b := Fingerprint(sampleGroups(50))
	if a != b {
		t.Error("fingerprint should ignore x")
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}

	swapped := sampleGroups(1)
	ts := swapped[0].Types
	ts[0], ts[1] = ts[1], ts[0]
	if Fingerprint(swapped) == a {
		t.Error("fingerprint should depend on type group order")
	}
	if Fingerprint(nil) == a {
		t.Error("empty track should differ")
	}
}
