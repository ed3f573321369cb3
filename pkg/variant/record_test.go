package variant

import (
	"math"
	"testing"

	json "github.com/goccy/go-json"
)

func TestRecordPosition(t *testing.T) {
	tests := []struct {
		pos    float64
		want   int
		wantOK bool
	}{
		{100, 100, true},
		{0, 0, true},
		{100.5, 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
		{-7, -7, true},
		{1e300, 0, false},
		{-1e300, 0, false},
		{1<<53 + 2, 0, false},
	}

	for _, tt := range tests {
		r := Record{Pos: tt.pos}
		got, ok := r.Position()
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Position(%v) = (%d, %v), want (%d, %v)", tt.pos, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRecordUnmarshalMissingPosition(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"ssm_id":"a","chr":"17","dt":"snvindel"}`), &r); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if _, ok := r.Position(); ok {
		t.Error("missing pos should not be a valid position")
	}
	if r.SSMID != "a" || r.Chr != "17" || r.DataType != PointMutation {
		t.Errorf("other fields not decoded: %+v", r)
	}
}

func TestRecordUnmarshalPoint(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		want   int
		wantOK bool
	}{
		{"position", `{"ssm_id":"a","chr":"1","pos":100,"dt":"snvindel"}`, 100, true},
		{"null position", `{"ssm_id":"a","chr":"1","pos":null,"dt":"snvindel"}`, 0, false},
		{"zero position", `{"ssm_id":"a","chr":"1","pos":0,"dt":"snvindel"}`, 0, true},
		{"huge position", `{"ssm_id":"a","chr":"1","pos":1e300,"dt":"snvindel"}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			if err := json.Unmarshal([]byte(tt.data), &r); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if r.SSMID != "a" || r.Chr != "1" || r.DataType != PointMutation {
				t.Errorf("fields = %+v", r)
			}
			got, ok := r.Position()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Position() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRecordUnmarshalList(t *testing.T) {
	var records []*Record
	data := `[{"ssm_id":"a","chr":"1","pos":10,"dt":"snvindel"},{"ssm_id":"b","chr":"2","dt":"snvindel"}]`
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if pos, ok := records[0].Position(); !ok || pos != 10 {
		t.Errorf("records[0].Position() = %d, %v", pos, ok)
	}
	if _, ok := records[1].Position(); ok || records[1].Chr != "2" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestRecordUnmarshal(t *testing.T) {
	data := `{
		"ssm_id": "sv1",
		"chr": "12",
		"pos": 25245350,
		"dt": 5,
		"class": "SV",
		"occurrence": 3,
		"rim1": true,
		"pairlst": [{"a": {"chr": "12", "pos": 25245350, "gene": "KRAS"}, "b": {"chr": "5", "pos": 1000, "gene": "TERT"}}]
	}`
	var r Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if pos, ok := r.Position(); !ok || pos != 25245350 {
		t.Errorf("Position() = %d, %v", pos, ok)
	}
	if r.DataType != StructuralVariant {
		t.Errorf("DataType = %v, want sv", r.DataType)
	}
	if r.OccurrenceOrZero() != 3 {
		t.Errorf("Occurrence = %d, want 3", r.OccurrenceOrZero())
	}
	if !r.IsRim1 || r.IsRim2 {
		t.Errorf("rim flags = %v/%v", r.IsRim1, r.IsRim2)
	}
	if len(r.Pairs) != 1 || r.Pairs[0].B.Gene != "TERT" {
		t.Errorf("Pairs = %+v", r.Pairs)
	}
}

func TestRecordOccurrence(t *testing.T) {
	r := Record{}
	if r.HasOccurrence() || r.OccurrenceOrZero() != 0 {
		t.Error("missing occurrence should count as 0")
	}
	r.Occurrence = Count(4)
	if !r.HasOccurrence() || r.OccurrenceOrZero() != 4 {
		t.Errorf("OccurrenceOrZero() = %d, want 4", r.OccurrenceOrZero())
	}
}

func TestRecordClone(t *testing.T) {
	aa := 12
	r := Record{SSMID: "x", ViewX: 3.5, HitIndex: 2, AAPos: &aa, UsesNTerminalEnd: true}
	c := r.Clone()
	if c.SSMID != "x" {
		t.Errorf("SSMID = %q", c.SSMID)
	}
	if c.ViewX != 0 || c.HitIndex != 0 || c.AAPos != nil || c.UsesNTerminalEnd {
		t.Errorf("computed fields not reset: %+v", c)
	}
	if r.ViewX != 3.5 {
		t.Error("Clone must not modify the receiver")
	}
}

func TestGeneModel(t *testing.T) {
	gm := GeneModel{Chr: "17", Start: 100, Stop: 200, CodingStart: 120, CodingStop: 180, Strand: "-", Isoform: "NM_000546"}

	if !gm.Contains("17", 100) || !gm.Contains("17", 200) {
		t.Error("bounds are inclusive")
	}
	if gm.Contains("17", 201) || gm.Contains("1", 150) {
		t.Error("Contains should reject outside positions and other chromosomes")
	}
	if !gm.InCoding(120) || gm.InCoding(119) {
		t.Error("InCoding bounds wrong")
	}
	if !gm.IsReverse() {
		t.Error("strand - should be reverse")
	}
	if !gm.MatchesIsoform("") || !gm.MatchesIsoform("NM_000546") || gm.MatchesIsoform("NM_1") {
		t.Error("MatchesIsoform wrong")
	}
}
