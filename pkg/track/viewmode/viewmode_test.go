package viewmode

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/variant"
)

func withOcc(n int) *variant.Record { return &variant.Record{Occurrence: variant.Count(n)} }

func modes(s *Selector) []string {
	var out []string
	for _, m := range s.Possible() {
		out = append(out, m.String())
	}
	return out
}

func TestSelectorStartsCategorical(t *testing.T) {
	s := New(CategoricalMode)
	if got := modes(s); len(got) != 1 || got[0] != "categorical" {
		t.Errorf("Possible = %v, want [categorical]", got)
	}
	if !s.Active().Same(CategoricalMode) {
		t.Errorf("Active = %s", s.Active())
	}
}

func TestSelectorObserveOccurrence(t *testing.T) {
	s := New(CategoricalMode)
	s.Observe([]*variant.Record{{}, {}}, nil)
	if len(s.Possible()) != 1 {
		t.Errorf("records without occurrence added a mode: %v", modes(s))
	}

	s.Observe([]*variant.Record{{}, withOcc(0)}, nil)
	got := s.Possible()
	if len(got) != 2 || !got[1].Same(OccurrenceMode) || got[1].Label != "Occurrence" {
		t.Errorf("Possible = %v, want occurrence added", modes(s))
	}
}

func TestSelectorNeverPrunes(t *testing.T) {
	s := New(CategoricalMode)
	s.Observe([]*variant.Record{withOcc(3)}, []Mode{{Kind: Numeric, ByAttribute: "vaf"}})
	s.Observe(nil, nil)
	s.Observe([]*variant.Record{{}}, []Mode{{Kind: Numeric, ByAttribute: "vaf", Label: "VAF"}})

	got := modes(s)
	want := []string{"categorical", "numeric:vaf", "numeric:occurrence"}
	if len(got) != len(want) {
		t.Fatalf("Possible = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Possible[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if l := s.Possible()[1].Label; l != "vaf" {
		t.Errorf("label = %q, want first-seen default %q", l, "vaf")
	}
}

func TestSelectorPreferredMode(t *testing.T) {
	s := New(OccurrenceMode)
	s.Observe([]*variant.Record{{}}, nil)
	if !s.Active().Same(CategoricalMode) {
		t.Errorf("Active = %s before occurrence is possible", s.Active())
	}
	s.Observe([]*variant.Record{withOcc(1)}, nil)
	if !s.Active().Same(OccurrenceMode) {
		t.Errorf("Active = %s, want occurrence", s.Active())
	}
}

func TestSelectorSetActive(t *testing.T) {
	s := New(CategoricalMode)
	err := s.SetActive(OccurrenceMode)
	if !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("SetActive(unavailable) err = %v", err)
	}
	s.Observe([]*variant.Record{withOcc(1)}, nil)
	if err := s.SetActive(Mode{Kind: Numeric, ByAttribute: "occurrence"}); err != nil {
		t.Fatal(err)
	}
	if s.Active().Label != "Occurrence" {
		t.Errorf("Active label = %q, want stored mode", s.Active().Label)
	}
	if err := s.SetActive(CategoricalMode); err != nil {
		t.Fatal(err)
	}
	s.Observe([]*variant.Record{withOcc(1)}, nil)
	if !s.Active().Same(CategoricalMode) {
		t.Error("Observe overrode an explicit mode choice")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", CategoricalMode, false},
		{"categorical", CategoricalMode, false},
		{"numeric:vaf", Mode{Kind: Numeric, ByAttribute: "vaf"}, false},
		{"numeric:", Mode{}, true},
		{"bars", Mode{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && !got.Same(tt.want) {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestKindText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("numeric")); err != nil || k != Numeric {
		t.Errorf("UnmarshalText = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("pie")); err == nil {
		t.Error("UnmarshalText(pie) should fail")
	}
	if b, _ := Categorical.MarshalText(); string(b) != "categorical" {
		t.Errorf("MarshalText = %s", b)
	}
}

func TestSelectorAccretive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(CategoricalMode)
		attrs := []string{"a", "b", "c", "occurrence"}
		prev := 1
		for i := rapid.IntRange(1, 8).Draw(t, "rounds"); i > 0; i-- {
			var declared []Mode
			for _, a := range rapid.SliceOfN(rapid.SampledFrom(attrs), 0, 3).Draw(t, "declared") {
				declared = append(declared, Mode{Kind: Numeric, ByAttribute: a})
			}
			var records []*variant.Record
			if rapid.Bool().Draw(t, "occ") {
				records = append(records, withOcc(1))
			}
			s.Observe(records, declared)

			n := len(s.Possible())
			if n < prev {
				t.Fatalf("possible modes shrank from %d to %d", prev, n)
			}
			prev = n
			if !s.Possible()[0].Same(CategoricalMode) {
				t.Fatal("categorical mode missing")
			}
		}
	})
}
