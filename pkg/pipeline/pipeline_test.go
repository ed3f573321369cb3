package pipeline

import (
	"testing"

	"github.com/matzehuels/varlayout/pkg/coord"
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
)

func TestParseChange(t *testing.T) {
	tests := []struct {
		in      string
		want    Change
		wantErr bool
	}{
		{"pan", ChangePan, false},
		{"Zoom", ChangeZoom, false},
		{"requery", ChangeRequery, false},
		{"context", ChangeContext, false},
		{"scroll", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseChange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := Change(9).String(); got != "change(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestChangeText(t *testing.T) {
	var c Change
	if err := c.UnmarshalText([]byte("zoom")); err != nil || c != ChangeZoom {
		t.Errorf("UnmarshalText = %v, %v", c, err)
	}
	if b, _ := ChangePan.MarshalText(); string(b) != "pan" {
		t.Errorf("MarshalText = %s", b)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.TieBreak == nil || o.Converter == nil || o.Logger == nil {
		t.Error("defaults not applied")
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}

	bad := Options{DefaultMode: viewmode.Mode{Kind: viewmode.Numeric}}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("err = %v, want INVALID_MODE", err)
	}
}

func TestViewSetDefaults(t *testing.T) {
	v := View{Mapper: coord.Single("1", 1, 200, 800)}
	if err := v.setDefaults(); err != nil {
		t.Fatal(err)
	}
	if v.Width != DefaultWidth || v.PixelsPerBase != 4 {
		t.Errorf("view = %+v", v)
	}

	if err := (&View{}).setDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing mapper err = %v", err)
	}
	fn := View{Mapper: coord.MapperFunc(func(string, int) []coord.Hit { return nil })}
	if err := fn.setDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing resolution err = %v", err)
	}
}

func TestViewSpec(t *testing.T) {
	spec := ViewSpec{Width: 200, Regions: coord.Single("17", 1, 100, 200)}

	v := spec.View()
	if v.Mapper == nil {
		t.Fatal("View() has no mapper")
	}
	if err := v.setDefaults(); err != nil {
		t.Fatalf("setDefaults: %v", err)
	}
	if v.PixelsPerBase != 2 {
		t.Errorf("PixelsPerBase = %v, want 2", v.PixelsPerBase)
	}

	panned := spec.Pan(10)
	if got := panned.Regions[0].X0; got != 10 {
		t.Errorf("Pan X0 = %v, want 10", got)
	}
	if spec.Regions[0].X0 != 0 {
		t.Error("Pan modified the receiver's regions")
	}

	spec.PixelsPerBase = 3
	zoomed := spec.Zoom(2)
	if got := zoomed.Regions.PixelsPerBase(); got != 4 {
		t.Errorf("Zoom region ppb = %v, want 4", got)
	}
	if zoomed.PixelsPerBase != 6 {
		t.Errorf("Zoom explicit ppb = %v, want 6", zoomed.PixelsPerBase)
	}

	if (ViewSpec{}).View().Mapper != nil {
		t.Error("empty spec should leave Mapper nil")
	}
}
