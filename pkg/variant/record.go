package variant

import (
	"math"

	json "github.com/goccy/go-json"
)

// Record is one variant as delivered by a payload source.
type Record struct {
	SSMID    string   `json:"ssm_id" bson:"ssm_id"`
	Chr      string   `json:"chr" bson:"chr"`
	Pos      float64  `json:"pos" bson:"pos"`
	DataType DataType `json:"dt" bson:"dt"`
	Class    string   `json:"class,omitempty" bson:"class,omitempty"`
	Name     string   `json:"mname,omitempty" bson:"mname,omitempty"`

	// Occurrence is the optional number of samples carrying the variant.
	Occurrence *int `json:"occurrence,omitempty" bson:"occurrence,omitempty"`

	// Pairs is the breakend pairing of structural variants and fusions.
	Pairs []BreakendPair `json:"pairlst,omitempty" bson:"pairlst,omitempty"`

	IsRim1 bool `json:"rim1,omitempty" bson:"rim1,omitempty"`
	IsRim2 bool `json:"rim2,omitempty" bson:"rim2,omitempty"`

	// Attributes holds dataset-specific numeric values that numeric view
	// modes may plot against.
	Attributes map[string]float64 `json:"attributes,omitempty" bson:"attributes,omitempty"`

	// Fields below are computed on every refresh.

	ViewX    float64 `json:"x" bson:"-"`
	HitIndex int     `json:"-" bson:"-"`
	RNAPos   *int    `json:"rnapos,omitempty" bson:"-"`
	AAPos    *int    `json:"aapos,omitempty" bson:"-"`

	// UsesNTerminalEnd is true when the breakend inside the gene model is the
	// 5' end of the pair, i.e. the gene contributes the N-terminal part.
	UsesNTerminalEnd bool `json:"useNterm,omitempty" bson:"-"`
}

// maxPosition bounds positions to the integers a float64 represents
// exactly.
const maxPosition = 1 << 53

// Position returns Pos as an int and whether it is a finite integer within
// ±2^53.
func (r *Record) Position() (int, bool) {
	if math.IsNaN(r.Pos) || math.Abs(r.Pos) > maxPosition || r.Pos != math.Trunc(r.Pos) {
		return 0, false
	}
	return int(r.Pos), true
}

// rawRecord has Record's fields without its UnmarshalJSON.
type rawRecord Record

// UnmarshalJSON decodes a record, marking an absent or null position as NaN
// so that it is rejected instead of silently landing on position 0.
func (r *Record) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*rawRecord)(r)); err != nil {
		return err
	}
	var pos struct {
		Pos *float64 `json:"pos"`
	}
	if err := json.Unmarshal(data, &pos); err != nil {
		return err
	}
	if pos.Pos == nil {
		r.Pos = math.NaN()
	}
	return nil
}

// HasOccurrence reports whether the record carries an occurrence count.
func (r *Record) HasOccurrence() bool {
	return r.Occurrence != nil && *r.Occurrence >= 0
}

// OccurrenceOrZero returns the occurrence count, treating a missing value as 0.
func (r *Record) OccurrenceOrZero() int {
	if !r.HasOccurrence() {
		return 0
	}
	return *r.Occurrence
}

// Clone returns a copy of r whose computed fields are reset. Slices and maps
// are shared with r; the engine never mutates them.
func (r Record) Clone() *Record {
	r.ViewX = 0
	r.HitIndex = 0
	r.RNAPos = nil
	r.AAPos = nil
	r.UsesNTerminalEnd = false
	return &r
}

// Count returns a pointer to n, for building records with an occurrence.
func Count(n int) *int { return &n }

// Breakend is one end of a structural variant or fusion.
type Breakend struct {
	Chr     string `json:"chr" bson:"chr"`
	Pos     int    `json:"pos" bson:"pos"`
	Gene    string `json:"gene,omitempty" bson:"gene,omitempty"`
	Isoform string `json:"isoform,omitempty" bson:"isoform,omitempty"`
	Strand  string `json:"strand,omitempty" bson:"strand,omitempty"`
}

// BreakendPair joins the 5' end A to the 3' end B.
type BreakendPair struct {
	A Breakend `json:"a" bson:"a"`
	B Breakend `json:"b" bson:"b"`
}

// Ends returns both ends, 5' first.
func (p BreakendPair) Ends() [2]Breakend { return [2]Breakend{p.A, p.B} }
