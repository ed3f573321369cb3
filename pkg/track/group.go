package track

import (
	"fmt"
	"sort"

	"github.com/matzehuels/varlayout/pkg/variant"
)

// Key identifies a position group across generations.
type Key struct {
	Chr string `json:"chr"`
	Pos int    `json:"pos"`
}

// String returns "chr:pos".
func (k Key) String() string { return fmt.Sprintf("%s:%d", k.Chr, k.Pos) }

// PositionGroup is a cluster of records sharing one rendering position.
type PositionGroup struct {
	Chr     string            `json:"chr"`
	Pos     int               `json:"pos"`
	Records []*variant.Record `json:"-"`
	X       float64           `json:"x"`
	IsBin   bool              `json:"isBin,omitempty"`

	// AAPos is the amino-acid index shared by the group, set when the group
	// was formed by amino-acid merging.
	AAPos *int `json:"aapos,omitempty"`

	Occurrence  int          `json:"occurrence"`
	Types       []*TypeGroup `json:"types"`
	State       UIState      `json:"state"`
	Highlighted bool         `json:"highlighted,omitempty"`
}

// Key returns the group's side-table key.
func (g *PositionGroup) Key() Key { return Key{Chr: g.Chr, Pos: g.Pos} }

// SumOccurrence recomputes Occurrence from the type groups.
func (g *PositionGroup) SumOccurrence() int {
	total := 0
	for _, t := range g.Types {
		total += t.Occurrence
	}
	g.Occurrence = total
	return total
}

// Contains reports whether any member record has the given ssm id.
func (g *PositionGroup) Contains(ssmIDs map[string]struct{}) bool {
	for _, r := range g.Records {
		if _, ok := ssmIDs[r.SSMID]; ok {
			return true
		}
	}
	return false
}

// TypeGroup is a sub-cluster of a position group rendered as one glyph.
type TypeGroup struct {
	DataType         variant.DataType  `json:"dt"`
	Class            string            `json:"class,omitempty"`
	Name             string            `json:"mname,omitempty"`
	UsesNTerminalEnd bool              `json:"useNterm,omitempty"`
	Records          []*variant.Record `json:"-"`
	Occurrence       int               `json:"occurrence"`
	Rim1Count        int               `json:"rim1count,omitempty"`
	Rim2Count        int               `json:"rim2count,omitempty"`
}

// Add appends r and updates the aggregates. A missing occurrence counts as 0.
func (t *TypeGroup) Add(r *variant.Record) {
	t.Records = append(t.Records, r)
	t.Occurrence += r.OccurrenceOrZero()
	if r.IsRim1 {
		t.Rim1Count++
	}
	if r.IsRim2 {
		t.Rim2Count++
	}
}

// SortByX stable-sorts groups ascending by X.
func SortByX(groups []*PositionGroup) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].X < groups[j].X })
}

// SortByOccurrence stable-sorts type groups descending by Occurrence.
func SortByOccurrence(types []*TypeGroup) {
	sort.SliceStable(types, func(i, j int) bool { return types[i].Occurrence > types[j].Occurrence })
}

// RecordCount returns the number of records across groups.
func RecordCount(groups []*PositionGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Records)
	}
	return n
}
