// Package disc splits a position group into type groups ("discs"), one per
// rendered glyph.
//
// Point mutations split by (class, name). Breakend types split by
// (class, N-terminal orientation) and then by name. Segment types (copy
// number, tandem duplication, deletion and terminal losses) get one group per
// data type. Any other data type, loss of heterozygosity included, has no
// glyph and fails the refresh.
package disc

import (
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/track"
	"github.com/matzehuels/varlayout/pkg/variant"
)

type key struct {
	dt    variant.DataType
	class string
	nterm bool
	name  string
}

func keyOf(r *variant.Record) (key, error) {
	switch r.DataType.Kind() {
	case variant.KindPoint:
		return key{dt: r.DataType, class: r.Class, name: r.Name}, nil
	case variant.KindBreakend:
		return key{dt: r.DataType, class: r.Class, nterm: r.UsesNTerminalEnd, name: r.Name}, nil
	case variant.KindSegment:
		return key{dt: r.DataType}, nil
	default:
		return key{}, errors.Malformed("record %s: data type %s cannot be grouped", r.SSMID, r.DataType)
	}
}

// Group fills g.Types and g.Occurrence from g.Records.
func Group(g *track.PositionGroup) error {
	index := make(map[key]*track.TypeGroup)
	var types []*track.TypeGroup
	for _, r := range g.Records {
		k, err := keyOf(r)
		if err != nil {
			return err
		}
		tg, ok := index[k]
		if !ok {
			tg = &track.TypeGroup{DataType: k.dt, Class: k.class, Name: k.name, UsesNTerminalEnd: k.nterm}
			index[k] = tg
			types = append(types, tg)
		}
		tg.Add(r)
	}
	track.SortByOccurrence(types)
	g.Types = types
	g.SumOccurrence()
	return nil
}

// GroupAll runs Group over every group and stops at the first error.
func GroupAll(groups []*track.PositionGroup) error {
	for _, g := range groups {
		if err := Group(g); err != nil {
			return err
		}
	}
	return nil
}
