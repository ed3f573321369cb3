package coord

import "math"

// Hit is one view-space location of a genomic position.
type Hit struct {
	X float64 `json:"x"`
}

// Mapper resolves a genomic position to view-space hits.
// Implementations must be deterministic and must not block.
type Mapper interface {
	Map(chr string, pos int) []Hit
}

// MapperFunc adapts a function to the Mapper interface.
type MapperFunc func(chr string, pos int) []Hit

// Map calls f(chr, pos).
func (f MapperFunc) Map(chr string, pos int) []Hit { return f(chr, pos) }

// TieBreak chooses one of several hits. Choose is only called with at least
// one hit and must return an index into hits.
type TieBreak interface {
	Choose(hits []Hit) int
}

// FirstHit always picks the first hit.
type FirstHit struct{}

// Choose returns 0.
func (FirstHit) Choose([]Hit) int { return 0 }

// NearestTo picks the hit closest to X. Ties keep the earlier hit.
type NearestTo struct {
	X float64
}

// Choose returns the index of the hit nearest to n.X.
func (n NearestTo) Choose(hits []Hit) int {
	best, bestDist := 0, math.Inf(1)
	for i, h := range hits {
		if d := math.Abs(h.X - n.X); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Resolve maps chr:pos and returns the chosen hit and its index.
// ok is false when the mapper returns no hits.
func Resolve(m Mapper, tb TieBreak, chr string, pos int) (hit Hit, index int, ok bool) {
	hits := m.Map(chr, pos)
	if len(hits) == 0 {
		return Hit{}, 0, false
	}
	if tb == nil || len(hits) == 1 {
		return hits[0], 0, true
	}
	index = tb.Choose(hits)
	if index < 0 || index >= len(hits) {
		index = 0
	}
	return hits[index], index, true
}

// ResolvePrevious maps chr:pos and reuses a previously chosen hit index when
// it is still valid, falling back to the first hit otherwise.
func ResolvePrevious(m Mapper, chr string, pos, previous int) (hit Hit, index int, ok bool) {
	hits := m.Map(chr, pos)
	if len(hits) == 0 {
		return Hit{}, 0, false
	}
	if previous >= 0 && previous < len(hits) {
		return hits[previous], previous, true
	}
	return hits[0], 0, true
}
