package coord

// Region is one contiguous genomic span drawn on screen starting at X0.
// Start and Stop are inclusive.
type Region struct {
	Chr           string  `json:"chr" toml:"chr"`
	Start         int     `json:"start" toml:"start"`
	Stop          int     `json:"stop" toml:"stop"`
	X0            float64 `json:"x0" toml:"x0"`
	PixelsPerBase float64 `json:"ppb" toml:"ppb"`
	Reverse       bool    `json:"reverse,omitempty" toml:"reverse"`
}

// Contains reports whether chr:pos falls inside r.
func (r Region) Contains(chr string, pos int) bool {
	return chr == r.Chr && pos >= r.Start && pos <= r.Stop
}

// X returns the view coordinate of pos, assumed inside r. A base occupies
// PixelsPerBase pixels and x points to its center.
func (r Region) X(pos int) float64 {
	offset := float64(pos-r.Start) + 0.5
	if r.Reverse {
		offset = float64(r.Stop-pos) + 0.5
	}
	return r.X0 + offset*r.PixelsPerBase
}

// Width returns the on-screen width of r.
func (r Region) Width() float64 {
	return float64(r.Stop-r.Start+1) * r.PixelsPerBase
}

// Regions maps positions through an ordered list of regions. A position
// inside several regions yields one hit per region, in list order.
type Regions []Region

// Map implements Mapper.
func (rs Regions) Map(chr string, pos int) []Hit {
	var hits []Hit
	for _, r := range rs {
		if r.Contains(chr, pos) {
			hits = append(hits, Hit{X: r.X(pos)})
		}
	}
	return hits
}

// Shift returns a copy of rs panned by dx pixels.
func (rs Regions) Shift(dx float64) Regions {
	out := make(Regions, len(rs))
	for i, r := range rs {
		r.X0 += dx
		out[i] = r
	}
	return out
}

// Zoom returns a copy of rs with every region's resolution multiplied by
// factor. Regions are laid out again left to right from the first X0.
func (rs Regions) Zoom(factor float64) Regions {
	out := make(Regions, len(rs))
	var x float64
	for i, r := range rs {
		if i == 0 {
			x = r.X0
		}
		r.PixelsPerBase *= factor
		r.X0 = x
		x += r.Width()
		out[i] = r
	}
	return out
}

// PixelsPerBase returns the resolution of the first region, or 0 when empty.
func (rs Regions) PixelsPerBase() float64 {
	if len(rs) == 0 {
		return 0
	}
	return rs[0].PixelsPerBase
}

// Single returns a one-region mapper spanning [start, stop] over width pixels.
func Single(chr string, start, stop int, width float64) Regions {
	span := stop - start + 1
	if span <= 0 {
		return nil
	}
	return Regions{{Chr: chr, Start: start, Stop: stop, PixelsPerBase: width / float64(span)}}
}
