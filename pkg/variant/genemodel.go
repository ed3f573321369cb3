package variant

// Exon is a half-open genomic interval [Start, Stop).
type Exon struct {
	Start int `json:"start" bson:"start"`
	Stop  int `json:"stop" bson:"stop"`
}

// GeneModel frames a gene- or protein-relative view. A nil *GeneModel means
// the view is plain genomic.
type GeneModel struct {
	Chr         string `json:"chr" bson:"chr"`
	Start       int    `json:"start" bson:"start"`
	Stop        int    `json:"stop" bson:"stop"`
	Strand      string `json:"strand" bson:"strand"`
	Isoform     string `json:"isoform" bson:"isoform"`
	IsCoding    bool   `json:"isCoding" bson:"isCoding"`
	CodingStart int    `json:"codingStart,omitempty" bson:"codingStart,omitempty"`
	CodingStop  int    `json:"codingStop,omitempty" bson:"codingStop,omitempty"`
	Exons       []Exon `json:"exons,omitempty" bson:"exons,omitempty"`
}

// IsReverse reports whether the gene is on the minus strand.
func (g *GeneModel) IsReverse() bool {
	return g.Strand == "-"
}

// Contains reports whether chr:pos falls inside [Start, Stop].
func (g *GeneModel) Contains(chr string, pos int) bool {
	return chr == g.Chr && pos >= g.Start && pos <= g.Stop
}

// InCoding reports whether pos falls inside [CodingStart, CodingStop].
func (g *GeneModel) InCoding(pos int) bool {
	return pos >= g.CodingStart && pos <= g.CodingStop
}

// MatchesIsoform reports whether an isoform label is compatible with the
// gene model. An empty label on either side matches.
func (g *GeneModel) MatchesIsoform(isoform string) bool {
	return isoform == "" || g.Isoform == "" || isoform == g.Isoform
}
