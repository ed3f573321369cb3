package coord

import (
	"sort"

	"github.com/matzehuels/varlayout/pkg/variant"
)

// TranscriptPos holds transcript-relative coordinates. Either field may be
// nil when the position has no such coordinate (intronic, non-coding).
type TranscriptPos struct {
	RNAPos *int `json:"rnapos,omitempty"`
	AAPos  *int `json:"aapos,omitempty"`
}

// TranscriptConverter converts a genomic position relative to a gene model.
// ok is false when the position cannot be placed on the transcript at all.
type TranscriptConverter interface {
	GenomicToTranscript(pos int, gm variant.GeneModel) (TranscriptPos, bool)
}

// ExonConverter walks the gene model's exons in transcription order.
// Coordinates are 1-based: the first transcribed base is RNA position 1 and
// the first coding codon is amino acid 1.
type ExonConverter struct{}

// GenomicToTranscript implements TranscriptConverter.
func (ExonConverter) GenomicToTranscript(pos int, gm variant.GeneModel) (TranscriptPos, bool) {
	exons := sortedExons(gm)
	if len(exons) == 0 {
		return TranscriptPos{}, false
	}

	rna, ok := transcriptOffset(exons, pos, gm.IsReverse())
	if !ok {
		return TranscriptPos{}, false
	}
	out := TranscriptPos{RNAPos: intPtr(rna + 1)}

	if !gm.IsCoding || !gm.InCoding(pos) {
		return out, true
	}
	// The coding start is the first coding base in transcription order.
	cdsFirst := gm.CodingStart
	if gm.IsReverse() {
		cdsFirst = gm.CodingStop
	}
	cds, ok := transcriptOffset(exons, cdsFirst, gm.IsReverse())
	if !ok || rna < cds {
		return out, true
	}
	out.AAPos = intPtr((rna-cds)/3 + 1)
	return out, true
}

// transcriptOffset returns the 0-based offset of pos along the spliced
// transcript, adapted from exon-offset coordinate mappers.
func transcriptOffset(exons []variant.Exon, pos int, reverse bool) (int, bool) {
	offset := 0
	if !reverse {
		for _, e := range exons {
			if pos >= e.Start && pos < e.Stop {
				return offset + (pos - e.Start), true
			}
			offset += e.Stop - e.Start
		}
		return 0, false
	}
	for i := len(exons) - 1; i >= 0; i-- {
		e := exons[i]
		if pos >= e.Start && pos < e.Stop {
			return offset + (e.Stop - 1 - pos), true
		}
		offset += e.Stop - e.Start
	}
	return 0, false
}

// sortedExons returns the exons ascending by start. A gene model without
// exons is treated as a single exon spanning the gene.
func sortedExons(gm variant.GeneModel) []variant.Exon {
	if len(gm.Exons) == 0 {
		if gm.Stop < gm.Start {
			return nil
		}
		return []variant.Exon{{Start: gm.Start, Stop: gm.Stop + 1}}
	}
	exons := make([]variant.Exon, len(gm.Exons))
	copy(exons, gm.Exons)
	sort.Slice(exons, func(i, j int) bool { return exons[i].Start < exons[j].Start })
	return exons
}

func intPtr(n int) *int { return &n }
