// Package pretreat filters raw variant records and resolves their view
// coordinates.
//
// Run applies, per record and in order: the coding-region filter, the
// chromosome check, the position check, coordinate mapping and the view
// bounds check. Rejected records are counted in [track.Rejections]; only
// unmapped records are logged one by one. Surviving records are enriched with
// transcript coordinates and, for breakend types, a resolved partner name.
//
// Input records are never modified: Run works on clones.
package pretreat

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/varlayout/pkg/coord"
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/track"
	"github.com/matzehuels/varlayout/pkg/variant"
)

// ViewMargin is how far outside [0, width] a mapped x may fall and still be
// kept.
const ViewMargin = 1.0

// Options configures a Run.
type Options struct {
	Mapper    coord.Mapper
	TieBreak  coord.TieBreak
	Converter coord.TranscriptConverter

	// GeneModel is nil for a plain genomic view.
	GeneModel *variant.GeneModel

	// CodingOnly restricts a coding gene model view to its coding region.
	CodingOnly bool

	Width  float64
	Logger *log.Logger
}

func (o *Options) setDefaults() error {
	if o.Mapper == nil {
		return errors.New(errors.ErrCodeInvalidInput, "coordinate mapper is required")
	}
	if o.TieBreak == nil {
		o.TieBreak = coord.FirstHit{}
	}
	if o.Converter == nil {
		o.Converter = coord.ExonConverter{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

func (o *Options) codingRestricted() bool {
	return o.GeneModel != nil && o.GeneModel.IsCoding && o.CodingOnly
}

// Output is the result of a Run.
type Output struct {
	Records    []*variant.Record
	Rejections track.Rejections
}

// Run filters and enriches records. It fails with a MALFORMED_INPUT error on
// an unknown data type or a breakend record without pairs, and with an
// UNSUPPORTED error on a multi-pair breakend record outside a gene model view.
func Run(records []*variant.Record, opts Options) (*Output, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}

	out := &Output{Records: make([]*variant.Record, 0, len(records))}
	rej := &out.Rejections

	for i, raw := range records {
		if !raw.DataType.Valid() {
			return nil, errors.Malformed("record %d (%s): unknown data type %s", i, raw.SSMID, raw.DataType)
		}

		r := raw.Clone()
		pos, posOK := r.Position()

		if opts.codingRestricted() && posOK && !opts.GeneModel.InCoding(pos) {
			rej.OutsideCoding++
			continue
		}
		if r.Chr == "" {
			rej.MissingChromosome++
			continue
		}
		if !posOK {
			rej.InvalidPosition++
			continue
		}

		hit, idx, ok := coord.Resolve(opts.Mapper, opts.TieBreak, r.Chr, pos)
		if !ok {
			rej.Unmapped++
			rej.UnmappedRecords = append(rej.UnmappedRecords, r)
			opts.Logger.Debug("record not mapped to view", "ssm_id", r.SSMID, "chr", r.Chr, "pos", pos)
			continue
		}
		if hit.X < -ViewMargin || hit.X > opts.Width+ViewMargin {
			rej.OutOfView++
			continue
		}
		r.ViewX = hit.X
		r.HitIndex = idx

		if err := enrich(r, pos, &opts); err != nil {
			return nil, err
		}
		out.Records = append(out.Records, r)
	}

	if n := rej.Total(); n > 0 {
		opts.Logger.Debug("records rejected",
			"outside_coding", rej.OutsideCoding,
			"missing_chr", rej.MissingChromosome,
			"invalid_pos", rej.InvalidPosition,
			"unmapped", rej.Unmapped,
			"out_of_view", rej.OutOfView)
	}
	return out, nil
}

func enrich(r *variant.Record, pos int, opts *Options) error {
	switch r.DataType.Kind() {
	case variant.KindPoint:
		if opts.GeneModel != nil {
			setTranscript(r, pos, opts)
		}
	case variant.KindBreakend:
		if len(r.Pairs) == 0 {
			return errors.Malformed("%s record %s has no breakend pairs", r.DataType, r.SSMID)
		}
		if opts.GeneModel == nil {
			if len(r.Pairs) > 1 {
				return errors.Unsupported("%s record %s has %d breakend pairs; multi-breakend layout without a gene model is not implemented",
					r.DataType, r.SSMID, len(r.Pairs))
			}
			return nil
		}
		resolveBreakend(r, opts)
	case variant.KindSegment, variant.KindLOH:
	default:
		return errors.Malformed("record %s: unknown data type %s", r.SSMID, r.DataType)
	}
	return nil
}

// resolveBreakend picks the first pair with an end inside the gene model and
// names the record after the partner end.
func resolveBreakend(r *variant.Record, opts *Options) {
	gm := opts.GeneModel
	for _, p := range r.Pairs {
		ends := p.Ends()
		for i, end := range ends {
			if !gm.Contains(end.Chr, end.Pos) || !gm.MatchesIsoform(end.Isoform) {
				continue
			}
			partner := ends[1-i]
			r.Name = partner.Gene
			if r.Name == "" {
				r.Name = fmt.Sprintf("%s:%d", partner.Chr, partner.Pos)
			}
			r.UsesNTerminalEnd = i == 0
			setTranscript(r, end.Pos, opts)
			return
		}
	}
	opts.Logger.Warn("no breakend inside gene model; name left unresolved",
		"ssm_id", r.SSMID, "dt", r.DataType, "pairs", len(r.Pairs))
}

func setTranscript(r *variant.Record, pos int, opts *Options) {
	tp, ok := opts.Converter.GenomicToTranscript(pos, *opts.GeneModel)
	if !ok {
		return
	}
	r.RNAPos = tp.RNAPos
	r.AAPos = tp.AAPos
}
