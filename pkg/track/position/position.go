// Package position clusters pretreated records into position groups.
//
// At nucleotide resolution (PixelsPerBase >= MinBpWidth) there is one group
// per distinct (chr, pos). Below that, records are first merged by amino-acid
// index when a coding gene model is shown in protein coordinates, and the
// rest are binned into fixed BinWidth pixel buckets.
package position

import (
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/varlayout/pkg/coord"
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/track"
	"github.com/matzehuels/varlayout/pkg/variant"
)

const (
	// MinBpWidth is the lowest resolution, in pixels per base, at which
	// records are grouped by exact position.
	MinBpWidth = 4.0

	// BinWidth is the pixel-bin width used below MinBpWidth.
	BinWidth = 2.0

	// AAMergeCodons scales PixelsPerBase into the amino-acid merge distance.
	AAMergeCodons = 3.0
)

// Options configures Group.
type Options struct {
	PixelsPerBase float64

	GeneModel      *variant.GeneModel
	GenomicDisplay bool
	Converter      coord.TranscriptConverter

	// States is the previous generation's side table. It is only read.
	States track.StateTable

	Logger *log.Logger
}

func (o *Options) setDefaults() error {
	if o.PixelsPerBase <= 0 || math.IsNaN(o.PixelsPerBase) || math.IsInf(o.PixelsPerBase, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "pixels per base must be positive, got %v", o.PixelsPerBase)
	}
	if o.Converter == nil {
		o.Converter = coord.ExonConverter{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

func (o *Options) aminoAcidPhase() bool {
	return o.GeneModel != nil && o.GeneModel.IsCoding && !o.GenomicDisplay
}

// Group clusters records into position groups sorted by X. The returned
// rejections only carry AAMappingFailed.
func Group(records []*variant.Record, opts Options) ([]*track.PositionGroup, *track.Rejections, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, nil, err
	}
	rej := &track.Rejections{}

	var groups []*track.PositionGroup
	if opts.PixelsPerBase >= MinBpWidth {
		groups = byPosition(records)
	} else {
		rest := records
		if opts.aminoAcidPhase() {
			var aa []*track.PositionGroup
			aa, rest = byAminoAcid(records, &opts, rej)
			groups = append(groups, aa...)
		}
		groups = append(groups, byPixelBin(rest)...)
	}

	track.SortByX(groups)
	opts.States.Attach(groups)
	return groups, rej, nil
}

// cluster is the records at one (chr, pos), in input order.
type cluster struct {
	key     track.Key
	records []*variant.Record
}

func (c *cluster) x() float64 { return c.records[0].ViewX }

func clusters(records []*variant.Record) []*cluster {
	index := make(map[track.Key]*cluster)
	var out []*cluster
	for _, r := range records {
		pos, _ := r.Position()
		k := track.Key{Chr: r.Chr, Pos: pos}
		c, ok := index[k]
		if !ok {
			c = &cluster{key: k}
			index[k] = c
			out = append(out, c)
		}
		c.records = append(c.records, r)
	}
	return out
}

func byPosition(records []*variant.Record) []*track.PositionGroup {
	cs := clusters(records)
	groups := make([]*track.PositionGroup, len(cs))
	for i, c := range cs {
		groups[i] = &track.PositionGroup{
			Chr:     c.key.Chr,
			Pos:     c.key.Pos,
			Records: c.records,
			X:       c.x(),
		}
	}
	return groups
}

type aaCluster struct {
	*cluster
	aa int
}

// byAminoAcid merges neighbouring clusters that share an amino-acid index.
// Records whose cluster has no amino-acid index are returned for binning.
func byAminoAcid(records []*variant.Record, opts *Options, rej *track.Rejections) ([]*track.PositionGroup, []*variant.Record) {
	var mapped []aaCluster
	var rest []*variant.Record
	for _, c := range clusters(records) {
		aa, ok := aminoAcid(c, opts)
		if !ok {
			opts.Logger.Debug("amino-acid mapping failed; binning by pixel", "pos", c.key, "records", len(c.records))
			rej.AAMappingFailed += len(c.records)
			rest = append(rest, c.records...)
			continue
		}
		mapped = append(mapped, aaCluster{cluster: c, aa: aa})
	}
	sortClustersByX(mapped)

	maxDist := opts.PixelsPerBase * AAMergeCodons
	var groups []*track.PositionGroup
	for i := 0; i < len(mapped); {
		first := mapped[i]
		xs := []float64{first.x()}
		members := append([]*variant.Record(nil), first.records...)
		j := i + 1
		for ; j < len(mapped); j++ {
			next := mapped[j]
			if next.aa != first.aa || next.x()-first.x() > maxDist {
				break
			}
			xs = append(xs, next.x())
			members = append(members, next.records...)
		}
		aa := first.aa
		groups = append(groups, &track.PositionGroup{
			Chr:     first.key.Chr,
			Pos:     first.key.Pos,
			Records: members,
			X:       stat.Mean(xs, nil),
			AAPos:   &aa,
		})
		i = j
	}
	return groups, rest
}

// aminoAcid reuses a member's AAPos or converts the cluster position.
func aminoAcid(c *cluster, opts *Options) (int, bool) {
	for _, r := range c.records {
		if r.AAPos != nil {
			return *r.AAPos, true
		}
	}
	if c.key.Chr != opts.GeneModel.Chr {
		return 0, false
	}
	tp, ok := opts.Converter.GenomicToTranscript(c.key.Pos, *opts.GeneModel)
	if !ok || tp.AAPos == nil {
		return 0, false
	}
	return *tp.AAPos, true
}

func sortClustersByX(cs []aaCluster) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].x() < cs[j].x() })
}

// byPixelBin buckets records by floor(x / BinWidth).
func byPixelBin(records []*variant.Record) []*track.PositionGroup {
	type bin struct {
		records []*variant.Record
		xs      []float64
	}
	index := make(map[int64]*bin)
	var order []*bin
	for _, r := range records {
		b := int64(math.Floor(r.ViewX / BinWidth))
		bn, ok := index[b]
		if !ok {
			bn = &bin{}
			index[b] = bn
			order = append(order, bn)
		}
		bn.records = append(bn.records, r)
		bn.xs = append(bn.xs, r.ViewX)
	}

	groups := make([]*track.PositionGroup, len(order))
	for i, bn := range order {
		first := bn.records[0]
		pos, _ := first.Position()
		groups[i] = &track.PositionGroup{
			Chr:     first.Chr,
			Pos:     pos,
			Records: bn.records,
			X:       stat.Mean(bn.xs, nil),
			IsBin:   true,
		}
	}
	return groups
}
