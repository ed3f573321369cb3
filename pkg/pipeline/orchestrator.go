package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/varlayout/pkg/coord"
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/observability"
	"github.com/matzehuels/varlayout/pkg/payload"
	"github.com/matzehuels/varlayout/pkg/track"
	"github.com/matzehuels/varlayout/pkg/track/disc"
	"github.com/matzehuels/varlayout/pkg/track/position"
	"github.com/matzehuels/varlayout/pkg/track/pretreat"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
	"github.com/matzehuels/varlayout/pkg/variant"
)

// Orchestrator lays out one variant track across refreshes.
type Orchestrator struct {
	opts   Options
	Logger *log.Logger

	modes  *viewmode.Selector
	states track.StateTable

	payload    *payload.Payload
	groups     []*track.PositionGroup
	rejections track.Rejections
}

// New creates an orchestrator with no data.
func New(opts Options) (*Orchestrator, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		opts:   opts,
		Logger: opts.Logger,
		modes:  viewmode.New(opts.DefaultMode),
		states: make(track.StateTable),
	}, nil
}

// Refresh runs one refresh. On error the previous generation is kept.
func (o *Orchestrator) Refresh(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.View.setDefaults(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	hooks := observability.Refresh()
	hooks.OnRefreshStart(ctx, runID, req.Payload.Len())

	var (
		res *Result
		err error
	)
	if o.canReflow(req) {
		res = o.reflow(req)
	} else {
		res, err = o.rebuild(req)
	}

	duration := time.Since(start)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInternal, err, "refresh")
		}
		o.Logger.Error("refresh failed", "run_id", runID, "code", errors.GetCode(err), "err", errors.UserMessage(err))
		hooks.OnRefreshComplete(ctx, runID, "", 0, duration, err)
		return nil, err
	}

	res.RunID = runID
	res.Stats.Duration = duration
	res.Stats.Groups = len(res.Groups)
	res.Stats.Rejected = res.Rejections.Total()
	res.Modes = o.Modes()

	if res.Stats.Rejected > 0 {
		hooks.OnRecordsRejected(ctx, runID, res.Stats.Rejected)
	}
	hooks.OnRefreshComplete(ctx, runID, string(res.Path), res.Stats.Groups, duration, nil)
	o.Logger.Debug("refreshed track",
		"run_id", runID,
		"path", res.Path,
		"change", req.Change,
		"groups", res.Stats.Groups,
		"rejected", res.Stats.Rejected,
		"duration", duration)
	return res, nil
}

func (o *Orchestrator) canReflow(req Request) bool {
	return req.Payload == nil &&
		req.View.GeneModel != nil &&
		req.Change == ChangePan &&
		len(o.groups) > 0
}

// reflow re-maps the previous generation in place. Records without a hit
// keep their previous x.
func (o *Orchestrator) reflow(req Request) *Result {
	m := req.View.Mapper
	for _, g := range o.groups {
		for _, r := range g.Records {
			pos, _ := r.Position()
			if hit, idx, ok := coord.ResolvePrevious(m, r.Chr, pos, r.HitIndex); ok {
				r.ViewX = hit.X
				r.HitIndex = idx
			}
		}
		g.X = groupX(g)
	}
	track.SortByX(o.groups)
	o.partition(req.Highlight)

	return &Result{
		Path:        PathReflow,
		Groups:      o.groups,
		Rejections:  o.rejections,
		Fingerprint: track.Fingerprint(o.groups),
		Stats:       Stats{Records: track.RecordCount(o.groups)},
	}
}

// groupX applies the x rule the group was built with: the mean of member
// records for bins, the mean of member positions for amino-acid merges and
// the position itself otherwise.
func groupX(g *track.PositionGroup) float64 {
	if g.IsBin {
		xs := make([]float64, len(g.Records))
		for i, r := range g.Records {
			xs[i] = r.ViewX
		}
		return stat.Mean(xs, nil)
	}
	seen := make(map[track.Key]bool)
	var xs []float64
	for _, r := range g.Records {
		pos, _ := r.Position()
		k := track.Key{Chr: r.Chr, Pos: pos}
		if !seen[k] {
			seen[k] = true
			xs = append(xs, r.ViewX)
		}
	}
	if len(xs) == 0 {
		return g.X
	}
	return stat.Mean(xs, nil)
}

func (o *Orchestrator) rebuild(req Request) (*Result, error) {
	p := req.Payload
	if p == nil {
		p = o.payload
	}
	var records []*variant.Record
	if p != nil {
		records = p.Records
	}

	pre, err := pretreat.Run(records, pretreat.Options{
		Mapper:     req.View.Mapper,
		TieBreak:   o.opts.TieBreak,
		Converter:  o.opts.Converter,
		GeneModel:  req.View.GeneModel,
		CodingOnly: req.View.CodingOnly,
		Width:      req.View.Width,
		Logger:     o.Logger,
	})
	if err != nil {
		return nil, err
	}

	groups, aaRej, err := position.Group(pre.Records, position.Options{
		PixelsPerBase:  req.View.PixelsPerBase,
		GeneModel:      req.View.GeneModel,
		GenomicDisplay: req.View.GenomicDisplay,
		Converter:      o.opts.Converter,
		States:         o.states,
		Logger:         o.Logger,
	})
	if err != nil {
		return nil, err
	}
	if err := disc.GroupAll(groups); err != nil {
		return nil, err
	}

	// Commit. Nothing below can fail.
	rej := pre.Rejections
	rej.Merge(aaRej)
	if req.Payload != nil {
		o.modes.Observe(req.Payload.Records, req.Payload.Modes)
		o.payload = req.Payload
	}
	o.groups = groups
	o.rejections = rej

	res := &Result{
		Path:       PathFull,
		Groups:     groups,
		Rejections: rej,
		Stats:      Stats{Records: len(records)},
	}
	if len(groups) == 0 {
		res.Path = PathEmpty
		res.Empty = &payload.Empty{Message: EmptyMessage, Height: EmptyHeight}
		return res, nil
	}
	o.states.Store(groups)
	o.partition(req.Highlight)
	res.Fingerprint = track.Fingerprint(groups)
	return res, nil
}

// partition overlays the highlight set on the stored UI state: groups
// holding a highlighted record are expanded, the rest folded. The overlay is
// never written to the state table, so clearing the highlight restores the
// stored folds.
func (o *Orchestrator) partition(highlight []string) {
	var set map[string]struct{}
	if len(highlight) > 0 {
		set = make(map[string]struct{}, len(highlight))
		for _, id := range highlight {
			set[id] = struct{}{}
		}
	}
	for _, g := range o.groups {
		g.State = o.states[g.Key()]
		g.Highlighted = false
		if set == nil {
			continue
		}
		g.Highlighted = g.Contains(set)
		g.State.Folded = !g.Highlighted
	}
}

// =============================================================================
// External UI Actions
// =============================================================================

// Groups returns the current generation.
func (o *Orchestrator) Groups() []*track.PositionGroup { return o.groups }

// Modes returns the view mode descriptor.
func (o *Orchestrator) Modes() payload.Modes {
	return payload.Modes{Possible: o.modes.Possible(), Active: o.modes.Active()}
}

// SetMode switches the active view mode.
func (o *Orchestrator) SetMode(m viewmode.Mode) error {
	return o.modes.SetActive(m)
}

// SetState updates the UI state of a position. The change applies to the
// current generation and is carried into the next rebuild.
func (o *Orchestrator) SetState(key track.Key, s track.UIState) {
	o.states[key] = s
	for _, g := range o.groups {
		if g.Key() == key {
			g.State = s
		}
	}
}

// State returns the stored UI state of a position.
func (o *Orchestrator) State(key track.Key) (track.UIState, bool) {
	s, ok := o.states[key]
	return s, ok
}
