// Package pipeline drives the variant track layout engine.
//
// An [Orchestrator] owns one track: the last raw payload, the previous
// generation of position groups, the view mode selector and the UI-state side
// table. Each call to Refresh takes exactly one of three paths:
//
//  1. Reflow: no new payload, a gene-model view and a pan. Existing groups
//     are re-mapped in place; nothing is regrouped.
//  2. Full: pretreat → position grouping → type grouping.
//  3. Empty: a full rebuild that produced no groups. The result carries a
//     "no data" message and a fixed height instead of groups.
//
// After a reflow or full rebuild, groups are partitioned by the request's
// highlight set: groups holding a highlighted record are expanded, the rest
// folded.
//
// # Errors
//
// A malformed payload or an unsupported layout path aborts the refresh with a
// coded *errors.Error. The previous generation is kept untouched, so the
// caller can keep showing it next to a single error state. Records that
// merely cannot be placed are counted in the result's rejection summary.
//
// # Usage
//
//	orch, err := pipeline.New(pipeline.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	res, err := orch.Refresh(ctx, pipeline.Request{
//	    Payload: p,
//	    View:    pipeline.View{Width: 800, Mapper: coord.Single("17", 7661779, 7687538, 800)},
//	    Change:  pipeline.ChangeRequery,
//	})
//
// An Orchestrator is not safe for concurrent use.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/varlayout/pkg/coord"
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/payload"
	"github.com/matzehuels/varlayout/pkg/track"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
	"github.com/matzehuels/varlayout/pkg/variant"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	// DefaultWidth is the default view width in pixels.
	DefaultWidth = 800.0

	// EmptyMessage is the message of the empty path.
	EmptyMessage = "No variants in view"

	// EmptyHeight is the track height, in pixels, of the empty path.
	EmptyHeight = 32.0
)

// Path names the refresh path a Result was produced by.
type Path string

const (
	PathReflow Path = "reflow"
	PathFull   Path = "full"
	PathEmpty  Path = "empty"
)

// Change describes what changed in the view since the previous refresh.
type Change int

const (
	// ChangePan moves the view without changing resolution.
	ChangePan Change = iota
	// ChangeZoom changes resolution.
	ChangeZoom
	// ChangeRequery fetched new records.
	ChangeRequery
	// ChangeContext switched gene model, isoform or display settings.
	ChangeContext
)

var changeNames = []string{"pan", "zoom", "requery", "context"}

// String returns the lowercase change name.
func (c Change) String() string {
	if c < 0 || int(c) >= len(changeNames) {
		return fmt.Sprintf("change(%d)", int(c))
	}
	return changeNames[c]
}

// ParseChange parses a change name.
func ParseChange(s string) (Change, error) {
	for i, name := range changeNames {
		if strings.EqualFold(s, name) {
			return Change(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid change %q (must be one of: %s)", s, strings.Join(changeNames, ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (c Change) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Change) UnmarshalText(b []byte) error {
	v, err := ParseChange(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// =============================================================================
// Options - Orchestrator Configuration
// =============================================================================

// Options configures an Orchestrator.
type Options struct {
	// TieBreak picks among several mapper hits. Defaults to coord.FirstHit.
	TieBreak coord.TieBreak

	// Converter maps genomic to transcript coordinates. Defaults to
	// coord.ExonConverter.
	Converter coord.TranscriptConverter

	// DefaultMode becomes active once the data supports it.
	DefaultMode viewmode.Mode

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.TieBreak == nil {
		o.TieBreak = coord.FirstHit{}
	}
	if o.Converter == nil {
		o.Converter = coord.ExonConverter{}
	}
	if o.DefaultMode.Kind == viewmode.Numeric && o.DefaultMode.ByAttribute == "" {
		return errors.New(errors.ErrCodeInvalidMode, "numeric default mode needs an attribute")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// View describes the view a refresh lays out.
type View struct {
	Width         float64
	PixelsPerBase float64

	// GeneModel is nil for a plain genomic view.
	GeneModel      *variant.GeneModel
	GenomicDisplay bool
	CodingOnly     bool

	Mapper coord.Mapper
}

type resolutionMapper interface {
	PixelsPerBase() float64
}

func (v *View) setDefaults() error {
	if v.Mapper == nil {
		return errors.New(errors.ErrCodeInvalidInput, "view has no coordinate mapper")
	}
	if v.Width <= 0 {
		v.Width = DefaultWidth
	}
	if v.PixelsPerBase <= 0 {
		if rm, ok := v.Mapper.(resolutionMapper); ok {
			v.PixelsPerBase = rm.PixelsPerBase()
		}
	}
	if v.PixelsPerBase <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "view has no resolution (pixels per base)")
	}
	return nil
}

// ViewSpec is the serialized form of a View over a list of screen regions,
// as read from the command line, the config file or an API request.
type ViewSpec struct {
	Width          float64            `json:"width,omitempty"`
	PixelsPerBase  float64            `json:"ppb,omitempty"`
	Regions        coord.Regions      `json:"regions"`
	GeneModel      *variant.GeneModel `json:"gene_model,omitempty"`
	GenomicDisplay bool               `json:"genomic_display,omitempty"`
	CodingOnly     bool               `json:"coding_only,omitempty"`
}

// View builds the View described by s.
func (s ViewSpec) View() View {
	v := View{
		Width:          s.Width,
		PixelsPerBase:  s.PixelsPerBase,
		GeneModel:      s.GeneModel,
		GenomicDisplay: s.GenomicDisplay,
		CodingOnly:     s.CodingOnly,
	}
	if len(s.Regions) > 0 {
		v.Mapper = s.Regions
	}
	return v
}

// Pan returns s shifted by dx pixels.
func (s ViewSpec) Pan(dx float64) ViewSpec {
	s.Regions = s.Regions.Shift(dx)
	return s
}

// Zoom returns s with every region scaled by factor. An explicit resolution
// is scaled too.
func (s ViewSpec) Zoom(factor float64) ViewSpec {
	s.Regions = s.Regions.Zoom(factor)
	if s.PixelsPerBase > 0 {
		s.PixelsPerBase *= factor
	}
	return s
}

// Request is the input of one refresh.
type Request struct {
	// Payload is nil when no new records arrived.
	Payload *payload.Payload

	View   View
	Change Change

	// Highlight lists ssm ids to keep expanded. An empty list disables the
	// highlight partition.
	Highlight []string
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of a successful refresh. Groups belong to the
// Orchestrator and are updated in place by later reflows.
type Result struct {
	RunID       string
	Path        Path
	Groups      []*track.PositionGroup
	Empty       *payload.Empty
	Modes       payload.Modes
	Rejections  track.Rejections
	Fingerprint string
	Stats       Stats
}

// Stats contains refresh statistics.
type Stats struct {
	Records  int
	Groups   int
	Rejected int
	Duration time.Duration
}

// Export converts the result into its serialized layout document.
func (r *Result) Export(width float64) payload.Layout {
	return payload.Layout{
		RunID:       r.RunID,
		Path:        string(r.Path),
		Width:       width,
		Groups:      payload.FromGroups(r.Groups),
		Empty:       r.Empty,
		Modes:       r.Modes,
		Rejections:  r.Rejections,
		Fingerprint: r.Fingerprint,
	}
}
