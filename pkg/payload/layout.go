package payload

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/varlayout/pkg/track"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
	"github.com/matzehuels/varlayout/pkg/variant"
)

// =============================================================================
// Layout - Render-Ready Track
// =============================================================================

// Layout is the serialized result of one refresh. Exactly one of Groups and
// Empty is populated.
type Layout struct {
	RunID       string           `json:"run_id,omitempty"`
	Path        string           `json:"path"`
	Width       float64          `json:"width"`
	Groups      []Group          `json:"groups,omitempty"`
	Empty       *Empty           `json:"empty,omitempty"`
	Modes       Modes            `json:"modes"`
	Rejections  track.Rejections `json:"rejections"`
	Fingerprint string           `json:"fingerprint,omitempty"`
}

// IsEmpty reports whether the layout carries the "no data" signal.
func (l *Layout) IsEmpty() bool { return l.Empty != nil }

// Empty is the terminal signal of a refresh that produced no groups.
type Empty struct {
	Message string  `json:"message"`
	Height  float64 `json:"height"`
}

// Modes describes the possible and active view modes.
type Modes struct {
	Possible []viewmode.Mode `json:"possible"`
	Active   viewmode.Mode   `json:"active"`
}

// Group is a position group with its records flattened to ids.
type Group struct {
	Chr         string  `json:"chr"`
	Pos         int     `json:"pos"`
	X           float64 `json:"x"`
	IsBin       bool    `json:"isBin,omitempty"`
	AAPos       *int    `json:"aapos,omitempty"`
	Occurrence  int     `json:"occurrence"`
	Folded      bool    `json:"folded"`
	XOffset     float64 `json:"xoffset,omitempty"`
	Highlighted bool    `json:"highlighted,omitempty"`
	Discs       []Disc  `json:"discs"`
}

// Disc is a type group.
type Disc struct {
	DataType         variant.DataType `json:"dt"`
	Class            string           `json:"class,omitempty"`
	Name             string           `json:"mname,omitempty"`
	UsesNTerminalEnd bool             `json:"useNterm,omitempty"`
	Occurrence       int              `json:"occurrence"`
	Rim1Count        int              `json:"rim1count,omitempty"`
	Rim2Count        int              `json:"rim2count,omitempty"`
	Members          []string         `json:"members"`
}

// FromGroups converts track groups into their serialized form.
func FromGroups(groups []*track.PositionGroup) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		discs := make([]Disc, len(g.Types))
		for j, t := range g.Types {
			members := make([]string, len(t.Records))
			for k, r := range t.Records {
				members[k] = r.SSMID
			}
			discs[j] = Disc{
				DataType:         t.DataType,
				Class:            t.Class,
				Name:             t.Name,
				UsesNTerminalEnd: t.UsesNTerminalEnd,
				Occurrence:       t.Occurrence,
				Rim1Count:        t.Rim1Count,
				Rim2Count:        t.Rim2Count,
				Members:          members,
			}
		}
		out[i] = Group{
			Chr:         g.Chr,
			Pos:         g.Pos,
			X:           g.X,
			IsBin:       g.IsBin,
			AAPos:       g.AAPos,
			Occurrence:  g.Occurrence,
			Folded:      g.State.Folded,
			XOffset:     g.State.XOffset,
			Highlighted: g.Highlighted,
			Discs:       discs,
		}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Empty != nil && len(l.Groups) > 0 {
		return Layout{}, fmt.Errorf("layout has both groups and an empty signal")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
