// Package viewmode tracks which display modes a track offers.
//
// The possible set only grows: once a mode has been offered it stays, even
// if later payloads no longer support it. Exactly one mode is active.
package viewmode

import (
	"fmt"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/variant"
)

// Kind distinguishes categorical from numeric display.
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

// String returns "categorical" or "numeric".
func (k Kind) String() string {
	switch k {
	case Categorical:
		return "categorical"
	case Numeric:
		return "numeric"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "categorical":
		*k = Categorical
	case "numeric":
		*k = Numeric
	default:
		return errors.New(errors.ErrCodeInvalidMode, "unknown view mode kind %q", b)
	}
	return nil
}

// OccurrenceAttribute is the attribute plotted by the occurrence mode.
const OccurrenceAttribute = "occurrence"

// Mode is one display mode. Identity is (Kind, ByAttribute); Label is
// presentation only.
type Mode struct {
	Kind        Kind   `json:"type" toml:"type"`
	ByAttribute string `json:"byAttribute,omitempty" toml:"by_attribute"`
	Label       string `json:"label,omitempty" toml:"label"`
}

// CategoricalMode is always offered.
var CategoricalMode = Mode{Kind: Categorical}

// OccurrenceMode plots records by occurrence count.
var OccurrenceMode = Mode{Kind: Numeric, ByAttribute: OccurrenceAttribute, Label: "Occurrence"}

// Same reports whether m and o identify the same mode.
func (m Mode) Same(o Mode) bool {
	if m.Kind != o.Kind {
		return false
	}
	return m.Kind == Categorical || m.ByAttribute == o.ByAttribute
}

// String returns "categorical" or "numeric:<attribute>".
func (m Mode) String() string {
	if m.Kind == Numeric {
		return "numeric:" + m.ByAttribute
	}
	return m.Kind.String()
}

// Parse reads the String form of a mode.
func Parse(s string) (Mode, error) {
	if s == "categorical" || s == "" {
		return CategoricalMode, nil
	}
	const prefix = "numeric:"
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return Mode{Kind: Numeric, ByAttribute: s[len(prefix):]}, nil
	}
	return Mode{}, errors.New(errors.ErrCodeInvalidMode, "invalid view mode %q (want categorical or numeric:<attribute>)", s)
}

// Selector holds the possible modes and the active one. The zero value is
// not ready for use; call New.
type Selector struct {
	possible []Mode
	active   Mode
	fallback Mode
}

// New returns a selector offering only the categorical mode. preferred
// becomes active as soon as it is possible.
func New(preferred Mode) *Selector {
	return &Selector{
		possible: []Mode{CategoricalMode},
		active:   CategoricalMode,
		fallback: preferred,
	}
}

// Possible returns a copy of the possible modes in the order they were added.
func (s *Selector) Possible() []Mode {
	return append([]Mode(nil), s.possible...)
}

// Active returns the active mode.
func (s *Selector) Active() Mode { return s.active }

// Observe adds the modes supported by a new payload: the declared modes, and
// the occurrence mode if any record has an occurrence.
func (s *Selector) Observe(records []*variant.Record, declared []Mode) {
	for _, m := range declared {
		s.add(m)
	}
	for _, r := range records {
		if r.HasOccurrence() {
			s.add(OccurrenceMode)
			break
		}
	}
	if s.active.Same(CategoricalMode) && !s.fallback.Same(CategoricalMode) {
		if m, ok := s.find(s.fallback); ok {
			s.active = m
		}
	}
}

// SetActive switches the active mode. The mode must be possible.
func (s *Selector) SetActive(m Mode) error {
	found, ok := s.find(m)
	if !ok {
		return errors.New(errors.ErrCodeInvalidMode, "view mode %s is not available", m)
	}
	s.active = found
	s.fallback = found
	return nil
}

func (s *Selector) add(m Mode) {
	if _, ok := s.find(m); ok {
		return
	}
	if m.Kind == Numeric && m.Label == "" {
		m.Label = m.ByAttribute
	}
	s.possible = append(s.possible, m)
}

func (s *Selector) find(m Mode) (Mode, bool) {
	for _, p := range s.possible {
		if p.Same(m) {
			return p, true
		}
	}
	return Mode{}, false
}
