// Package track defines the render-ready structure of a variant track.
//
// A track is an ordered list of [PositionGroup] values. Each position group
// clusters the records drawn at one on-screen location and splits them into
// [TypeGroup] values ("discs"), one glyph per mutation type and class.
//
// # Invariants
//
// Every surviving record belongs to exactly one position group and exactly one
// type group within it. A position group's Occurrence equals the sum of its
// type groups' Occurrence. Position groups are non-decreasing in X. Type
// groups are sorted descending by Occurrence, ties in discovery order.
//
// # UI state
//
// Fold and offset state is not part of a group's identity. It lives in a
// [StateTable] keyed by [Key] and is reattached to freshly built groups by
// lookup, so a rebuild can change the grouping policy without losing state.
//
// The subpackages build a track in stages: pretreat (filter and map), position
// (cluster), disc (split into type groups) and viewmode (display modes).
package track
