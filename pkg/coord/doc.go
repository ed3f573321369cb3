// Package coord maps genomic coordinates into view space.
//
// The layout engine consumes two collaborators from this package:
//
//   - a [Mapper], which turns (chr, pos) into zero, one or many view-space
//     x-coordinates (a position can appear in several panels of a view)
//   - a [TranscriptConverter], which turns a genomic position into transcript
//     and amino-acid coordinates relative to a gene model
//
// When a mapper returns several hits, a [TieBreak] picks one. [FirstHit] is
// the default policy; [NearestTo] is provided for views that prefer the hit
// closest to a focus point.
//
// [Regions] and [ExonConverter] are the bundled implementations used by the
// CLI and the HTTP API. Callers embedding the engine can supply their own.
package coord
