// Package variant defines the raw variant records consumed by the layout
// engine and the gene-model context that frames a protein-relative view.
//
// A [Record] arrives from a payload source with its genomic coordinate and
// classification. The pretreater fills the ephemeral fields ([Record.ViewX],
// [Record.HitIndex], transcript coordinates) on every refresh; nothing in a
// Record is persisted between refreshes.
//
// # Data types
//
// [DataType] is a closed set. Consumers switch on [DataType.Kind] and treat
// the default branch as malformed input, so an unknown code can never fall
// through silently:
//
//	switch rec.DataType.Kind() {
//	case variant.KindPoint:
//	case variant.KindBreakend:
//	case variant.KindSegment:
//	default:
//	    return errors.Malformed("unsupported data type %s", rec.DataType)
//	}
package variant
