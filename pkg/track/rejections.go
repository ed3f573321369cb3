package track

import "github.com/matzehuels/varlayout/pkg/variant"

// Rejections summarizes records dropped during a refresh. Rejections never
// abort a refresh.
type Rejections struct {
	OutsideCoding     int `json:"outsideCoding"`
	MissingChromosome int `json:"missingChromosome"`
	InvalidPosition   int `json:"invalidPosition"`
	Unmapped          int `json:"unmapped"`
	OutOfView         int `json:"outOfView"`

	// AAMappingFailed counts records whose cluster fell through amino-acid
	// merging. Those records are still grouped.
	AAMappingFailed int `json:"aaMappingFailed"`

	UnmappedRecords []*variant.Record `json:"unmappedRecords,omitempty"`
}

// Total returns the number of records dropped from the track.
func (r *Rejections) Total() int {
	if r == nil {
		return 0
	}
	return r.OutsideCoding + r.MissingChromosome + r.InvalidPosition + r.Unmapped + r.OutOfView
}

// Merge adds other's counts into r.
func (r *Rejections) Merge(other *Rejections) {
	if other == nil {
		return
	}
	r.OutsideCoding += other.OutsideCoding
	r.MissingChromosome += other.MissingChromosome
	r.InvalidPosition += other.InvalidPosition
	r.Unmapped += other.Unmapped
	r.OutOfView += other.OutOfView
	r.AAMappingFailed += other.AAMappingFailed
	r.UnmappedRecords = append(r.UnmappedRecords, other.UnmappedRecords...)
}
