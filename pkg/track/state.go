package track

// UIState is the presentation state of one position group.
type UIState struct {
	Folded  bool    `json:"folded"`
	XOffset float64 `json:"xoffset,omitempty"`
}

// StateTable maps position keys to UI state. It is read at the start of a
// run and written at the end, never during.
type StateTable map[Key]UIState

// Attach copies stored state onto groups whose key is present.
func (st StateTable) Attach(groups []*PositionGroup) {
	if len(st) == 0 {
		return
	}
	for _, g := range groups {
		if s, ok := st[g.Key()]; ok {
			g.State = s
		}
	}
}

// Store writes the state of groups into the table. Keys of groups that are
// no longer present are kept, so state survives panning away and back.
func (st StateTable) Store(groups []*PositionGroup) {
	for _, g := range groups {
		st[g.Key()] = g.State
	}
}

// Clone returns a copy of st.
func (st StateTable) Clone() StateTable {
	out := make(StateTable, len(st))
	for k, v := range st {
		out[k] = v
	}
	return out
}
