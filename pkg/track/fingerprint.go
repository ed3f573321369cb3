package track

import (
	"crypto/sha256"
	"encoding/hex"

	json "github.com/goccy/go-json"
)

type fingerprintType struct {
	DataType int      `json:"d"`
	Class    string   `json:"c"`
	Name     string   `json:"n"`
	NTerm    bool     `json:"t"`
	Members  []string `json:"m"`
}

type fingerprintGroup struct {
	Key   Key               `json:"k"`
	IsBin bool              `json:"b"`
	Types []fingerprintType `json:"t"`
}

// Fingerprint hashes group membership and order. Coordinates and UI state
// are excluded, so two runs over the same input with different pan offsets
// share a fingerprint.
func Fingerprint(groups []*PositionGroup) string {
	out := make([]fingerprintGroup, len(groups))
	for i, g := range groups {
		fg := fingerprintGroup{Key: g.Key(), IsBin: g.IsBin, Types: make([]fingerprintType, len(g.Types))}
		for j, t := range g.Types {
			ft := fingerprintType{
				DataType: int(t.DataType),
				Class:    t.Class,
				Name:     t.Name,
				NTerm:    t.UsesNTerminalEnd,
				Members:  make([]string, len(t.Records)),
			}
			for k, r := range t.Records {
				ft.Members[k] = r.SSMID
			}
			fg.Types[j] = ft
		}
		out[i] = fg
	}
	data, _ := json.Marshal(out)
	return Hash(data)
}

// Hash computes a SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
