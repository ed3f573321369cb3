package payload

import (
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
	"github.com/matzehuels/varlayout/pkg/variant"
)

// Payload is one batch of raw records for a view.
type Payload struct {
	Dataset string            `json:"dataset,omitempty" bson:"dataset,omitempty"`
	Records []*variant.Record `json:"records" bson:"records"`
	Modes   []viewmode.Mode   `json:"modes,omitempty" bson:"-"`
}

// Len returns the number of records, treating a nil payload as empty.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Records)
}

// Unmarshal decodes a payload object or a bare record array.
func Unmarshal(data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty payload")
	}

	var p Payload
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &p.Records); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
		}
		return &p, nil
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode payload")
	}
	return &p, nil
}

// Read decodes a payload from r. Read does not close r.
func Read(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return Unmarshal(data)
}

// ReadFile decodes the payload file at path.
func ReadFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "payload %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	p, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Marshal encodes p as JSON.
func Marshal(p *Payload) ([]byte, error) {
	return json.Marshal(p)
}
