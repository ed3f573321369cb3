package variant

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// DataType classifies a variant record. The zero value is invalid.
type DataType int

// Data types. Values match the numeric codes used by legacy payloads.
const (
	DataTypeInvalid           DataType = 0
	PointMutation             DataType = 1
	Fusion                    DataType = 2
	CopyNumber                DataType = 4
	StructuralVariant         DataType = 5
	InternalTandemDuplication DataType = 6
	Deletion                  DataType = 7
	TerminalLossN             DataType = 8
	TerminalLossC             DataType = 9
	LossOfHeterozygosity      DataType = 10
)

// Kind groups data types that share layout behavior.
type Kind int

const (
	KindInvalid Kind = iota
	// KindPoint covers single-position mutations (SNVs and small indels).
	KindPoint
	// KindBreakend covers records defined by breakend pairs.
	KindBreakend
	// KindSegment covers copy-number style alterations drawn as one glyph per type.
	KindSegment
	// KindLOH is loss of heterozygosity. It is a known type but has no glyph.
	KindLOH
)

var dataTypeNames = map[DataType]string{
	PointMutation:             "snvindel",
	Fusion:                    "fusion",
	CopyNumber:                "cnv",
	StructuralVariant:         "sv",
	InternalTandemDuplication: "itd",
	Deletion:                  "deletion",
	TerminalLossN:             "nloss",
	TerminalLossC:             "closs",
	LossOfHeterozygosity:      "loh",
}

var dataTypesByName = func() map[string]DataType {
	m := make(map[string]DataType, len(dataTypeNames))
	for dt, name := range dataTypeNames {
		m[name] = dt
	}
	return m
}()

// AllDataTypes returns every valid data type in code order.
func AllDataTypes() []DataType {
	return []DataType{
		PointMutation,
		Fusion,
		CopyNumber,
		StructuralVariant,
		InternalTandemDuplication,
		Deletion,
		TerminalLossN,
		TerminalLossC,
		LossOfHeterozygosity,
	}
}

// Valid reports whether dt is one of the known data types.
func (dt DataType) Valid() bool {
	_, ok := dataTypeNames[dt]
	return ok
}

// Kind returns the layout family of dt, or KindInvalid for unknown codes.
func (dt DataType) Kind() Kind {
	switch dt {
	case PointMutation:
		return KindPoint
	case StructuralVariant, Fusion:
		return KindBreakend
	case CopyNumber, InternalTandemDuplication, Deletion, TerminalLossN, TerminalLossC:
		return KindSegment
	case LossOfHeterozygosity:
		return KindLOH
	default:
		return KindInvalid
	}
}

// String returns the canonical name, or "dt(<code>)" for unknown codes.
func (dt DataType) String() string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return fmt.Sprintf("dt(%d)", int(dt))
}

// ParseDataType parses a canonical name or a numeric code.
// Unknown numeric codes are kept as-is so that the pretreater can reject
// them; unknown names return an error.
func ParseDataType(s string) (DataType, error) {
	if dt, ok := dataTypesByName[s]; ok {
		return dt, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return DataType(n), nil
	}
	return DataTypeInvalid, fmt.Errorf("unknown data type %q", s)
}

// MarshalJSON encodes dt as its canonical name.
func (dt DataType) MarshalJSON() ([]byte, error) {
	if !dt.Valid() {
		return json.Marshal(int(dt))
	}
	return json.Marshal(dt.String())
}

// UnmarshalJSON accepts a canonical name or a legacy numeric code.
// Unknown names decode to DataTypeInvalid rather than failing the whole
// payload; the record is then rejected as malformed during layout.
func (dt *DataType) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*dt = DataType(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("data type must be a string or number: %w", err)
	}
	parsed, err := ParseDataType(s)
	if err != nil {
		*dt = DataTypeInvalid
		return nil
	}
	*dt = parsed
	return nil
}
