package layout

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"example.com/fc2csv/internal/transform"
)

// RecordSize is the length of every Atom2 flight log record.
const RecordSize = 512

// BinaryType is the little-endian encoding of a record field.
type BinaryType uint8

const (
	U8 BinaryType = iota + 1
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
)

var typeNames = map[BinaryType]string{
	U8: "u8", I8: "i8", U16: "u16", I16: "i16", U32: "u32",
	I32: "i32", U64: "u64", I64: "i64", F32: "f32", F64: "f64",
}

var typeAliases = map[string]BinaryType{
	"uint8": U8, "int8": I8, "uint16": U16, "int16": I16, "uint32": U32,
	"int32": I32, "uint64": U64, "int64": I64, "float32": F32, "float64": F64,
}

// ParseBinaryType accepts the short names (u8, i32, f32...) and the Go
// spelling (uint8, int32, float32...).
func ParseBinaryType(s string) (BinaryType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == key {
			return t, nil
		}
	}
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown binary type %q", s)
}

func (t BinaryType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Width returns the number of bytes the type occupies, or 0 for an unknown
// type.
func (t BinaryType) Width() int {
	switch t {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		return 0
	}
}

// Decode interprets the leading bytes of b as a little-endian value.
func (t BinaryType) Decode(b []byte) (transform.Raw, error) {
	w := t.Width()
	if w == 0 {
		return transform.Raw{}, fmt.Errorf("decode %s: unknown type", t)
	}
	if len(b) < w {
		return transform.Raw{}, io.ErrUnexpectedEOF
	}
	le := binary.LittleEndian
	switch t {
	case U8:
		return transform.UnsignedRaw(uint64(b[0])), nil
	case I8:
		return transform.SignedRaw(int64(int8(b[0]))), nil
	case U16:
		return transform.UnsignedRaw(uint64(le.Uint16(b))), nil
	case I16:
		return transform.SignedRaw(int64(int16(le.Uint16(b)))), nil
	case U32:
		return transform.UnsignedRaw(uint64(le.Uint32(b))), nil
	case I32:
		return transform.SignedRaw(int64(int32(le.Uint32(b)))), nil
	case U64:
		return transform.UnsignedRaw(le.Uint64(b)), nil
	case I64:
		return transform.SignedRaw(int64(le.Uint64(b))), nil
	case F32:
		return transform.FloatRaw(float64(math.Float32frombits(le.Uint32(b)))), nil
	default:
		return transform.FloatRaw(math.Float64frombits(le.Uint64(b))), nil
	}
}

// FieldSpec describes one field of a record.
type FieldSpec struct {
	Name   string
	Type   BinaryType
	Offset int
	Length int
	Scale  transform.Scale
	// Alias marks a field that intentionally reuses bytes of an earlier one.
	Alias bool
}

func (f FieldSpec) End() int { return f.Offset + f.Length }

// Bytes returns the field's slice of record. The slice is shorter than
// Length when the record is truncated.
func (f FieldSpec) Bytes(record []byte) []byte {
	if f.Offset >= len(record) {
		return nil
	}
	end := f.End()
	if end > len(record) {
		end = len(record)
	}
	return record[f.Offset:end]
}

// Extract decodes the raw value of the field from record.
func (f FieldSpec) Extract(record []byte) (transform.Raw, error) {
	view := f.Bytes(record)
	if len(view) < f.Length {
		return transform.Raw{}, io.ErrUnexpectedEOF
	}
	return f.Type.Decode(view)
}

// Overlaps reports whether the byte ranges of f and o intersect.
func (f FieldSpec) Overlaps(o FieldSpec) bool {
	return f.Offset < o.End() && o.Offset < f.End()
}

// DerivedSpec combines a base enumeration with an activity flag. When the
// flag is nonzero and the base label equals When, the column shows Label.
type DerivedSpec struct {
	Name  string
	Base  FieldSpec
	Flag  FieldSpec
	When  string
	Label string
}

// Table is the ordered schema for one record format.
type Table struct {
	Name    string
	Fields  []FieldSpec
	Derived []DerivedSpec
}

// Header returns the output column names: fields in order, then derived
// columns.
func (t *Table) Header() []string {
	names := make([]string, 0, len(t.Fields)+len(t.Derived))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	for _, d := range t.Derived {
		names = append(names, d.Name)
	}
	return names
}

// Columns returns the number of output columns.
func (t *Table) Columns() int {
	return len(t.Fields) + len(t.Derived)
}

// Field returns the base field or derived component with the given name.
func (t *Table) Field(name string) (FieldSpec, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	for _, d := range t.Derived {
		switch name {
		case d.Base.Name:
			return d.Base, true
		case d.Flag.Name:
			return d.Flag, true
		}
	}
	return FieldSpec{}, false
}
