package transform

import (
	"strconv"
)

// Kind identifies how a decoded field is rendered.
type Kind uint8

const (
	// KindInvalid marks a field that failed to decode. A record holding an
	// invalid field is never written.
	KindInvalid Kind = iota
	// KindEmpty marks a value that is known to be missing. It renders as an
	// empty cell and does not fail the record.
	KindEmpty
	KindInt
	KindUint
	KindFloat
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindEmpty:
		return "empty"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the display value of one decoded field.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	prec int
	s    string
}

func Int(v int64) Value   { return Value{kind: KindInt, i: v} }
func Uint(v uint64) Value { return Value{kind: KindUint, u: v} }
func Text(s string) Value { return Value{kind: KindText, s: s} }
func Empty() Value        { return Value{kind: KindEmpty} }
func Invalid() Value      { return Value{kind: KindInvalid} }

// Float returns a floating point value rendered with prec decimals.
func Float(v float64, prec int) Value {
	if prec < 0 {
		prec = -1
	}
	return Value{kind: KindFloat, f: v, prec: prec}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsInvalid() bool { return v.kind == KindInvalid }

// Float64 returns the numeric content of v. Text, empty and invalid values
// report false.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindUint:
		return float64(v.u), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Label returns the text of a KindText value, or the rendered form of any
// other value.
func (v Value) Label() string {
	if v.kind == KindText {
		return v.s
	}
	return v.String()
}

// String renders the value the way it appears in an output row.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', v.prec, 64)
	case KindText:
		return v.s
	case KindEmpty:
		return ""
	default:
		return "<invalid>"
	}
}
