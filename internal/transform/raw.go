package transform

import "math"

// RawKind is the numeric family a binary field decodes into.
type RawKind uint8

const (
	RawSigned RawKind = iota
	RawUnsigned
	RawFloat
)

// Raw is a decoded, not yet transformed, field value.
type Raw struct {
	kind RawKind
	i    int64
	u    uint64
	f    float64
}

func SignedRaw(v int64) Raw    { return Raw{kind: RawSigned, i: v} }
func UnsignedRaw(v uint64) Raw { return Raw{kind: RawUnsigned, u: v} }
func FloatRaw(v float64) Raw   { return Raw{kind: RawFloat, f: v} }

func (r Raw) Kind() RawKind { return r.kind }

func (r Raw) Float64() float64 {
	switch r.kind {
	case RawSigned:
		return float64(r.i)
	case RawUnsigned:
		return float64(r.u)
	default:
		return r.f
	}
}

// Int64 returns r as a signed integer. Floats are truncated and unsigned
// values above math.MaxInt64 wrap.
func (r Raw) Int64() int64 {
	switch r.kind {
	case RawSigned:
		return r.i
	case RawUnsigned:
		return int64(r.u)
	default:
		if math.IsNaN(r.f) {
			return 0
		}
		return int64(r.f)
	}
}

// Uint64 returns the two's complement bit pattern for signed values.
func (r Raw) Uint64() uint64 {
	switch r.kind {
	case RawSigned:
		return uint64(r.i)
	case RawUnsigned:
		return r.u
	default:
		if math.IsNaN(r.f) || r.f < 0 {
			return 0
		}
		return uint64(r.f)
	}
}

// IsZero reports whether the raw value is exactly zero.
func (r Raw) IsZero() bool {
	switch r.kind {
	case RawSigned:
		return r.i == 0
	case RawUnsigned:
		return r.u == 0
	default:
		return r.f == 0
	}
}

// Passthrough renders r without a transform: integers in decimal and floats
// with three decimals.
func (r Raw) Passthrough() Value {
	switch r.kind {
	case RawSigned:
		return Int(r.i)
	case RawUnsigned:
		return Uint(r.u)
	default:
		return Float(r.f, 3)
	}
}
