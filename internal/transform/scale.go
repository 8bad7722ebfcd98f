package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptAngle is returned when an angle field does not produce a
	// finite heading. It indicates file level corruption and aborts the run.
	ErrCorruptAngle = errors.New("angle value is not finite")
)

// Env carries the per-file inputs some transforms depend on.
type Env struct {
	RefMillis int64
	HasRef    bool
}

// Func maps a raw field value to its display value. A non-nil error is fatal
// for the whole run; per-field failures are reported as Invalid values.
type Func func(raw Raw, env Env) (Value, error)

// ScaleKind selects how a field's raw value is adjusted.
type ScaleKind uint8

const (
	ScaleNone ScaleKind = iota
	ScaleMultiplier
	ScaleFunc
)

func (k ScaleKind) String() string {
	switch k {
	case ScaleNone:
		return "none"
	case ScaleMultiplier:
		return "multiplier"
	case ScaleFunc:
		return "func"
	default:
		return fmt.Sprintf("scale(%d)", uint8(k))
	}
}

// Scale is the adjustment attached to a field: nothing, a numeric
// multiplier, or a named function.
type Scale struct {
	Kind       ScaleKind
	Multiplier float64
	Name       string
	Func       Func
}

func None() Scale { return Scale{Kind: ScaleNone} }

func Multiply(m float64) Scale { return Scale{Kind: ScaleMultiplier, Multiplier: m} }

func Apply(name string, fn Func) Scale {
	return Scale{Kind: ScaleFunc, Name: name, Func: fn}
}

// Named resolves a registered transform into a Scale.
func Named(name string) (Scale, error) {
	fn, ok := Lookup(name)
	if !ok {
		return Scale{}, fmt.Errorf("unknown transform %q", name)
	}
	return Apply(name, fn), nil
}

// Describe returns a short human readable form of the scale.
func (s Scale) Describe() string {
	switch s.Kind {
	case ScaleMultiplier:
		return fmt.Sprintf("x%g", s.Multiplier)
	case ScaleFunc:
		return s.Name
	default:
		return "-"
	}
}

// Transform computes the display value of raw.
func (s Scale) Transform(raw Raw, env Env) (Value, error) {
	switch s.Kind {
	case ScaleMultiplier:
		return Float(raw.Float64()*s.Multiplier, 3), nil
	case ScaleFunc:
		if s.Func == nil {
			return Invalid(), fmt.Errorf("transform %q has no function", s.Name)
		}
		return s.Func(raw, env)
	default:
		return raw.Passthrough(), nil
	}
}
