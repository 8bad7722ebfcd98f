package transform

import (
	"fmt"
	"math"
	"sort"
)

var registry = map[string]Func{
	"angle":            Angle,
	"latlon":           LatLon,
	"magnitude":        Magnitude,
	"abstime":          AbsTime,
	"abs":              Abs,
	"round2":           Round2,
	"flight_mode":      Enum(flightModes),
	"drone_mode":       Enum(droneModes),
	"motor_state":      Enum(motorStates),
	"positioning_mode": Enum(positioningModes),
	"gps_lock":         GPSLock,
	"hex":              Hex(0),
	"hex16":            Hex(4),
	"hex32":            Hex(8),
	"hex64":            Hex(16),
}

var (
	flightModes      = map[int64]string{7: "Video", 8: "Normal", 9: "Sport"}
	droneModes       = map[int64]string{0: "Idle/Off", 1: "Launching", 2: "Flying", 3: "Landing"}
	motorStates      = map[int64]string{3: "Off", 4: "Idle", 5: "Low", 6: "Medium", 7: "High"}
	positioningModes = map[int64]string{1: "ATTI", 2: "OPTI", 3: "GPS"}
)

// Lookup returns the registered transform with the given name.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names lists the registered transform names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Angle converts radians to a compass heading in [0, 360).
func Angle(raw Raw, _ Env) (Value, error) {
	data := raw.Float64()
	deg := math.Mod(360+data*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	deg = round(deg, 3)
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return Invalid(), fmt.Errorf("%w: raw %v", ErrCorruptAngle, data)
	}
	return Float(deg, 3), nil
}

// LatLon converts a coordinate stored as degrees x 1e7. Zero means the
// coordinate is missing.
func LatLon(raw Raw, _ Env) (Value, error) {
	if raw.IsZero() {
		return Empty(), nil
	}
	return Float(raw.Float64()/1e7, 7), nil
}

// Magnitude drops the sign of altitude and distance readings.
func Magnitude(raw Raw, _ Env) (Value, error) {
	return Float(math.Abs(round(raw.Float64(), 3)), 3), nil
}

// AbsTime offsets a relative millisecond counter by the file's reference
// timestamp.
func AbsTime(raw Raw, env Env) (Value, error) {
	if !env.HasRef {
		return Invalid(), nil
	}
	if raw.Kind() == RawUnsigned && raw.Uint64() > math.MaxInt64 {
		return Invalid(), nil
	}
	offset := raw.Int64()
	if (offset > 0 && env.RefMillis > math.MaxInt64-offset) || (offset < 0 && env.RefMillis < math.MinInt64-offset) {
		return Invalid(), nil
	}
	return Int(env.RefMillis + offset), nil
}

// Abs returns the magnitude of a signed reading without rounding.
func Abs(raw Raw, _ Env) (Value, error) {
	switch raw.Kind() {
	case RawFloat:
		return Float(math.Abs(raw.Float64()), 3), nil
	case RawUnsigned:
		return Uint(raw.Uint64()), nil
	default:
		v := raw.Int64()
		if v < 0 {
			return Uint(uint64(-(v + 1)) + 1), nil
		}
		return Uint(uint64(v)), nil
	}
}

// Round2 rounds a reading to two decimals.
func Round2(raw Raw, _ Env) (Value, error) {
	return Float(round(raw.Float64(), 2), 2), nil
}

// GPSLock reports whether any fix is present.
func GPSLock(raw Raw, _ Env) (Value, error) {
	if raw.Float64() > 0 {
		return Text("Yes"), nil
	}
	return Text("No"), nil
}

// Enum maps integer codes to labels. Unmapped codes render as
// "<code> Unknown".
func Enum(labels map[int64]string) Func {
	return func(raw Raw, _ Env) (Value, error) {
		code := raw.Int64()
		if label, ok := labels[code]; ok {
			return Text(label), nil
		}
		return Text(fmt.Sprintf("%d Unknown", code)), nil
	}
}

// Hex renders the raw bit pattern in hexadecimal, zero padded to digits
// (0 disables padding).
func Hex(digits int) Func {
	return func(raw Raw, _ Env) (Value, error) {
		if digits <= 0 {
			return Text(fmt.Sprintf("0x%x", raw.Uint64())), nil
		}
		return Text(fmt.Sprintf("0x%0*x", digits, raw.Uint64())), nil
	}
}
