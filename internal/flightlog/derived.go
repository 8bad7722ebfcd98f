package flightlog

import (
	"example.com/fc2csv/internal/layout"
	"example.com/fc2csv/internal/transform"
)

// resolveDerived computes a composite column. When the flag reads nonzero
// and the base label equals d.When the column shows d.Label; otherwise it
// shows the base label.
func resolveDerived(record []byte, d layout.DerivedSpec, env transform.Env) (transform.Value, error) {
	base, err := decodeField(record, d.Base, env)
	if err != nil {
		return transform.Invalid(), err
	}
	flag, err := decodeField(record, d.Flag, env)
	if err != nil {
		return transform.Invalid(), err
	}
	label := base.Label()
	if flagSet(flag) && label == d.When {
		return transform.Text(d.Label), nil
	}
	return transform.Text(label), nil
}

func flagSet(v transform.Value) bool {
	f, ok := v.Float64()
	return ok && f != 0
}
