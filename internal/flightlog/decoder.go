package flightlog

import (
	"errors"
	"fmt"

	"example.com/fc2csv/internal/layout"
	"example.com/fc2csv/internal/transform"
)

// Decode turns one record into a row using table. Fields are decoded in table
// order and decoding stops at the first failing field, which is returned as a
// *FieldError. A transform error that is fatal for the run comes back as a
// *FatalError. record is never modified.
func Decode(record []byte, table *layout.Table, run *RunContext) (Row, error) {
	env := run.Env()
	row := make(Row, 0, table.Columns())
	for _, spec := range table.Fields {
		v, err := decodeField(record, spec, env)
		if err != nil {
			return nil, wrapDecodeError(run, err)
		}
		row = append(row, DecodedField{Name: spec.Name, Value: v})
	}
	for _, d := range table.Derived {
		v, err := resolveDerived(record, d, env)
		if err != nil {
			return nil, wrapDecodeError(run, err)
		}
		row = append(row, DecodedField{Name: d.Name, Value: v})
	}
	return row, nil
}

func decodeField(record []byte, spec layout.FieldSpec, env transform.Env) (transform.Value, error) {
	view := spec.Bytes(record)
	if len(view) < spec.Length {
		return transform.Invalid(), &FieldError{Field: spec.Name, Offset: spec.Offset, Raw: view, Err: ErrShortRecord}
	}
	raw, err := spec.Type.Decode(view)
	if err != nil {
		return transform.Invalid(), &FieldError{Field: spec.Name, Offset: spec.Offset, Raw: view, Err: err}
	}
	v, err := spec.Scale.Transform(raw, env)
	if err != nil {
		return transform.Invalid(), fmt.Errorf("%s: %w", spec.Name, err)
	}
	if v.IsInvalid() {
		return v, &FieldError{Field: spec.Name, Offset: spec.Offset, Raw: view, Err: ErrInvalidValue}
	}
	return v, nil
}

func wrapDecodeError(run *RunContext, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe
	}
	file := ""
	if run != nil {
		file = run.File
	}
	return runFatal(file, err)
}

// DecodeField decodes a single field of record. Unlike Decode it reports
// the value of every field independently, which suits inspection.
func DecodeField(record []byte, spec layout.FieldSpec, run *RunContext) (transform.Value, error) {
	v, err := decodeField(record, spec, run.Env())
	if err != nil {
		return v, wrapDecodeError(run, err)
	}
	return v, nil
}

// DecodeDerived resolves one composite column of record.
func DecodeDerived(record []byte, d layout.DerivedSpec, run *RunContext) (transform.Value, error) {
	v, err := resolveDerived(record, d, run.Env())
	if err != nil {
		return v, wrapDecodeError(run, err)
	}
	return v, nil
}
