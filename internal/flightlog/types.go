package flightlog

import (
	"strings"

	"example.com/fc2csv/internal/transform"
)

// RunContext is the state of one input file. A new one is created for every
// file and passed to the decoder explicitly.
type RunContext struct {
	File      string
	RefMillis int64
	HasRef    bool
	Valid     int
	Invalid   int
}

// NewRunContext returns a context for file with the given reference time in
// milliseconds since the Unix epoch.
func NewRunContext(file string, refMillis int64) *RunContext {
	return &RunContext{File: file, RefMillis: refMillis, HasRef: true}
}

// Env exposes the inputs transforms depend on.
func (rc *RunContext) Env() transform.Env {
	if rc == nil {
		return transform.Env{}
	}
	return transform.Env{RefMillis: rc.RefMillis, HasRef: rc.HasRef}
}

// DecodedField is one named display value of a row.
type DecodedField struct {
	Name  string
	Value transform.Value
}

// Row holds the decoded fields of a record: base fields in table order,
// derived fields last.
type Row []DecodedField

// Values returns the rendered value of every field.
func (r Row) Values() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Value.String()
	}
	return out
}

// Line renders the row as one output line without the trailing newline.
func (r Row) Line() string {
	return strings.Join(r.Values(), Separator)
}

// Get returns the value of the named field.
func (r Row) Get(name string) (transform.Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return transform.Value{}, false
}

// Separator joins header names and values on an output line.
const Separator = ", "
