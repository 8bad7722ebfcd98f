package layout

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/fc2csv/internal/transform"
)

//go:embed atom2.yaml
var atom2YAML []byte

var (
	ErrEmptyTable = errors.New("layout has no fields")
)

// File is the YAML form of a Table.
type File struct {
	Name       string        `yaml:"name"`
	RecordSize int           `yaml:"recordSize"`
	Fields     []FileField   `yaml:"fields"`
	Derived    []FileDerived `yaml:"derived"`
}

type FileField struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Offset     *int     `yaml:"offset"`
	Length     int      `yaml:"length,omitempty"`
	Transform  string   `yaml:"transform,omitempty"`
	Multiplier *float64 `yaml:"multiplier,omitempty"`
	Alias      bool     `yaml:"alias,omitempty"`
}

type FileDerived struct {
	Name  string    `yaml:"name"`
	Base  FileField `yaml:"base"`
	Flag  FileField `yaml:"flag"`
	When  string    `yaml:"when"`
	Label string    `yaml:"label"`
}

// Atom2 returns the built-in Atom2 table.
func Atom2() (*Table, error) {
	return LoadBytes(atom2YAML)
}

// Load reads and validates a table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return t, nil
}

// LoadBytes parses a YAML table. Unknown keys are rejected.
func LoadBytes(data []byte) (*Table, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return FromFile(file)
}

// FromFile validates file in a single pass and builds the Table.
func FromFile(file File) (*Table, error) {
	if file.RecordSize != 0 && file.RecordSize != RecordSize {
		return nil, fmt.Errorf("recordSize %d unsupported (want %d)", file.RecordSize, RecordSize)
	}
	if len(file.Fields) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{Name: strings.TrimSpace(file.Name)}
	if t.Name == "" {
		t.Name = "unnamed"
	}
	names := make(map[string]int)
	for i, entry := range file.Fields {
		spec, err := buildField(entry)
		if err != nil {
			return nil, fmt.Errorf("fields[%d]: %w", i, err)
		}
		if prev, exists := names[spec.Name]; exists {
			return nil, fmt.Errorf("fields[%d]: duplicate name %q (also fields[%d])", i, spec.Name, prev)
		}
		if !spec.Alias {
			for j, other := range t.Fields {
				if spec.Overlaps(other) {
					return nil, fmt.Errorf("fields[%d]: %q bytes [%d,%d) overlap fields[%d] %q without alias", i, spec.Name, spec.Offset, spec.End(), j, other.Name)
				}
			}
		}
		names[spec.Name] = i
		t.Fields = append(t.Fields, spec)
	}
	for i, entry := range file.Derived {
		d, err := buildDerived(entry)
		if err != nil {
			return nil, fmt.Errorf("derived[%d]: %w", i, err)
		}
		if _, exists := names[d.Name]; exists {
			return nil, fmt.Errorf("derived[%d]: duplicate name %q", i, d.Name)
		}
		names[d.Name] = len(file.Fields) + i
		t.Derived = append(t.Derived, d)
	}
	return t, nil
}

func buildField(entry FileField) (FieldSpec, error) {
	var spec FieldSpec
	spec.Name = strings.TrimSpace(entry.Name)
	if spec.Name == "" {
		return spec, errors.New("missing name")
	}
	typ, err := ParseBinaryType(entry.Type)
	if err != nil {
		return spec, fmt.Errorf("%q: %w", spec.Name, err)
	}
	spec.Type = typ
	if entry.Offset == nil {
		return spec, fmt.Errorf("%q: missing offset", spec.Name)
	}
	spec.Offset = *entry.Offset
	if spec.Offset < 0 {
		return spec, fmt.Errorf("%q: negative offset %d", spec.Name, spec.Offset)
	}
	spec.Length = typ.Width()
	if entry.Length != 0 && entry.Length != spec.Length {
		return spec, fmt.Errorf("%q: length %d does not match %s width %d", spec.Name, entry.Length, typ, spec.Length)
	}
	if spec.End() > RecordSize {
		return spec, fmt.Errorf("%q: offset+length %d exceeds record size %d", spec.Name, spec.End(), RecordSize)
	}
	name := strings.TrimSpace(entry.Transform)
	switch {
	case name != "" && entry.Multiplier != nil:
		return spec, fmt.Errorf("%q: transform and multiplier are exclusive", spec.Name)
	case name != "":
		spec.Scale, err = transform.Named(name)
		if err != nil {
			return spec, fmt.Errorf("%q: %w", spec.Name, err)
		}
	case entry.Multiplier != nil:
		spec.Scale = transform.Multiply(*entry.Multiplier)
	default:
		spec.Scale = transform.None()
	}
	spec.Alias = entry.Alias
	return spec, nil
}

func buildDerived(entry FileDerived) (DerivedSpec, error) {
	var d DerivedSpec
	d.Name = strings.TrimSpace(entry.Name)
	if d.Name == "" {
		return d, errors.New("missing name")
	}
	base, err := buildField(entry.Base)
	if err != nil {
		return d, fmt.Errorf("%q base: %w", d.Name, err)
	}
	flag, err := buildField(entry.Flag)
	if err != nil {
		return d, fmt.Errorf("%q flag: %w", d.Name, err)
	}
	d.Base, d.Flag = base, flag
	d.When = strings.TrimSpace(entry.When)
	d.Label = strings.TrimSpace(entry.Label)
	if d.When == "" || d.Label == "" {
		return d, fmt.Errorf("%q: when and label are required", d.Name)
	}
	return d, nil
}
