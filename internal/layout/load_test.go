package layout

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"example.com/fc2csv/internal/transform"
)

func TestAtom2TableLoads(t *testing.T) {
	table, err := Atom2()
	if err != nil {
		t.Fatalf("Atom2: %v", err)
	}
	if table.Name != "Atom2" {
		t.Fatalf("Name = %q, want Atom2", table.Name)
	}
	if len(table.Fields) != 50 {
		t.Fatalf("len(Fields) = %d, want 50", len(table.Fields))
	}
	header := table.Header()
	if len(header) != table.Columns() || len(header) != 51 {
		t.Fatalf("len(Header) = %d, Columns = %d, want 51", len(header), table.Columns())
	}
	if header[0] != "rid" || header[len(header)-1] != "Drone Mode (text)" {
		t.Fatalf("unexpected header bounds: %q ... %q", header[0], header[len(header)-1])
	}
	for _, f := range table.Fields {
		if f.End() > RecordSize {
			t.Fatalf("%s ends at %d", f.Name, f.End())
		}
		if f.Length != f.Type.Width() {
			t.Fatalf("%s length %d != width %d", f.Name, f.Length, f.Type.Width())
		}
	}
	heading := table.Fields[indexOf(t, header, "heading (deg)")]
	if heading.Type != F32 || heading.Offset != 376 || heading.Scale.Name != "angle" {
		t.Fatalf("heading spec = %+v", heading)
	}
}

func indexOf(t *testing.T, names []string, name string) int {
	t.Helper()
	for i, n := range names {
		if n == name {
			return i
		}
	}
	t.Fatalf("%q not in header", name)
	return -1
}

func TestLoadBytesRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "out of bounds",
			yaml: "fields:\n  - {name: a, type: u32, offset: 510}\n",
			want: "fields[0]: \"a\": offset+length 514 exceeds record size 512",
		},
		{
			name: "length mismatch",
			yaml: "fields:\n  - {name: a, type: u16, offset: 0, length: 4}\n",
			want: "length 4 does not match u16 width 2",
		},
		{
			name: "unknown type",
			yaml: "fields:\n  - {name: a, type: u24, offset: 0}\n",
			want: "unknown binary type",
		},
		{
			name: "unknown transform",
			yaml: "fields:\n  - {name: a, type: u8, offset: 0, transform: warp}\n",
			want: "unknown transform \"warp\"",
		},
		{
			name: "transform and multiplier",
			yaml: "fields:\n  - {name: a, type: u8, offset: 0, transform: abs, multiplier: 2}\n",
			want: "exclusive",
		},
		{
			name: "negative offset",
			yaml: "fields:\n  - {name: a, type: u8, offset: -1}\n",
			want: "negative offset",
		},
		{
			name: "missing offset",
			yaml: "fields:\n  - {name: a, type: u8}\n",
			want: "missing offset",
		},
		{
			name: "duplicate",
			yaml: "fields:\n  - {name: a, type: u8, offset: 0}\n  - {name: a, type: u8, offset: 1}\n",
			want: "fields[1]: duplicate name \"a\"",
		},
		{
			name: "overlap",
			yaml: "fields:\n  - {name: a, type: u32, offset: 0}\n  - {name: b, type: u8, offset: 2}\n",
			want: "overlap fields[0]",
		},
		{
			name: "unknown key",
			yaml: "fields:\n  - {name: a, type: u8, offset: 0, scale: 3}\n",
			want: "field scale not found",
		},
		{
			name: "record size",
			yaml: "recordSize: 256\nfields:\n  - {name: a, type: u8, offset: 0}\n",
			want: "recordSize 256 unsupported",
		},
		{
			name: "derived without label",
			yaml: "fields:\n  - {name: a, type: u8, offset: 0}\nderived:\n  - name: m\n    base: {name: b, type: u8, offset: 1}\n    flag: {name: f, type: u8, offset: 2}\n    when: Flying\n",
			want: "derived[0]: \"m\": when and label are required",
		},
		{
			name: "derived out of bounds",
			yaml: "fields:\n  - {name: a, type: u8, offset: 0}\nderived:\n  - name: m\n    base: {name: b, type: u8, offset: 512}\n    flag: {name: f, type: u8, offset: 2}\n    when: Flying\n    label: RTH\n",
			want: "derived[0]: \"m\" base",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tc.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %q, want it to contain %q", err, tc.want)
			}
		})
	}
}

func TestLoadBytesEmpty(t *testing.T) {
	if _, err := LoadBytes(nil); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
	if _, err := LoadBytes([]byte("name: x\nfields: []\n")); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestAliasMayShareBytes(t *testing.T) {
	yaml := "fields:\n  - {name: t, type: u64, offset: 5}\n  - {name: utc, type: u64, offset: 5, transform: abstime, alias: true}\n  - {name: m, type: f32, offset: 20, multiplier: 0.5}\n"
	table, err := LoadBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if !table.Fields[1].Alias || table.Fields[1].Scale.Kind != transform.ScaleFunc {
		t.Fatalf("alias field = %+v", table.Fields[1])
	}
	if table.Fields[2].Scale.Kind != transform.ScaleMultiplier || table.Fields[2].Scale.Multiplier != 0.5 {
		t.Fatalf("multiplier field = %+v", table.Fields[2])
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("name: Custom\nfields:\n  - {name: a, type: uint16, offset: 0}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Name != "Custom" || table.Fields[0].Type != U16 {
		t.Fatalf("unexpected table: %+v", table)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestBinaryTypeDecode(t *testing.T) {
	buf := []byte{0xFE, 0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00}
	tests := []struct {
		typ  BinaryType
		want string
	}{
		{U8, "254"},
		{I8, "-2"},
		{U16, "65534"},
		{I16, "-2"},
		{U32, "4294967294"},
		{I32, "-2"},
		{U64, "4294967294"},
		{I64, "4294967294"},
	}
	for _, tc := range tests {
		raw, err := tc.typ.Decode(buf)
		if err != nil {
			t.Fatalf("%s: %v", tc.typ, err)
		}
		if got := raw.Passthrough().String(); got != tc.want {
			t.Fatalf("%s decode = %s, want %s", tc.typ, got, tc.want)
		}
	}
	f := make([]byte, 8)
	bits := math.Float32bits(1.5)
	f[0], f[1], f[2], f[3] = byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24)
	raw, err := F32.Decode(f)
	if err != nil || raw.Float64() != 1.5 {
		t.Fatalf("F32 decode = %v (%v), want 1.5", raw.Float64(), err)
	}
	if _, err := U32.Decode([]byte{1, 2}); err == nil {
		t.Fatalf("expected short buffer error")
	}
	if _, err := ParseBinaryType("float64"); err != nil {
		t.Fatalf("ParseBinaryType(float64): %v", err)
	}
}

func TestFieldSpecExtractShortRecord(t *testing.T) {
	spec := FieldSpec{Name: "x", Type: U32, Offset: 4, Length: 4}
	if _, err := spec.Extract(make([]byte, 6)); err == nil {
		t.Fatalf("expected truncated field error")
	}
	if got := spec.Bytes(make([]byte, 2)); got != nil {
		t.Fatalf("Bytes past end = %v, want nil", got)
	}
}
