package smoke

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func buildCLI(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary smoke test in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not in PATH")
	}
	bin := filepath.Join(t.TempDir(), "fc2csv")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	cmd := exec.Command(goBin, "build", "-o", bin, "./cmd/fc2csv")
	cmd.Dir = repoRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build: %v\n%s", err, out)
	}
	return bin
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestExitStatus(t *testing.T) {
	bin := buildCLI(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "20230815123456-smoke.fc2")
	if err := os.WriteFile(good, make([]byte, 2*512), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	atom1 := filepath.Join(dir, "20230815123456-smoke.fc")
	if err := os.WriteFile(atom1, make([]byte, 512), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{name: "converts", args: []string{"--no-color", "--out-dir", dir, good}, code: 0, out: "2 valid records in"},
		{name: "missing", args: []string{"--no-color", filepath.Join(dir, "absent.fc2")}, code: 1, out: "does not exist."},
		{name: "atom1", args: []string{"--no-color", atom1}, code: 1, out: "can't handle Atom1"},
		{name: "quiet", args: []string{"-l", "0", "--out-dir", dir, good}, code: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(bin, tt.args...)
			out, err := cmd.CombinedOutput()
			if got := exitCode(err); got != tt.code {
				t.Fatalf("exit code = %d, want %d\n%s", got, tt.code, out)
			}
			if tt.out != "" && !bytes.Contains(out, []byte(tt.out)) {
				t.Fatalf("output missing %q:\n%s", tt.out, out)
			}
			if tt.name == "quiet" && bytes.Contains(out, []byte("valid records")) {
				t.Fatalf("info line printed at level 0:\n%s", out)
			}
		})
	}
}
