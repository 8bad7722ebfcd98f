package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"example.com/fc2csv/internal/flightlog"
)

const digest = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func sampleSummary() *Summary {
	s := NewSummary("Atom2")
	s.Add(flightlog.Result{
		Input:        "logs/20230815123456-a.fc2",
		Output:       "out/20230815123456-a.csv",
		Records:      10,
		Valid:        9,
		Invalid:      1,
		Discarded:    100,
		OutputSHA256: digest,
		Duration:     1500 * time.Millisecond,
	}, nil)
	s.Add(flightlog.Result{Input: "logs/flight.fc2", Output: "out/flight.csv"}, errors.New("bad time stamp"))
	s.Totals.Bytes = 5220
	return s
}

func TestSummaryTotals(t *testing.T) {
	s := sampleSummary()
	want := Totals{Files: 2, Failed: 1, Records: 10, Valid: 9, Invalid: 1, Discarded: 100, Bytes: 5220}
	if diff := cmp.Diff(want, s.Totals); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"out/20230815123456-a.csv"}, s.Outputs()); diff != "" {
		t.Fatalf("outputs mismatch (-want +got):\n%s", diff)
	}
	if s.Files[1].Output != "" || s.Files[1].Error != "bad time stamp" {
		t.Fatalf("failed file = %+v", s.Files[1])
	}
	if s.Files[0].DurationMs != 1500 {
		t.Fatalf("DurationMs = %d, want 1500", s.Files[0].DurationMs)
	}
}

func TestSummaryJSONRoundTrip(t *testing.T) {
	s := sampleSummary()
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := SaveSummaryJSON(s, path); err != nil {
		t.Fatalf("SaveSummaryJSON: %v", err)
	}
	got, err := LoadSummaryJSON(path)
	if err != nil {
		t.Fatalf("LoadSummaryJSON: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveSummaryPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.pdf")
	if err := SaveSummaryPDF(sampleSummary(), path); err != nil {
		t.Fatalf("SaveSummaryPDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestDigestToQR(t *testing.T) {
	png, err := DigestToQR(" "+digest+" ", 0)
	if err != nil {
		t.Fatalf("DigestToQR: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("QR is not a PNG")
	}
	if _, err := DigestToQR("xyz", 64); err == nil {
		t.Fatalf("expected error for digest without hex digits")
	}
}
