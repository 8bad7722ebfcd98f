package report

import (
	"encoding/json"
	"os"
	"time"

	"example.com/fc2csv/internal/flightlog"
)

// FileSummary is the conversion outcome of one input file.
type FileSummary struct {
	Input        string `json:"input"`
	Output       string `json:"output,omitempty"`
	Records      int    `json:"records"`
	Valid        int    `json:"valid"`
	Invalid      int    `json:"invalid"`
	Discarded    int    `json:"discardedBytes"`
	OutputSHA256 string `json:"outputSha256,omitempty"`
	DurationMs   int64  `json:"durationMs"`
	Error        string `json:"error,omitempty"`
}

// Totals sums the per-file counts.
type Totals struct {
	Files     int   `json:"files"`
	Failed    int   `json:"failed"`
	Records   int   `json:"records"`
	Valid     int   `json:"valid"`
	Invalid   int   `json:"invalid"`
	Discarded int   `json:"discardedBytes"`
	Bytes     int64 `json:"bytes"`
}

// Summary describes one fc2csv invocation.
type Summary struct {
	CreatedAt time.Time     `json:"createdAt"`
	Layout    string        `json:"layout"`
	Files     []FileSummary `json:"files"`
	Totals    Totals        `json:"totals"`
}

func NewSummary(layoutName string) *Summary {
	return &Summary{CreatedAt: time.Now().UTC(), Layout: layoutName}
}

// Add records the result of converting one file. err is the fatal error
// that stopped the file, if any.
func (s *Summary) Add(res flightlog.Result, err error) {
	fs := FileSummary{
		Input:        res.Input,
		Output:       res.Output,
		Records:      res.Records,
		Valid:        res.Valid,
		Invalid:      res.Invalid,
		Discarded:    res.Discarded,
		OutputSHA256: res.OutputSHA256,
		DurationMs:   res.Duration.Milliseconds(),
	}
	s.Totals.Files++
	if err != nil {
		fs.Output = ""
		fs.OutputSHA256 = ""
		fs.Error = err.Error()
		s.Totals.Failed++
	}
	s.Totals.Records += fs.Records
	s.Totals.Valid += fs.Valid
	s.Totals.Invalid += fs.Invalid
	s.Totals.Discarded += fs.Discarded
	s.Files = append(s.Files, fs)
}

// Outputs returns the CSV files that were written.
func (s *Summary) Outputs() []string {
	var out []string
	for _, f := range s.Files {
		if f.Error == "" && f.Output != "" {
			out = append(out, f.Output)
		}
	}
	return out
}

func SaveSummaryJSON(s *Summary, out string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func LoadSummaryJSON(path string) (*Summary, error) {
	var s Summary
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
