package flightlog

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"example.com/fc2csv/internal/common"
	"example.com/fc2csv/internal/layout"
)

// Options configures a Pipeline.
type Options struct {
	// OutDir receives the CSV files. Empty means the current directory.
	OutDir string

	// Location is the time zone of the time stamp in file names. Nil means
	// local time.
	Location *time.Location

	Rejects *common.RejectLog
	Metrics *common.Metrics
	Logger  *common.Logger
}

// Result summarises the conversion of one file.
type Result struct {
	Input        string        `json:"input"`
	Output       string        `json:"output"`
	Records      int           `json:"records"`
	Valid        int           `json:"valid"`
	Invalid      int           `json:"invalid"`
	Discarded    int           `json:"discardedBytes"`
	RefMillis    int64         `json:"refMillis"`
	Duration     time.Duration `json:"duration"`
	OutputSHA256 string        `json:"outputSha256,omitempty"`
}

// Pipeline converts flight log files into CSV files one at a time.
type Pipeline struct {
	table *layout.Table
	opts  Options
	log   *common.Logger
}

func NewPipeline(table *layout.Table, opts Options) (*Pipeline, error) {
	if table == nil || len(table.Fields) == 0 {
		return nil, layout.ErrEmptyTable
	}
	log := opts.Logger
	if log == nil {
		log = common.Default()
	}
	return &Pipeline{table: table, opts: opts, log: log}, nil
}

// Table returns the field table rows are decoded with.
func (p *Pipeline) Table() *layout.Table { return p.table }

// OutputPath returns the CSV path written for input.
func (p *Pipeline) OutputPath(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := p.opts.OutDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, stem+".csv")
}

// CheckFormat reports whether path names a supported flight log. Extensions
// are matched case-sensitively.
func CheckFormat(path string) error {
	switch filepath.Ext(path) {
	case ".fc2":
		return nil
	case ".fc":
		return ErrAtom1Unsupported
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Process converts one flight log. The CSV is written to a temporary file
// and renamed into place once every record has been read; on error no CSV is
// left behind. Returned errors are *FatalError values.
func (p *Pipeline) Process(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	res := Result{Input: path}
	if _, err := os.Stat(path); err != nil {
		return res, runFatal(path, fmt.Errorf("%s does not exist: %w", path, err))
	}
	if err := CheckFormat(path); err != nil {
		return res, runFatal(path, err)
	}
	ref, err := ParseReferenceTime(path, p.opts.Location)
	if err != nil {
		return res, fileFatal(path, err)
	}
	res.RefMillis = ref
	p.log.Infof("Parsing %s as an Atom2 log file.", path)

	in, err := os.Open(path)
	if err != nil {
		return res, fileFatal(path, err)
	}
	defer in.Close()
	if info, err := in.Stat(); err == nil {
		p.opts.Metrics.AddTotalBytes(info.Size())
	}

	out := p.OutputPath(path)
	res.Output = out
	p.log.Debugf("Creating %s.", out)
	dir := filepath.Dir(out)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fileFatal(path, fmt.Errorf("unable to create %s: %w", out, err))
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(out)+".*.tmp")
	if err != nil {
		return res, fileFatal(path, fmt.Errorf("unable to create %s: %w", out, err))
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	hasher := common.NewHasher()
	run := NewRunContext(path, ref)
	stats, err := p.Convert(ctx, in, io.MultiWriter(tmp, hasher), run)
	res.Records, res.Valid, res.Invalid, res.Discarded = stats.Records, run.Valid, run.Invalid, stats.Discarded
	if err != nil {
		return res, err
	}
	if err := tmp.Close(); err != nil {
		return res, fileFatal(path, fmt.Errorf("write %s: %w", out, err))
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return res, fileFatal(path, fmt.Errorf("write %s: %w", out, err))
	}
	committed = true
	res.OutputSHA256 = hasher.Sum()
	res.Duration = time.Since(start)
	p.opts.Metrics.IncFile()
	p.log.Infof("%d valid records in %s. %d bad records in file.", res.Valid, out, res.Invalid)
	return res, nil
}

// ConvertStats counts what Convert read.
type ConvertStats struct {
	Records   int
	Discarded int
}

// Convert decodes the records of r and writes the header and one line per
// valid record to w. Counters are kept in run.
func (p *Pipeline) Convert(ctx context.Context, r io.Reader, w io.Writer, run *RunContext) (ConvertStats, error) {
	var stats ConvertStats
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(p.table.Header(), Separator) + "\n"); err != nil {
		return stats, fileFatal(run.File, err)
	}
	record := make([]byte, layout.RecordSize)
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return stats, runFatal(run.File, err)
		}
		n, err := io.ReadFull(r, record)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			stats.Discarded = n
			p.opts.Metrics.AddBytes(int64(n))
			p.log.Debugf("Discarding %d trailing bytes of %s.", n, run.File)
			break
		}
		if err != nil {
			return stats, fileFatal(run.File, err)
		}
		stats.Records++
		row, err := Decode(record, p.table, run)
		if err != nil {
			var fatal *FatalError
			if errors.As(err, &fatal) {
				fatal.Record = index
				return stats, fatal
			}
			run.Invalid++
			p.opts.Metrics.AddRecord(layout.RecordSize, false)
			p.reject(run, index, err)
			continue
		}
		run.Valid++
		p.opts.Metrics.AddRecord(layout.RecordSize, true)
		if _, err := bw.WriteString(row.Line() + "\n"); err != nil {
			return stats, fileFatal(run.File, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return stats, fileFatal(run.File, err)
	}
	return stats, nil
}

func (p *Pipeline) reject(run *RunContext, index int, err error) {
	entry := common.RejectEntry{
		File:   run.File,
		Record: index,
		Offset: int64(index) * layout.RecordSize,
		Reason: err.Error(),
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		p.log.Warningf("Illegal value for %s. Skipping.", fe.Field)
		entry.Field = fe.Field
		entry.Reason = fe.Err.Error()
		entry.RawHex = hex.EncodeToString(fe.Raw)
	} else {
		p.log.Warningf("Record %d of %s: %v. Skipping.", index, run.File, err)
	}
	if p.opts.Rejects == nil {
		return
	}
	if err := p.opts.Rejects.Append(entry); err != nil {
		p.log.Errorf("reject log %s: %v", p.opts.Rejects.Path(), err)
	}
}
