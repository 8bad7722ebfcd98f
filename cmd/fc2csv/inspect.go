package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"example.com/fc2csv/internal/flightlog"
	"example.com/fc2csv/internal/layout"
	"example.com/fc2csv/internal/transform"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the decoded fields of one record",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			configFlag,
			layoutFlag,
			timezoneFlag,
			&cli.IntFlag{
				Name:    "record",
				Aliases: []string{"r"},
				Usage:   "zero-based record index",
			},
		},
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("inspect needs exactly one FILE")
	}
	path := c.Args().First()
	index := c.Int("record")
	if index < 0 {
		return fmt.Errorf("invalid record index %d", index)
	}
	cfg, err := loadSettings(c)
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	record, err := readRecord(path, index)
	if err != nil {
		return err
	}
	run := &flightlog.RunContext{File: path}
	if ref, err := flightlog.ParseReferenceTime(path, loc); err == nil {
		run.RefMillis, run.HasRef = ref, true
	} else {
		fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
	}
	return writeInspection(c.App.Writer, table, record, index, run)
}

func readRecord(path string, index int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	record := make([]byte, layout.RecordSize)
	n, err := f.ReadAt(record, int64(index)*layout.RecordSize)
	if err == io.EOF && n > 0 {
		return record[:n], nil
	}
	if err != nil {
		return nil, fmt.Errorf("record %d of %s: %w", index, path, err)
	}
	return record, nil
}

func writeInspection(w io.Writer, table *layout.Table, record []byte, index int, run *flightlog.RunContext) error {
	fmt.Fprintf(w, "%s record %d (offset %d, %d bytes)\n", run.File, index, int64(index)*layout.RecordSize, len(record))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tOFFSET\tTYPE\tRAW\tVALUE")
	for _, f := range table.Fields {
		v, err := flightlog.DecodeField(record, f, run)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", f.Name, f.Offset, f.Type, hex.EncodeToString(f.Bytes(record)), displayValue(v, err))
	}
	for _, d := range table.Derived {
		v, err := flightlog.DecodeDerived(record, d, run)
		fmt.Fprintf(tw, "%s\t-\tderived\t-\t%s\n", d.Name, displayValue(v, err))
	}
	return tw.Flush()
}

func displayValue(v transform.Value, err error) string {
	if err != nil {
		return "! " + err.Error()
	}
	if v.Kind() == transform.KindEmpty {
		return "(empty)"
	}
	return v.String()
}
