package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"example.com/fc2csv/internal/layout"
	"example.com/fc2csv/internal/transform"
)

func layoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "layout",
		Usage: "Print the active field table",
		Flags: []cli.Flag{configFlag, layoutFlag},
		Action: func(c *cli.Context) error {
			cfg, err := loadSettings(c)
			if err != nil {
				return err
			}
			table, err := cfg.Table()
			if err != nil {
				return err
			}
			return writeLayout(c.App.Writer, table)
		},
	}
}

func writeLayout(w io.Writer, table *layout.Table) error {
	fmt.Fprintf(w, "%s: %d columns, %d byte records\n", table.Name, table.Columns(), layout.RecordSize)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tTYPE\tOFFSET\tLENGTH\tTRANSFORM")
	for i, f := range table.Fields {
		name := f.Name
		if f.Alias {
			name += " (alias)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", i, name, f.Type, f.Offset, f.Length, f.Scale.Describe())
	}
	for i, d := range table.Derived {
		fmt.Fprintf(tw, "%d\t%s\tderived\t-\t-\t%s if %s and %s@%d != 0\n",
			len(table.Fields)+i, d.Name, d.Label, d.When, d.Flag.Name, d.Flag.Offset)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "transforms: %s\n", strings.Join(transform.Names(), ", "))
	return err
}
