package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"
)

const qrSizeMM = 22.0

// SaveSummaryPDF renders the conversion summary into a PDF document. Every
// converted file gets a QR code of its CSV digest.
func SaveSummaryPDF(s *Summary, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Flight Log Conversion", false)
	pdf.SetAuthor("fc2csv", false)
	pdf.SetCreator("fc2csv", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, "Flight Log Conversion")
	addTotalsSection(pdf, s)
	addFilesTable(pdf, s.Files)
	if err := addDigestSection(pdf, s.Files); err != nil {
		return err
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addTotalsSection(pdf *gofpdf.Fpdf, s *Summary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Created", value: s.CreatedAt.Format(time.RFC3339)},
		{label: "Layout", value: emptyFallback(s.Layout, "-")},
		{label: "Files", value: fmt.Sprintf("%d (%d failed)", s.Totals.Files, s.Totals.Failed)},
		{label: "Records", value: humanize.Comma(int64(s.Totals.Records))},
		{label: "Valid", value: humanize.Comma(int64(s.Totals.Valid))},
		{label: "Bad", value: humanize.Comma(int64(s.Totals.Invalid))},
		{label: "Discarded", value: humanize.IBytes(uint64(s.Totals.Discarded))},
		{label: "Input read", value: humanize.IBytes(uint64(s.Totals.Bytes))},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addFilesTable(pdf *gofpdf.Fpdf, files []FileSummary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Files")
	pdf.Ln(9)

	headers := []string{"Input", "Output", "Valid", "Bad", "Tail", "Status"}
	widths := []float64{50, 50, 20, 16, 16, 28}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, f := range files {
		values := []string{
			filepath.Base(f.Input),
			emptyFallback(filepath.Base(f.Output), "-"),
			strconv.Itoa(f.Valid),
			strconv.Itoa(f.Invalid),
			strconv.Itoa(f.Discarded),
			statusLabel(f),
		}
		renderTableRow(pdf, widths, values, 5)
	}
	pdf.Ln(4)
}

func addDigestSection(pdf *gofpdf.Fpdf, files []FileSummary) error {
	var done []FileSummary
	for _, f := range files {
		if f.Error == "" && f.OutputSHA256 != "" {
			done = append(done, f)
		}
	}
	if len(done) == 0 {
		return nil
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Output Digests")
	pdf.Ln(9)
	for i, f := range done {
		png, err := DigestToQR(f.OutputSHA256, 256)
		if err != nil {
			return fmt.Errorf("qr for %s: %w", f.Output, err)
		}
		name := fmt.Sprintf("digest-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		if pdf.GetY()+qrSizeMM > 277 {
			pdf.AddPage()
		}
		x, y := pdf.GetX(), pdf.GetY()
		pdf.ImageOptions(name, x, y, qrSizeMM, qrSizeMM, false, opts, 0, "")
		pdf.SetXY(x+qrSizeMM+4, y+4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, filepath.Base(f.Output), "", 2, "L", false, 0, "")
		pdf.SetFont("Courier", "", 8)
		pdf.CellFormat(0, 5, "sha256 "+f.OutputSHA256, "", 2, "L", false, 0, "")
		pdf.SetXY(x, y+qrSizeMM+3)
	}
	return nil
}

func renderTableRow(pdf *gofpdf.Fpdf, widths []float64, values []string, lineHeight float64) {
	xStart := pdf.GetX()
	yStart := pdf.GetY()
	maxLines := 1
	splitCols := make([][]string, len(values))
	for i, val := range values {
		text := strings.TrimSpace(val)
		if text == "" {
			text = "-"
		}
		lines := pdf.SplitText(text, widths[i]-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		splitCols[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines) * lineHeight
	x := xStart
	for i, lines := range splitCols {
		pdf.SetXY(x, yStart)
		pdf.MultiCell(widths[i], lineHeight, strings.Join(lines, "\n"), "1", "L", false)
		x += widths[i]
	}
	pdf.SetXY(xStart, yStart+rowHeight)
}

func statusLabel(f FileSummary) string {
	if f.Error != "" {
		return "FAILED"
	}
	return "OK"
}

func emptyFallback(val, fallback string) string {
	if strings.TrimSpace(val) == "" || val == "." {
		return fallback
	}
	return val
}
