package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/fsutil"
)

type Format string

const (
	FormatText Format = "txt"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormats reads a comma-separated list such as "txt,xlsx".
func ParseFormats(s string) ([]Format, error) {
	var formats []Format

	for part := range strings.SplitSeq(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))

		switch f {
		case "":
			continue
		case FormatText, FormatXLSX, FormatPDF:
			formats = append(formats, f)
		default:
			return nil, fmt.Errorf("unknown report format %q", part)
		}
	}

	return formats, nil
}

// Export regenerates the text report at basePath and writes the requested
// extra formats next to it, named after basePath. It returns every path
// written, text first.
func Export(r *Report, basePath string, formats []Format) ([]string, error) {
	if err := fsutil.WriteFileAtomic(basePath, []byte(r.Text()), 0o644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	paths := []string{basePath}
	stem := strings.TrimSuffix(basePath, filepath.Ext(basePath))
	done := map[Format]bool{FormatText: true}

	for _, f := range formats {
		if done[f] {
			continue
		}

		done[f] = true

		var (
			data []byte
			err  error
		)

		switch f {
		case FormatXLSX:
			data, err = BuildXLSX(r)
		case FormatPDF:
			data, err = BuildPDF(r)
		default:
			return paths, fmt.Errorf("unknown report format %q", f)
		}

		if err != nil {
			return paths, fmt.Errorf("render %s report: %w", f, err)
		}

		path := stem + "." + string(f)
		if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s report: %w", f, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// BuildXLSX renders the report as a workbook with a summary and an entries
// sheet.
func BuildXLSX(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	entriesSheet := "entries"

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(entriesSheet); err != nil {
		return nil, err
	}

	total, _ := r.Total.Round(2).Float64()

	_ = f.SetCellValue(summarySheet, "A1", "Revenue Report")
	_ = f.SetCellValue(summarySheet, "A3", "From")
	_ = f.SetCellValue(summarySheet, "B3", r.From)
	_ = f.SetCellValue(summarySheet, "A4", "To")
	_ = f.SetCellValue(summarySheet, "B4", r.To)
	_ = f.SetCellValue(summarySheet, "A5", "Sales")
	_ = f.SetCellValue(summarySheet, "B5", len(r.Entries))
	_ = f.SetCellValue(summarySheet, "A6", "Total Revenue")
	_ = f.SetCellValue(summarySheet, "B6", total)

	_ = f.SetCellValue(entriesSheet, "A1", "Date")
	_ = f.SetCellValue(entriesSheet, "B1", "Revenue")

	for i, e := range r.Entries {
		row := i + 2
		amount, _ := e.TotalCost.Round(2).Float64()

		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("A%d", row), e.Timestamp.Format(bill.TimestampLayout))
		_ = f.SetCellValue(entriesSheet, fmt.Sprintf("B%d", row), amount)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// BuildPDF renders the report as a single-table PDF.
func BuildPDF(r *Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Revenue Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", r.From, r.To))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Revenue", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)

	for _, e := range r.Entries {
		pdf.CellFormat(60, 6, e.Timestamp.Format(bill.TimestampLayout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "$"+e.TotalCost.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, "Total Revenue", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "$"+r.Total.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
