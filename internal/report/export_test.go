package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/supersaver/internal/report"
)

func TestParseFormats(t *testing.T) {
	got, err := report.ParseFormats(" txt, XLSX ,pdf,")
	require.NoError(t, err)
	assert.Equal(t, []report.Format{report.FormatText, report.FormatXLSX, report.FormatPDF}, got)

	got, err = report.ParseFormats("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = report.ParseFormats("txt,docx")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	r, err := report.NewGenerator(&stubLedger{res: entries("2024-01-05 10:00", "50")}).
		Generate(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	base := filepath.Join(t.TempDir(), "revenue_report_summary.txt")
	require.NoError(t, os.WriteFile(base, []byte("stale content from an earlier report\n"), 0o644))

	paths, err := report.Export(r, base, []report.Format{report.FormatXLSX, report.FormatPDF, report.FormatXLSX})
	require.NoError(t, err)

	stem := filepath.Join(filepath.Dir(base), "revenue_report_summary")
	assert.Equal(t, []string{base, stem + ".xlsx", stem + ".pdf"}, paths)

	text, err := os.ReadFile(base)
	require.NoError(t, err)
	assert.Equal(t, r.Text(), string(text), "report file is replaced, never appended")

	pdf, err := os.ReadFile(stem + ".pdf")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	wb, err := excelize.OpenFile(stem + ".xlsx")
	require.NoError(t, err)
	defer wb.Close()

	from, err := wb.GetCellValue("summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", from)

	date, err := wb.GetCellValue("entries", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05 10:00", date)
}

func TestExport_TextOnly(t *testing.T) {
	r, err := report.NewGenerator(&stubLedger{res: entries()}).
		Generate(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	base := filepath.Join(t.TempDir(), "report.txt")

	paths, err := report.Export(r, base, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{base}, paths)
}
