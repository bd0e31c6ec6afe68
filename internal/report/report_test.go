package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
	"github.com/MrJamesThe3rd/supersaver/internal/report"
)

type stubLedger struct {
	res   *ledger.ScanResult
	err   error
	calls int
}

func (s *stubLedger) Scan(context.Context) (*ledger.ScanResult, error) {
	s.calls++
	return s.res, s.err
}

func at(s string) time.Time {
	ts, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}

	return ts
}

func entries(pairs ...string) *ledger.ScanResult {
	res := &ledger.ScanResult{}
	for i := 0; i < len(pairs); i += 2 {
		res.Entries = append(res.Entries, ledger.NewEntry(at(pairs[i]), decimal.RequireFromString(pairs[i+1])))
	}

	return res
}

func TestParseRange(t *testing.T) {
	type testCase struct {
		name    string
		from    string
		to      string
		wantErr bool
	}

	tests := []testCase{
		{name: "Valid", from: "2024-01-01", to: "2024-01-31"},
		{name: "SameDay", from: "2024-01-05", to: "2024-01-05"},
		{name: "Reversed", from: "2024-02-01", to: "2024-01-01"},
		{name: "BadFrom", from: "01/01/2024", to: "2024-01-31", wantErr: true},
		{name: "BadTo", from: "2024-01-01", to: "2024-01-32", wantErr: true},
		{name: "Unpadded", from: "2024-1-1", to: "2024-01-31", wantErr: true},
		{name: "Empty", from: "", to: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := report.ParseRange(tt.from, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, report.ErrInvalidDateRange)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "00:00", rng.Start.Format("15:04"))
			assert.Equal(t, "23:59", rng.End.Format("15:04"))
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	type testCase struct {
		name        string
		ledger      *ledger.ScanResult
		from        string
		to          string
		wantEntries []string
		wantTotal   string
	}

	tests := []testCase{
		{
			name:        "January",
			ledger:      entries("2024-01-05 10:00", "50", "2024-02-01 09:00", "30"),
			from:        "2024-01-01",
			to:          "2024-01-31",
			wantEntries: []string{"2024-01-05 10:00"},
			wantTotal:   "50.00",
		},
		{
			name: "Boundaries",
			ledger: entries(
				"2023-12-31 23:59", "1",
				"2024-01-01 00:00", "2",
				"2024-01-31 23:59", "4",
				"2024-02-01 00:00", "8",
			),
			from:        "2024-01-01",
			to:          "2024-01-31",
			wantEntries: []string{"2024-01-01 00:00", "2024-01-31 23:59"},
			wantTotal:   "6.00",
		},
		{
			name:        "SameDay",
			ledger:      entries("2024-01-04 23:59", "1", "2024-01-05 08:00", "10.5", "2024-01-05 18:30", "20.25", "2024-01-06 00:00", "1"),
			from:        "2024-01-05",
			to:          "2024-01-05",
			wantEntries: []string{"2024-01-05 08:00", "2024-01-05 18:30"},
			wantTotal:   "30.75",
		},
		{
			name:      "Reversed",
			ledger:    entries("2024-01-05 10:00", "50"),
			from:      "2024-01-31",
			to:        "2024-01-01",
			wantTotal: "0.00",
		},
		{
			name:      "EmptyLedger",
			ledger:    &ledger.ScanResult{},
			from:      "2024-01-01",
			to:        "2024-01-31",
			wantTotal: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubLedger{res: tt.ledger}

			r, err := report.NewGenerator(src).Generate(context.Background(), tt.from, tt.to)
			require.NoError(t, err)

			var got []string
			for _, e := range r.Entries {
				got = append(got, e.Timestamp.Format("2006-01-02 15:04"))
			}

			assert.Equal(t, tt.wantEntries, got)
			assert.Equal(t, tt.wantTotal, r.Total.StringFixed(2))
			assert.Equal(t, 1, src.calls)
		})
	}
}

func TestGenerator_Generate_Errors(t *testing.T) {
	src := &stubLedger{res: &ledger.ScanResult{}}

	_, err := report.NewGenerator(src).Generate(context.Background(), "yesterday", "2024-01-31")
	assert.ErrorIs(t, err, report.ErrInvalidDateRange)
	assert.Zero(t, src.calls, "an invalid range must not read the ledger")

	src = &stubLedger{err: errors.New("disk")}

	_, err = report.NewGenerator(src).Generate(context.Background(), "2024-01-01", "2024-01-31")
	assert.Error(t, err)
}

func TestGenerator_Generate_CountsSkipped(t *testing.T) {
	res := entries("2024-01-05 10:00", "50")
	res.Skipped = []ledger.SkippedLine{{Number: 2, Text: "garbage", Err: ledger.ErrMalformedEntry}}

	r, err := report.NewGenerator(&stubLedger{res: res}).Generate(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Skipped)
	assert.Len(t, r.Entries, 1)
}

func TestReport_Text(t *testing.T) {
	r, err := report.NewGenerator(&stubLedger{res: entries("2024-01-05 10:00", "50", "2024-01-06 11:15", "23.5")}).
		Generate(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	want := "--- Revenue Report (2024-01-01 to 2024-01-31) ---\n" +
		"Date: 2024-01-05 10:00 | Revenue: $50.00\n" +
		"Date: 2024-01-06 11:15 | Revenue: $23.50\n" +
		"\n" +
		"Total Revenue: $73.50\n"
	assert.Equal(t, want, r.Text())

	empty, err := report.NewGenerator(&stubLedger{res: &ledger.ScanResult{}}).
		Generate(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "--- Revenue Report (2024-01-01 to 2024-01-31) ---\n\nTotal Revenue: $0.00\n", empty.Text())
}
