package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
)

const DateLayout = "2006-01-02"

var ErrInvalidDateRange = errors.New("invalid date range")

// Range is an inclusive window from the first minute of From to the last
// minute of To.
type Range struct {
	From  string
	To    string
	Start time.Time
	End   time.Time
}

// ParseRange accepts two yyyy-MM-dd dates. From after To is valid and
// matches nothing.
func ParseRange(from, to string) (Range, error) {
	start, err := time.Parse(DateLayout, strings.TrimSpace(from))
	if err != nil {
		return Range{}, fmt.Errorf("%w: from %q", ErrInvalidDateRange, from)
	}

	end, err := time.Parse(DateLayout, strings.TrimSpace(to))
	if err != nil {
		return Range{}, fmt.Errorf("%w: to %q", ErrInvalidDateRange, to)
	}

	return Range{
		From:  strings.TrimSpace(from),
		To:    strings.TrimSpace(to),
		Start: start,
		End:   end.Add(23*time.Hour + 59*time.Minute),
	}, nil
}

func (r Range) Contains(ts time.Time) bool {
	return !ts.Before(r.Start) && !ts.After(r.End)
}

type Report struct {
	Range

	Entries []ledger.Entry
	Total   decimal.Decimal
	Skipped int
}

// Text renders the report summary file.
func (r *Report) Text() string {
	var sb strings.Builder

	sb.WriteString("--- Revenue Report (" + r.From + " to " + r.To + ") ---\n")

	for _, e := range r.Entries {
		sb.WriteString("Date: " + e.Timestamp.Format(bill.TimestampLayout) + " | Revenue: $" + e.TotalCost.StringFixed(2) + "\n")
	}

	sb.WriteString("\nTotal Revenue: $" + r.Total.StringFixed(2) + "\n")

	return sb.String()
}

// LedgerScanner reads the whole revenue ledger.
type LedgerScanner interface {
	Scan(ctx context.Context) (*ledger.ScanResult, error)
}

type Generator struct {
	ledger LedgerScanner
}

func NewGenerator(l LedgerScanner) *Generator {
	return &Generator{ledger: l}
}

// Generate filters the ledger to the range and totals the retained entries.
// The ledger is only read.
func (g *Generator) Generate(ctx context.Context, from, to string) (*Report, error) {
	rng, err := ParseRange(from, to)
	if err != nil {
		return nil, err
	}

	res, err := g.ledger.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("read revenue ledger: %w", err)
	}

	r := &Report{
		Range:   rng,
		Total:   decimal.Zero,
		Skipped: len(res.Skipped),
	}

	for _, e := range res.Entries {
		if !rng.Contains(e.Timestamp) {
			continue
		}

		r.Entries = append(r.Entries, e)
		r.Total = r.Total.Add(e.TotalCost)
	}

	return r, nil
}
