package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
)

var ErrMalformedEntry = errors.New("malformed ledger entry")

const (
	separator  = "|"
	costPrefix = "Total Cost:"
)

// Entry is one completed sale.
type Entry struct {
	Timestamp time.Time
	TotalCost decimal.Decimal
}

// NewEntry truncates ts to the minute and keeps its wall-clock reading, so an
// entry compares equal to its parsed text form.
func NewEntry(ts time.Time, totalCost decimal.Decimal) Entry {
	return Entry{
		Timestamp: time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), 0, 0, time.UTC),
		TotalCost: totalCost,
	}
}

// String renders the entry as "yyyy-MM-dd HH:mm | Total Cost: $<amount>".
func (e Entry) String() string {
	return e.Timestamp.Format(bill.TimestampLayout) + " " + separator + " " + costPrefix + " $" + e.TotalCost.StringFixed(2)
}

// ParseEntry is the inverse of Entry.String. Amounts with any number of
// decimals are accepted.
func ParseEntry(line string) (Entry, error) {
	tsPart, costPart, ok := strings.Cut(line, separator)
	if !ok {
		return Entry{}, fmt.Errorf("%w: missing %q", ErrMalformedEntry, separator)
	}

	ts, err := time.Parse(bill.TimestampLayout, strings.TrimSpace(tsPart))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: timestamp: %w", ErrMalformedEntry, err)
	}

	costPart = strings.TrimSpace(costPart)

	amount, ok := strings.CutPrefix(costPart, costPrefix)
	if !ok {
		return Entry{}, fmt.Errorf("%w: missing %q", ErrMalformedEntry, costPrefix)
	}

	amount = strings.TrimPrefix(strings.TrimSpace(amount), "$")

	cost, err := decimal.NewFromString(amount)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: amount %q", ErrMalformedEntry, amount)
	}

	return Entry{Timestamp: ts, TotalCost: cost}, nil
}

// SkippedLine is a ledger line a lenient scan could not parse.
type SkippedLine struct {
	Number int
	Text   string
	Err    error
}

type ScanResult struct {
	Entries []Entry
	Skipped []SkippedLine
}

//go:generate mockgen -source=ledger.go -destination=store_mock.go -package=ledger

// Store is an append-only sequence of entries.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Scan(ctx context.Context) (*ScanResult, error)
}
