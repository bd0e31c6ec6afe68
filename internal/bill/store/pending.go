package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/fsutil"
)

// ErrUnstorableBill is returned by Save when a field would break the
// one-record-per-line layout of the pending file.
var ErrUnstorableBill = errors.New("bill cannot be stored in the pending slot")

const (
	totalDiscountKey = "TotalDiscount"
	totalCostKey     = "TotalCost"

	sidecarVersion = 1
)

// Pending is the single pending-bill slot. The bill is kept in a
// comma-delimited text file; a YAML sidecar next to it carries the structured
// line fields the text format cannot hold.
type Pending struct {
	path string
	now  func() time.Time
}

func NewPending(path string) *Pending {
	return &Pending{path: path, now: time.Now}
}

// WithClock sets the clock used for the creation time of restored bills.
func (p *Pending) WithClock(now func() time.Time) *Pending {
	p.now = now
	return p
}

func (p *Pending) Path() string { return p.path }

func (p *Pending) sidecarPath() string { return p.path + ".yaml" }

type sidecar struct {
	Version  int           `yaml:"version"`
	SavedAt  time.Time     `yaml:"saved_at"`
	Cashier  string        `yaml:"cashier"`
	Customer string        `yaml:"customer"`
	Lines    []sidecarLine `yaml:"lines"`
}

type sidecarLine struct {
	Name            string `yaml:"name"`
	SizeOrWeight    string `yaml:"size_or_weight"`
	Quantity        int    `yaml:"quantity"`
	DiscountPercent int    `yaml:"discount_percent"`
	UnitPrice       string `yaml:"unit_price"`
	Total           string `yaml:"total"`
}

// Save replaces the pending slot with b.
func (p *Pending) Save(b *bill.Bill) error {
	if strings.Contains(b.Cashier, ",") || strings.ContainsAny(b.Cashier+b.Customer, "\r\n") {
		return fmt.Errorf("%w: cashier %q, customer %q", ErrUnstorableBill, b.Cashier, b.Customer)
	}

	var sb strings.Builder

	sb.WriteString(b.Cashier + "," + b.Customer + "\n")

	lines := b.Lines()
	for i, l := range lines {
		text := l.String()
		if strings.ContainsAny(text, "\r\n") {
			return fmt.Errorf("%w: line %d contains a line break: %q", ErrUnstorableBill, i+1, text)
		}

		sb.WriteString(text + "\n")
	}

	sb.WriteString(totalDiscountKey + "," + b.TotalDiscount().String() + "\n")
	sb.WriteString(totalCostKey + "," + b.TotalCost().String() + "\n")

	if err := fsutil.WriteFileAtomic(p.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write pending bill: %w", err)
	}

	meta, ok := p.buildSidecar(b, lines)
	if !ok {
		// Restored legacy lines have no structured fields to record.
		if err := removeIfExists(p.sidecarPath()); err != nil {
			return fmt.Errorf("remove stale pending sidecar: %w", err)
		}

		return nil
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode pending sidecar: %w", err)
	}

	if err := fsutil.WriteFileAtomic(p.sidecarPath(), data, 0o644); err != nil {
		return fmt.Errorf("write pending sidecar: %w", err)
	}

	return nil
}

func (p *Pending) buildSidecar(b *bill.Bill, lines []bill.LineItem) (sidecar, bool) {
	meta := sidecar{
		Version:  sidecarVersion,
		SavedAt:  p.now(),
		Cashier:  b.Cashier,
		Customer: b.Customer,
		Lines:    make([]sidecarLine, 0, len(lines)),
	}

	for _, l := range lines {
		if !l.Structured() {
			return sidecar{}, false
		}

		meta.Lines = append(meta.Lines, sidecarLine{
			Name:            l.Name,
			SizeOrWeight:    l.SizeOrWeight,
			Quantity:        l.Quantity,
			DiscountPercent: l.DiscountPercent,
			UnitPrice:       l.UnitPrice.String(),
			Total:           l.Total.String(),
		})
	}

	return meta, true
}

// Load restores the pending bill. It returns bill.ErrNoPendingBill when the
// slot is empty and bill.ErrMalformedPendingBill when its content cannot be
// parsed.
func (p *Pending) Load() (*bill.Bill, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, bill.ErrNoPendingBill
		}

		return nil, fmt.Errorf("read pending bill: %w", err)
	}

	records := splitRecords(string(data))
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", bill.ErrMalformedPendingBill)
	}

	// Header, zero or more lines, then the two totals as the last records.
	if len(records) < 3 {
		return nil, fmt.Errorf("%w: missing totals", bill.ErrMalformedPendingBill)
	}

	cashier, customer, _ := strings.Cut(records[0], ",")

	n := len(records)

	totalDiscount, err := parseTotal(records[n-2], totalDiscountKey, n-1)
	if err != nil {
		return nil, err
	}

	totalCost, err := parseTotal(records[n-1], totalCostKey, n)
	if err != nil {
		return nil, err
	}

	texts := records[1 : n-2]

	lines := p.restoreLines(cashier, customer, texts)

	return bill.Restore(cashier, customer, p.now(), lines, totalCost, totalDiscount), nil
}

// restoreLines pairs the rendered lines with the sidecar when both agree,
// falling back to opaque lines otherwise.
func (p *Pending) restoreLines(cashier, customer string, texts []string) []bill.LineItem {
	opaque := make([]bill.LineItem, len(texts))
	for i, text := range texts {
		opaque[i] = bill.OpaqueLine(text)
	}

	data, err := os.ReadFile(p.sidecarPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("ignoring unreadable pending sidecar", "path", p.sidecarPath(), "error", err)
		}

		return opaque
	}

	var meta sidecar
	if err := yaml.Unmarshal(data, &meta); err != nil {
		slog.Warn("ignoring malformed pending sidecar", "path", p.sidecarPath(), "error", err)
		return opaque
	}

	if meta.Cashier != cashier || meta.Customer != customer || len(meta.Lines) != len(texts) {
		slog.Warn("ignoring pending sidecar that does not match the bill", "path", p.sidecarPath())
		return opaque
	}

	lines := make([]bill.LineItem, len(texts))

	for i, m := range meta.Lines {
		unit, err := decimal.NewFromString(m.UnitPrice)
		if err != nil {
			return opaque
		}

		total, err := decimal.NewFromString(m.Total)
		if err != nil {
			return opaque
		}

		line := bill.LineItem{
			Name:            m.Name,
			SizeOrWeight:    m.SizeOrWeight,
			Quantity:        m.Quantity,
			DiscountPercent: m.DiscountPercent,
			UnitPrice:       unit,
			Total:           total,
		}

		if line.String() != texts[i] {
			slog.Warn("ignoring pending sidecar that does not match the bill", "path", p.sidecarPath(), "line", i+1)
			return opaque
		}

		lines[i] = line
	}

	return lines
}

// Clear empties the slot. Clearing an empty slot is not an error.
func (p *Pending) Clear() error {
	if err := removeIfExists(p.path); err != nil {
		return fmt.Errorf("remove pending bill: %w", err)
	}

	if err := removeIfExists(p.sidecarPath()); err != nil {
		return fmt.Errorf("remove pending sidecar: %w", err)
	}

	return nil
}

func parseTotal(rec, key string, recNo int) (decimal.Decimal, error) {
	k, value, ok := strings.Cut(rec, ",")
	if !ok || k != key {
		return decimal.Decimal{}, fmt.Errorf("%w: record %d: want %s, got %q", bill.ErrMalformedPendingBill, recNo, key, rec)
	}

	total, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: record %d: %s %q", bill.ErrMalformedPendingBill, recNo, key, value)
	}

	return total, nil
}

func splitRecords(s string) []string {
	var records []string

	for _, rec := range strings.Split(s, "\n") {
		rec = strings.TrimRight(rec, "\r")
		if rec == "" {
			continue
		}

		records = append(records, rec)
	}

	return records
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
