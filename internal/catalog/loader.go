package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/supersaver/internal/encoding"
)

// Column positions in the catalog export. Manufacturer and expiry are swapped
// relative to the header names and column 4 is unused; existing exports depend
// on this layout.
const (
	colCode         = 0
	colName         = 1
	colPrice        = 2
	colSizeOrWeight = 3
	colExpiry       = 5
	colManufacturer = 6
	colDiscount     = 7

	minFields = colDiscount + 1
)

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses a comma-separated catalog export. The first record is a header
// and is skipped. Later records with a duplicate code replace earlier ones.
func Load(r io.Reader) (*Catalog, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c := New()

	if len(rows) == 0 {
		return c, nil
	}

	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header

		item, err := parseItem(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		c.Put(item)
	}

	return c, nil
}

func parseItem(row []string) (Item, error) {
	if len(row) < minFields {
		return Item{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, minFields, len(row))
	}

	code := cell(row, colCode)
	if code == "" {
		return Item{}, fmt.Errorf("%w: empty code", ErrMalformedRecord)
	}

	for _, idx := range []int{colName, colSizeOrWeight} {
		if strings.ContainsAny(cell(row, idx), "\r\n") {
			return Item{}, fmt.Errorf("%w: line break in %q", ErrMalformedRecord, cell(row, idx))
		}
	}

	price, err := decimal.NewFromString(cell(row, colPrice))
	if err != nil {
		return Item{}, fmt.Errorf("%w: price %q", ErrMalformedRecord, cell(row, colPrice))
	}

	if price.IsNegative() {
		return Item{}, fmt.Errorf("%w: negative price %s", ErrMalformedRecord, price)
	}

	discount, err := strconv.Atoi(cell(row, colDiscount))
	if err != nil {
		return Item{}, fmt.Errorf("%w: discount %q", ErrMalformedRecord, cell(row, colDiscount))
	}

	if discount < 0 || discount > 100 {
		return Item{}, fmt.Errorf("%w: discount %d outside 0-100", ErrMalformedRecord, discount)
	}

	return Item{
		Code:            code,
		Name:            cell(row, colName),
		Price:           price,
		SizeOrWeight:    cell(row, colSizeOrWeight),
		Manufacturer:    cell(row, colManufacturer),
		Expiry:          cell(row, colExpiry),
		DiscountPercent: discount,
	}, nil
}

func cell(row []string, idx int) string {
	return strings.TrimSpace(row[idx])
}
