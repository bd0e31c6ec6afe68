package bill

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/supersaver/internal/catalog"
)

// TimestampLayout is the minute-precision layout used by every persisted form
// of a bill timestamp.
const TimestampLayout = "2006-01-02 15:04"

var (
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrNoPendingBill        = errors.New("no pending bill")
	ErrMalformedPendingBill = errors.New("malformed pending bill")
)

// LineItem is an immutable snapshot of one added item.
type LineItem struct {
	Name            string
	SizeOrWeight    string
	Quantity        int
	DiscountPercent int
	UnitPrice       decimal.Decimal
	Total           decimal.Decimal

	// text is set only for lines restored without structured fields.
	text string
}

// OpaqueLine builds a line known only by its rendered text.
func OpaqueLine(text string) LineItem {
	return LineItem{text: text}
}

// Structured reports whether quantity, discount and prices are known.
func (l LineItem) Structured() bool {
	return l.text == ""
}

// String renders the line as "<name> (<size>), <qty>, <discount>%, $<total>".
func (l LineItem) String() string {
	if l.text != "" {
		return l.text
	}

	return fmt.Sprintf("%s (%s), %d, %d%%, $%s",
		l.Name, l.SizeOrWeight, l.Quantity, l.DiscountPercent, l.Total.StringFixed(2))
}

// Bill is one customer transaction.
type Bill struct {
	Cashier   string
	Customer  string
	CreatedAt time.Time

	lines         []LineItem
	totalCost     decimal.Decimal
	totalDiscount decimal.Decimal
	restored      bool
}

func New(cashier, customer string, now time.Time) *Bill {
	return &Bill{
		Cashier:   cashier,
		Customer:  customer,
		CreatedAt: now,
	}
}

// Restore rebuilds a bill from persisted state. The totals are taken as
// given, not recomputed from the lines.
func Restore(cashier, customer string, createdAt time.Time, lines []LineItem, totalCost, totalDiscount decimal.Decimal) *Bill {
	return &Bill{
		Cashier:       cashier,
		Customer:      customer,
		CreatedAt:     createdAt,
		lines:         append([]LineItem(nil), lines...),
		totalCost:     totalCost,
		totalDiscount: totalDiscount,
		restored:      true,
	}
}

// AddItem appends qty units of item using the item's current discount and
// updates the running totals.
func (b *Bill) AddItem(item catalog.Item, qty int) (LineItem, error) {
	if qty < 1 {
		return LineItem{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}

	gross := item.Price.Mul(decimal.NewFromInt(int64(qty)))
	discount := gross.Mul(decimal.New(int64(item.DiscountPercent), -2))
	total := gross.Sub(discount)

	line := LineItem{
		Name:            item.Name,
		SizeOrWeight:    item.SizeOrWeight,
		Quantity:        qty,
		DiscountPercent: item.DiscountPercent,
		UnitPrice:       item.Price,
		Total:           total,
	}

	b.lines = append(b.lines, line)
	b.totalCost = b.totalCost.Add(total)
	b.totalDiscount = b.totalDiscount.Add(discount)

	return line, nil
}

// Lines returns a copy of the line items in the order they were added.
func (b *Bill) Lines() []LineItem {
	return append([]LineItem(nil), b.lines...)
}

func (b *Bill) TotalCost() decimal.Decimal {
	return b.totalCost
}

func (b *Bill) TotalDiscount() decimal.Decimal {
	return b.totalDiscount
}

// Restored reports whether the bill was loaded from the pending slot.
func (b *Bill) Restored() bool {
	return b.restored
}

func (b *Bill) Timestamp() string {
	return b.CreatedAt.Format(TimestampLayout)
}
