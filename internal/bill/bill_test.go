package bill_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/catalog"
)

var created = time.Date(2024, 1, 5, 10, 0, 42, 0, time.UTC)

func item(code, name string, price string, discount int) catalog.Item {
	return catalog.Item{
		Code:            code,
		Name:            name,
		Price:           decimal.RequireFromString(price),
		SizeOrWeight:    "1kg",
		DiscountPercent: discount,
	}
}

func TestBill_AddItem_Scenario(t *testing.T) {
	b := bill.New("Nimal", "Kamal", created)

	line, err := b.AddItem(item("A1", "Rice", "10.00", 10), 2)
	require.NoError(t, err)
	assert.Equal(t, "18.00", line.Total.StringFixed(2))
	assert.Equal(t, "2.00", b.TotalDiscount().StringFixed(2))

	_, err = b.AddItem(item("B2", "Soap", "5.00", 0), 1)
	require.NoError(t, err)

	assert.Equal(t, "23.00", b.TotalCost().StringFixed(2))
	assert.Equal(t, "2.00", b.TotalDiscount().StringFixed(2))
	assert.Len(t, b.Lines(), 2)
}

func TestBill_AddItem_InvalidQuantity(t *testing.T) {
	for _, qty := range []int{0, -1, -20} {
		b := bill.New("Nimal", "", created)

		_, err := b.AddItem(item("A1", "Rice", "10.00", 10), qty)
		assert.ErrorIs(t, err, bill.ErrInvalidQuantity)
		assert.Empty(t, b.Lines())
		assert.True(t, b.TotalCost().IsZero())
	}
}

func TestBill_AddItem_SnapshotsDiscount(t *testing.T) {
	c := catalog.New()
	c.Put(item("A1", "Rice", "10.00", 10))

	b := bill.New("Nimal", "", created)
	a1, _ := c.Lookup("A1")
	_, err := b.AddItem(a1, 1)
	require.NoError(t, err)

	// Discount changes after the line was added must not leak into it.
	c.Put(item("A1", "Rice", "10.00", 50))

	assert.Equal(t, "9.00", b.TotalCost().StringFixed(2))
	assert.Equal(t, "1.00", b.TotalDiscount().StringFixed(2))
	assert.Equal(t, 10, b.Lines()[0].DiscountPercent)
}

func TestBill_AddItem_TotalsMatchSum(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := bill.New("Nimal", "", created)

	wantCost := decimal.Zero
	wantDiscount := decimal.Zero
	hundred := decimal.NewFromInt(100)

	for range 200 {
		price := decimal.New(rng.Int64N(100000), -2)
		discount := rng.IntN(101)
		qty := rng.IntN(12) + 1

		_, err := b.AddItem(catalog.Item{Code: "X", Name: "X", Price: price, DiscountPercent: discount}, qty)
		require.NoError(t, err)

		gross := price.Mul(decimal.NewFromInt(int64(qty)))
		d := decimal.NewFromInt(int64(discount))
		wantCost = wantCost.Add(gross.Mul(hundred.Sub(d)).Div(hundred))
		wantDiscount = wantDiscount.Add(gross.Mul(d).Div(hundred))
	}

	assert.True(t, wantCost.Equal(b.TotalCost()), "cost %s != %s", wantCost, b.TotalCost())
	assert.True(t, wantDiscount.Equal(b.TotalDiscount()), "discount %s != %s", wantDiscount, b.TotalDiscount())
}

func TestLineItem_String(t *testing.T) {
	b := bill.New("Nimal", "", created)
	line, err := b.AddItem(item("A1", "Rice", "10.00", 10), 2)
	require.NoError(t, err)

	assert.True(t, line.Structured())
	assert.Equal(t, "Rice (1kg), 2, 10%, $18.00", line.String())

	opaque := bill.OpaqueLine("Rice (1kg), 2, 10%, $18.0")
	assert.False(t, opaque.Structured())
	assert.Equal(t, "Rice (1kg), 2, 10%, $18.0", opaque.String())
}

func TestBill_Render(t *testing.T) {
	b := bill.New("Nimal", "Kamal", created)
	_, err := b.AddItem(item("A1", "Rice", "10.00", 10), 2)
	require.NoError(t, err)
	_, err = b.AddItem(item("B2", "Soap", "5.00", 0), 1)
	require.NoError(t, err)

	want := "Super-Saving Supermarket\n" +
		"Bill Receipt\n" +
		"Cashier: Nimal\n" +
		"Customer: Kamal\n" +
		"Date: 2024-01-05 10:00\n" +
		"\n" +
		"Item (Size/Weight), Quantity, Discount, Final Price\n" +
		"Rice (1kg), 2, 10%, $18.00\n" +
		"Soap (1kg), 1, 0%, $5.00\n" +
		"\n" +
		"Total Discount: $2.00\n" +
		"Total Cost: $23.00\n" +
		bill.Separator + "\n"

	assert.Equal(t, want, b.Render("Super-Saving Supermarket"))
}

func TestRestore(t *testing.T) {
	lines := []bill.LineItem{bill.OpaqueLine("Rice (1kg), 2, 10%, $18.00")}
	b := bill.Restore("Nimal", "", created, lines, decimal.RequireFromString("18"), decimal.RequireFromString("2"))

	assert.True(t, b.Restored())
	assert.Equal(t, "18.00", b.TotalCost().StringFixed(2))

	_, err := b.AddItem(item("B2", "Soap", "5.00", 0), 1)
	require.NoError(t, err)
	assert.Equal(t, "23.00", b.TotalCost().StringFixed(2))
	assert.Len(t, b.Lines(), 2)
}
