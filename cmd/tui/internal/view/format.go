package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const opTimeout = 30 * time.Second

// FormatMoney renders an amount with two decimals and a dollar sign.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// OpCtx returns a context with the standard timeout for ledger and report
// operations.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
