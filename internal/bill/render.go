package bill

import (
	"strings"
)

// Separator terminates every receipt in the finalized-bills file.
const Separator = "-----------------------------------------------------"

const lineHeader = "Item (Size/Weight), Quantity, Discount, Final Price"

// Render produces the printed receipt, terminated by Separator and a newline.
func (b *Bill) Render(storeName string) string {
	var sb strings.Builder

	sb.WriteString(storeName + "\n")
	sb.WriteString("Bill Receipt\n")
	sb.WriteString("Cashier: " + b.Cashier + "\n")
	sb.WriteString("Customer: " + b.Customer + "\n")
	sb.WriteString("Date: " + b.Timestamp() + "\n\n")
	sb.WriteString(lineHeader + "\n")

	for _, l := range b.lines {
		sb.WriteString(l.String() + "\n")
	}

	sb.WriteString("\nTotal Discount: $" + b.totalDiscount.StringFixed(2) + "\n")
	sb.WriteString("Total Cost: $" + b.totalCost.StringFixed(2) + "\n")
	sb.WriteString(Separator + "\n")

	return sb.String()
}
