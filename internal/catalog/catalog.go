package catalog

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrMalformedRecord is returned when a catalog record cannot be mapped to an Item.
var ErrMalformedRecord = errors.New("malformed catalog record")

// Item is a sellable product. Items are never mutated after loading.
type Item struct {
	Code            string
	Name            string
	Price           decimal.Decimal
	SizeOrWeight    string
	Manufacturer    string
	Expiry          string
	DiscountPercent int
}

// Catalog is an in-memory lookup of items by code.
type Catalog struct {
	items map[string]Item
}

func New() *Catalog {
	return &Catalog{items: make(map[string]Item)}
}

// Lookup returns the item registered under code.
func (c *Catalog) Lookup(code string) (Item, bool) {
	item, ok := c.items[code]
	return item, ok
}

// Put registers item, replacing any item with the same code.
func (c *Catalog) Put(item Item) {
	c.items[item.Code] = item
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns every item ordered by code.
func (c *Catalog) Items() []Item {
	items := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })

	return items
}
