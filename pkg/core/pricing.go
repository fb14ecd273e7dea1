package core

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Field path of the price table inside a resolved document.
const (
	PricingSection = "pricing"
	PackagesField  = "packages"
	priceKey       = "price"
	saveKey        = "save"
)

// Money is an amount in the catalog's native integer unit.
type Money int64

var moneyPrinter = message.NewPrinter(language.English)

// String formats m with digit grouping, e.g. "Rs 12,500".
func (m Money) String() string {
	return moneyPrinter.Sprintf("Rs %d", int64(m))
}

// Tier is one price table entry, selected by position.
type Tier struct {
	Price Money `json:"price" yaml:"price"`
	Save  Money `json:"save,omitempty" yaml:"save,omitempty"`
}

// PriceTable lists tiers in order; tier n prices an order of n units.
type PriceTable []Tier

// Quote is the breakdown behind a PriceFor result.
type Quote struct {
	Product      ProductKey `json:"product" yaml:"product"`
	Quantity     int        `json:"quantity" yaml:"quantity"`
	Tier         int        `json:"tier,omitempty" yaml:"tier,omitempty"`
	Unit         Money      `json:"unit" yaml:"unit"`
	Save         Money      `json:"save,omitempty" yaml:"save,omitempty"`
	Total        Money      `json:"total" yaml:"total"`
	Extrapolated bool       `json:"extrapolated,omitempty" yaml:"extrapolated,omitempty"`
	// Overflow is set when the extrapolated total does not fit in Money;
	// Total is then clamped to MaxMoney.
	Overflow bool `json:"overflow,omitempty" yaml:"overflow,omitempty"`
}

// MaxMoney is the largest representable amount.
const MaxMoney = Money(math.MaxInt64)

// times multiplies m by n, clamping at MaxMoney. ok is false when clamped.
func (m Money) times(n int) (total Money, ok bool) {
	if m <= 0 || n <= 0 {
		return m * Money(n), true
	}
	if int64(n) > int64(MaxMoney/m) {
		return MaxMoney, false
	}
	return m * Money(n), true
}

// PriceFor returns the order total for quantity units of key.
// Quantities within the table select the tier at that 1-based position.
// Larger quantities are priced linearly from tier 1, without tier discounts,
// and clamp at MaxMoney instead of wrapping. quantity must be at least 1.
func (c *Catalog) PriceFor(key ProductKey, quantity int) Money {
	return c.Quote(key, quantity).Total
}

// Quote prices an order and reports how the total was reached.
func (c *Catalog) Quote(key ProductKey, quantity int) Quote {
	q := Quote{Product: key, Quantity: quantity}
	if quantity < 1 {
		return q
	}

	// Tables were validated when the catalog was built.
	table, _ := c.priceTable(key, LocaleDefault)
	switch {
	case len(table) == 0:
		if p, ok := c.products[key]; ok {
			q.Unit = p.Price
		}
		total, ok := q.Unit.times(quantity)
		q.Total, q.Overflow = total, !ok
		q.Extrapolated = quantity > 1
	case quantity <= len(table):
		t := table[quantity-1]
		q.Tier = quantity
		q.Unit = t.Price
		q.Save = t.Save
		q.Total = t.Price
	default:
		q.Unit = table[0].Price
		total, ok := q.Unit.times(quantity)
		q.Total, q.Overflow = total, !ok
		q.Extrapolated = true
	}
	return q
}

// PriceTable returns the resolved price table of key.
func (c *Catalog) PriceTable(key ProductKey) PriceTable {
	table, _ := c.priceTable(key, LocaleDefault)
	return table
}

func (c *Catalog) priceTable(key ProductKey, loc Locale) (PriceTable, error) {
	v, ok := c.ResolveField(key, loc, PricingSection, PackagesField)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is %s", ErrInvalidPrice, PricingSection, PackagesField, KindOf(v))
	}

	table := make(PriceTable, 0, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: package %d is not a record", ErrInvalidPrice, i+1)
		}
		raw, ok := rec[priceKey]
		if !ok {
			return nil, fmt.Errorf("%w: package %d has no %s", ErrInvalidPrice, i+1, priceKey)
		}
		price, err := toInt64(raw)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("%w: package %d: %v", ErrInvalidPrice, i+1, raw)
		}
		t := Tier{Price: Money(price)}
		if rawSave, ok := rec[saveKey]; ok {
			save, err := toInt64(rawSave)
			if err != nil || save < 0 {
				return nil, fmt.Errorf("%w: package %d save: %v", ErrInvalidPrice, i+1, rawSave)
			}
			t.Save = Money(save)
		}
		table = append(table, t)
	}
	return table, nil
}
