package services

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ToGross adds vatPercent to a net price. A non-positive rate is the identity.
func ToGross(net, vatPercent decimal.Decimal) decimal.Decimal {
	if !vatPercent.IsPositive() {
		return net
	}
	return net.Mul(one.Add(vatPercent.Div(hundred)))
}

// ToNet removes vatPercent from a gross price. A non-positive rate is the identity.
func ToNet(gross, vatPercent decimal.Decimal) decimal.Decimal {
	if !vatPercent.IsPositive() {
		return gross
	}
	return gross.Div(one.Add(vatPercent.Div(hundred)))
}

// Round2 rounds to cents. Apply it only where a value leaves the service.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// GrossPrice converts an optional net price for presentation. nil stays nil.
func GrossPrice(net *decimal.Decimal, vatPercent decimal.Decimal) *decimal.Decimal {
	if net == nil {
		return nil
	}
	g := Round2(ToGross(*net, vatPercent))
	return &g
}

// NetPrice converts an optional gross price before it is written. nil stays nil.
func NetPrice(gross *decimal.Decimal, vatPercent decimal.Decimal) *decimal.Decimal {
	if gross == nil {
		return nil
	}
	n := Round2(ToNet(*gross, vatPercent))
	return &n
}

// VatLookup returns the VAT percentage of a store view.
type VatLookup interface {
	PercentFor(storeID int) decimal.Decimal
}

// VatTable is a VatLookup over a fixed set of rates. Missing stores have 0%.
type VatTable map[int]decimal.Decimal

// PercentFor implements VatLookup.
func (t VatTable) PercentFor(storeID int) decimal.Decimal {
	if v, ok := t[storeID]; ok {
		return v
	}
	return decimal.Zero
}
