// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	one            = decimal.NewFromInt(1)
	defaultVatRate = decimal.RequireFromString("0.23")
	strikeEpsilon  = decimal.RequireFromString("0.01")
)

// TotalsContext is the resolved document summary.
type TotalsContext struct {
	VatRate               decimal.Decimal
	VatValue              decimal.Decimal
	TotalNoVat            decimal.Decimal
	TotalWithVat          decimal.Decimal
	OriginalServicesTotal decimal.Decimal
}

// qty is the item quantity; absent, invalid and zero all mean 1.
func (item LineItem) qty() decimal.Decimal {
	return item.Qty.OrNonZero(one)
}

// total is the explicit total, falling back to unit price times quantity.
func (item LineItem) total() decimal.Decimal {
	computed := item.UnitPrice.OrNonZero(decimal.Zero).Mul(item.qty())
	return item.Total.OrNonZero(computed)
}

// originalTotal resolves the pre-discount total. ok is false when the item
// carries no original price key at all.
func (item LineItem) originalTotal() (total decimal.Decimal, ok bool) {
	if !item.HasOriginal() {
		return decimal.Zero, false
	}

	qty := item.qty()
	unit := item.UnitPrice.OrNonZero(decimal.Zero)

	origUnit := unit
	switch {
	case item.OriginalUnitPrice.Valid:
		origUnit = item.OriginalUnitPrice.Value
	case item.OriginalTotal.Valid:
		origUnit = item.OriginalTotal.Value.Div(qty)
	}

	return item.OriginalTotal.OrNonZero(origUnit.Mul(qty)), true
}

// LineTotals are the amounts shown in one table row.
type LineTotals struct {
	NoVat   decimal.Decimal
	WithVat decimal.Decimal

	// Valid only when the item carries an original price.
	OriginalNoVat   decimal.NullDecimal
	OriginalWithVat decimal.NullDecimal
}

func (item LineItem) Totals(vatRate decimal.Decimal) LineTotals {
	factor := one.Add(vatRate)
	total := item.total()

	lt := LineTotals{
		NoVat:   total,
		WithVat: total.Mul(factor),
	}

	if orig, ok := item.originalTotal(); ok {
		lt.OriginalNoVat = decimal.NewNullDecimal(orig)
		lt.OriginalWithVat = decimal.NewNullDecimal(orig.Mul(factor))
	}

	return lt
}

// RecomputeOriginalExtras sums the pre-discount value of every item.
func RecomputeOriginalExtras(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		switch {
		case item.OriginalUnitPrice.Valid:
			sum = sum.Add(item.OriginalUnitPrice.Value.Mul(item.qty()))
		case item.OriginalTotal.Valid:
			sum = sum.Add(item.OriginalTotal.Value)
		default:
			sum = sum.Add(item.total())
		}
	}
	return sum
}

// PrepareDisplayItems returns the table rows, led by a synthetic package row
// when the package has a price, and the recomputed original services total.
// The package row does not count towards the services total.
func PrepareDisplayItems(p *Payload) ([]LineItem, decimal.Decimal) {
	base := p.Totals.Base.OrNonZero(decimal.Zero)
	origBase := p.Totals.OriginalBase.OrNonZero(base)

	items := make([]LineItem, 0, len(p.Items)+1)
	if base.IsPositive() || origBase.IsPositive() {
		items = append(items, LineItem{
			Name:              Text("Balik " + p.Package.Or("-")),
			Qty:               NewNumber(one),
			UnitPrice:         NewNumber(base),
			Total:             NewNumber(base),
			OriginalUnitPrice: NewNumber(origBase),
			OriginalTotal:     NewNumber(origBase),
		})
	}
	items = append(items, p.Items...)

	return items, RecomputeOriginalExtras(p.Items)
}

// DeriveTotals fills in what the payload leaves out. The VAT rate defaults to
// 23%, the total with VAT to the net total plus VAT at that rate.
func DeriveTotals(t Totals, recomputed decimal.Decimal) TotalsContext {
	vatRate := t.VatRate.Or(defaultVatRate)
	totalNoVat := t.TotalNoVat.Or(decimal.Zero)

	return TotalsContext{
		VatRate:               vatRate,
		VatValue:              t.Vat.Or(decimal.Zero),
		TotalNoVat:            totalNoVat,
		TotalWithVat:          t.TotalWithVat.Or(totalNoVat.Mul(one.Add(vatRate))),
		OriginalServicesTotal: t.OriginalServicesTotal.Or(recomputed),
	}
}

// FormatCurrency renders v as "1,234.50 EUR".
func FormatCurrency(v decimal.Decimal) string {
	fixed := v.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	sb.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	sb.WriteByte('.')
	sb.WriteString(frac)
	sb.WriteString(" EUR")

	return sb.String()
}

// strikes reports whether original differs from current by more than a cent.
func strikes(current decimal.Decimal, original decimal.NullDecimal) bool {
	return original.Valid && original.Decimal.Sub(current).Abs().GreaterThan(strikeEpsilon)
}
