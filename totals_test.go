// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestLineItemTotals(t *testing.T) {
	rate := decimal.RequireFromString("0.2")

	discounted := LineItem{
		Name:              "Hosting",
		Qty:               NumberFromFloat(2),
		UnitPrice:         NumberFromFloat(25),
		OriginalUnitPrice: NumberFromFloat(30),
	}
	lt := discounted.Totals(rate)
	requireDecimal(t, "50", lt.NoVat)
	requireDecimal(t, "60", lt.WithVat)
	require.True(t, lt.OriginalNoVat.Valid)
	requireDecimal(t, "60", lt.OriginalNoVat.Decimal)
	requireDecimal(t, "72", lt.OriginalWithVat.Decimal)

	plain := LineItem{Name: "SEO", UnitPrice: NumberFromFloat(40), Total: NumberFromFloat(35)}
	lt = plain.Totals(rate)
	requireDecimal(t, "35", lt.NoVat)
	require.False(t, lt.OriginalNoVat.Valid)

	// An original total alone derives the original unit price.
	fromTotal := LineItem{Qty: NumberFromFloat(4), UnitPrice: NumberFromFloat(10), OriginalTotal: NumberFromFloat(48)}
	lt = fromTotal.Totals(rate)
	requireDecimal(t, "40", lt.NoVat)
	requireDecimal(t, "48", lt.OriginalNoVat.Decimal)

	// A present but null original key still counts, falling back to the
	// current unit price.
	nullOriginal := LineItem{Qty: NumberFromFloat(3), UnitPrice: NumberFromFloat(10), OriginalTotal: Number{Set: true}}
	lt = nullOriginal.Totals(rate)
	require.True(t, lt.OriginalNoVat.Valid)
	requireDecimal(t, "30", lt.OriginalNoVat.Decimal)

	// Zero or missing quantities count as one.
	requireDecimal(t, "7", LineItem{Qty: NumberFromFloat(0), UnitPrice: NumberFromFloat(7)}.Totals(rate).NoVat)
}

func TestRecomputeOriginalExtras(t *testing.T) {
	items := []LineItem{
		{Qty: NumberFromFloat(2), UnitPrice: NumberFromFloat(5), OriginalUnitPrice: NumberFromFloat(8)},
		{UnitPrice: NumberFromFloat(5), OriginalTotal: NumberFromFloat(9)},
		{Qty: NumberFromFloat(3), UnitPrice: NumberFromFloat(2)},
		{Total: NumberFromFloat(11)},
	}

	requireDecimal(t, "42", RecomputeOriginalExtras(items))
	requireDecimal(t, "0", RecomputeOriginalExtras(nil))
}

func TestPrepareDisplayItems(t *testing.T) {
	p := &Payload{
		Package: "WEB-PRO",
		Totals: Totals{
			Base:         NumberFromFloat(50),
			OriginalBase: NumberFromFloat(80),
		},
		Items: []LineItem{{Name: "Logo", Total: NumberFromFloat(20)}},
	}

	items, recomputed := PrepareDisplayItems(p)
	require.Len(t, items, 2)
	require.Equal(t, Text("Balik WEB-PRO"), items[0].Name)
	requireDecimal(t, "50", items[0].Totals(decimal.Zero).NoVat)
	requireDecimal(t, "80", items[0].Totals(decimal.Zero).OriginalNoVat.Decimal)
	require.Equal(t, Text("Logo"), items[1].Name)
	requireDecimal(t, "20", recomputed)

	noPackage := &Payload{Items: p.Items}
	items, _ = PrepareDisplayItems(noPackage)
	require.Len(t, items, 1)

	onlyOriginal := &Payload{Totals: Totals{OriginalBase: NumberFromFloat(10)}}
	items, _ = PrepareDisplayItems(onlyOriginal)
	require.Len(t, items, 1)
	require.Equal(t, Text("Balik -"), items[0].Name)
}

func TestPrepareDisplayItemsServicesExcludePackage(t *testing.T) {
	p := &Payload{
		Totals: Totals{Base: NumberFromFloat(50)},
		Items: []LineItem{{
			Name:              "Logo",
			Qty:               NumberFromFloat(2),
			UnitPrice:         NumberFromFloat(25),
			OriginalUnitPrice: NumberFromFloat(30),
		}},
	}

	items, recomputed := PrepareDisplayItems(p)
	require.Len(t, items, 2)
	requireDecimal(t, "60", recomputed)
	requireDecimal(t, "60", DeriveTotals(p.Totals, recomputed).OriginalServicesTotal)
}

func TestDeriveTotalsDefaults(t *testing.T) {
	totals := DeriveTotals(Totals{}, decimal.NewFromInt(12))
	requireDecimal(t, "0.23", totals.VatRate)
	requireDecimal(t, "0", totals.VatValue)
	requireDecimal(t, "0", totals.TotalNoVat)
	requireDecimal(t, "0", totals.TotalWithVat)
	requireDecimal(t, "12", totals.OriginalServicesTotal)

	totals = DeriveTotals(Totals{
		TotalNoVat: NumberFromFloat(100),
		VatRate:    Number{Set: true},
	}, decimal.Zero)
	requireDecimal(t, "0.23", totals.VatRate)
	requireDecimal(t, "123", totals.TotalWithVat)

	totals = DeriveTotals(Totals{
		TotalNoVat:            NumberFromFloat(100),
		VatRate:               NumberFromFloat(0),
		TotalWithVat:          NumberFromFloat(99),
		OriginalServicesTotal: NumberFromFloat(150),
	}, decimal.NewFromInt(12))
	requireDecimal(t, "0", totals.VatRate)
	requireDecimal(t, "99", totals.TotalWithVat)
	requireDecimal(t, "150", totals.OriginalServicesTotal)
}

func TestFormatCurrency(t *testing.T) {
	for value, want := range map[string]string{
		"0":            "0.00 EUR",
		"5.5":          "5.50 EUR",
		"999":          "999.00 EUR",
		"1000":         "1,000.00 EUR",
		"1234.5":       "1,234.50 EUR",
		"1234567.891":  "1,234,567.89 EUR",
		"-1234567.891": "-1,234,567.89 EUR",
		"-12":          "-12.00 EUR",
	} {
		require.Equal(t, want, FormatCurrency(decimal.RequireFromString(value)), value)
	}
}
