// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"strings"

	"github.com/kofi-q/quotescribe/ttf"
	"github.com/shopspring/decimal"
)

const (
	fallbackSize    = 10
	fallbackLeading = 14
	fallbackMargin  = 48
)

// fallbackTotalRowHeight is the vertical space of one bold total row,
// including the struck original above it.
const fallbackTotalRowHeight = 30

// fallbackLines is the plain text dump of a document. The generated summary
// is left to fallbackTotals; a summary override is dumped as text.
func fallbackLines(p *Payload, items []LineItem, totals TotalsContext) []string {
	lines := []string{
		sprintf("%s c. %s", p.title(), p.invoiceNo()),
		"Datum vystavenia: " + string(p.IssueDate),
		"",
	}

	lines = append(lines, override(p.SupplierLinesOverride, func() []string {
		return BuildSupplierLines(p.Supplier)
	})...)
	lines = append(lines, "")
	lines = append(lines, override(p.ClientLinesOverride, func() []string {
		return BuildClientLines(p.Client)
	})...)
	lines = append(lines, "", "Polozky:")

	for _, item := range items {
		qty := strIf(item.Qty.Valid, item.Qty.Value.String(), "-")
		lines = append(lines, sprintf(
			"- %s x%s: %s",
			item.Name,
			qty,
			FormatCurrency(item.Totals(totals.VatRate).NoVat),
		))
	}

	if len(p.SummaryLinesOverride) > 0 {
		lines = append(lines, "")
		lines = append(lines, p.SummaryLinesOverride...)
	}

	return lines
}

type fallbackTotal struct {
	label    string
	value    decimal.Decimal
	original decimal.NullDecimal
}

// fallbackTotals are the bold rows closing the dump, unless the summary is
// overridden.
func fallbackTotals(p *Payload, totals TotalsContext) []fallbackTotal {
	if len(p.SummaryLinesOverride) > 0 {
		return nil
	}

	var beforeDiscount decimal.NullDecimal
	if p.Totals.TotalBeforeDiscount.Valid {
		beforeDiscount = decimal.NewNullDecimal(p.Totals.TotalBeforeDiscount.Value)
	}

	return []fallbackTotal{
		{"Cena bez DPH", totals.TotalNoVat, beforeDiscount},
		{sprintf("DPH (%d%%)", totals.VatRate.Shift(2).IntPart()), totals.VatValue, decimal.NullDecimal{}},
		{"Spolu s DPH", totals.TotalWithVat, decimal.NullDecimal{}},
	}
}

// renderFallback draws the plain text dump on a single page with the
// standard Helvetica fonts. Lines that do not fit are replaced by "...".
func renderFallback(p *Payload, size PageSize) ([]byte, error) {
	items, recomputed := PrepareDisplayItems(p)
	totals := DeriveTotals(p.Totals, recomputed)

	lines := fallbackLines(p, items, totals)
	rows := fallbackTotals(p, totals)

	textHeight := size.Ht - 2*fallbackMargin - float64(len(rows)*fallbackTotalRowHeight)
	capacity := max(int(textHeight/fallbackLeading)+1, 1)
	if len(lines) > capacity {
		lines = append(lines[:capacity-1:capacity-1], "...")
	}

	top := size.Ht - fallbackMargin

	c := newCanvas(ttf.FontMap{})
	var sb strings.Builder
	sb.WriteString(ColorBlack.fillStroke())
	sb.WriteString(c.Text(lines, fallbackMargin, top, ttf.FontRegular, fallbackSize, fallbackLeading))

	rowY := top - float64(len(lines))*fallbackLeading - fallbackTotalRowHeight + fallbackLeading
	for _, row := range rows {
		sb.WriteString(c.TotalRow(row.label, row.value, row.original, fallbackMargin, rowY))
		rowY -= fallbackTotalRowHeight
	}

	return BuildPDF([]string{sb.String()}, ttf.FontMap{}, size)
}
