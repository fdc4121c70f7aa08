// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"math"
	"strings"

	"github.com/kofi-q/quotescribe/ttf"
	"github.com/shopspring/decimal"
)

const tableFontSize = 10

// ItemsTable draws the table header at startY followed by as many rows as fit
// above minY and returns the items that did not fit.
//
// When not every item fits, the last available row is left empty. It returns
// ErrLayout when no row at all could be placed, since retrying on a fresh
// page of the same geometry would never make progress.
func (c *canvas) ItemsTable(
	items []LineItem,
	x, startY, width float64,
	vatRate decimal.Decimal,
	minY float64,
) (content string, overflow []LineItem, err error) {
	var sb strings.Builder

	sb.WriteString(ColorDark.fillStroke())
	sb.WriteString(c.Rect(x, startY, width, TableHeaderHeight, rectFillStroke))
	sb.WriteString(ColorWhite.fillStroke())
	for i, header := range tableHeaders {
		colX := x + tableColumns[i]
		sb.WriteString(c.Text([]string{header}, colX, startY+20, ttf.FontBold, tableFontSize, 0))
	}

	rowY := startY - tableHeaderGap
	availableRows := max(1, int(math.Floor((rowY-minY)/TableRowHeight)))

	if len(items) > availableRows {
		placed := availableRows - 1
		if placed <= 0 {
			return "", nil, sprintfErr(
				ErrLayout,
				"no item row fits between y=%s and y=%s",
				fmtNum(rowY),
				fmtNum(minY),
			)
		}
		items, overflow = items[:placed], items[placed:]
	}

	textOffset := float64(TableRowHeight - tableHeaderGap)
	for idx, item := range items {
		totals := item.Totals(vatRate)

		if idx%2 == 0 {
			sb.WriteString(sprintf("%s rg ", ColorRowAlt))
			sb.WriteString(c.Rect(x, rowY, width, TableRowHeight, rectFill))
		}
		sb.WriteString(ColorBlack.fillStroke())
		sb.WriteString(c.Rect(x, rowY, width, TableRowHeight, rectStroke))

		textY := rowY + textOffset
		qty := strIf(item.Qty.Valid, item.Qty.Value.String(), "-")

		sb.WriteString(c.Text([]string{string(item.Name)}, x+tableColumns[0], textY, ttf.FontRegular, tableFontSize, 0))
		sb.WriteString(c.Text([]string{"x" + qty}, x+tableColumns[1], textY, ttf.FontRegular, tableFontSize, 0))
		sb.WriteString(c.PriceCell(totals.NoVat, totals.OriginalNoVat, x+tableColumns[2], textY, ttf.FontRegular, tableFontSize))
		sb.WriteString(c.PriceCell(totals.WithVat, totals.OriginalWithVat, x+tableColumns[3], textY, ttf.FontRegular, tableFontSize))

		rowY -= TableRowHeight
	}

	return sb.String(), overflow, nil
}
