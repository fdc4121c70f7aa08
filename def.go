// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

// Page and card geometry, in points. The y axis grows upwards.
const (
	PageWidth  = 595
	PageHeight = 842

	CardX   = 32
	CardY   = 60
	CardW   = 531
	CardH   = 720
	CardTop = CardY + CardH

	SectionHeight     = 150
	SectionHeaderSize = 12
	SectionBodySize   = 11
	ColWidth          = 248
	ColGap            = 0
	SectionGap        = 0

	TableHeaderHeight = 30
	TableRowHeight    = 36

	// Distance from a table header's baseline to the top of its first row.
	tableHeaderGap = 26

	qrSide = 90
)

// Color is an RGB triple in PDF operand form, e.g. "0.12 0.16 0.22".
type Color string

const (
	ColorBlack  Color = "0 0 0"
	ColorWhite  Color = "1 1 1"
	ColorDark   Color = "0.12 0.16 0.22"
	ColorLight  Color = "0.96 0.97 0.99"
	ColorBorder Color = "0.82 0.86 0.90"
	ColorRowAlt Color = "0.94 0.95 0.97"

	colorStrike Color = "0.55 0.55 0.55"
)

// fillStroke sets both the fill and the stroke color.
func (c Color) fillStroke() string {
	return sprintf("%s rg %s RG ", c, c)
}

type PageSize struct {
	Wd, Ht float64
}

var PageSizeA4 = PageSize{PageWidth, PageHeight}

// Layout holds the geometry that varies between pages of the items table.
type Layout struct {
	Page PageSize

	// Baseline of the table header on the first page and the lowest y a row
	// may reach there.
	TableTop  float64
	TableMinY float64

	// The same for every continuation page.
	ContinuationTop  float64
	ContinuationMinY float64
}

const (
	headerY   = CardTop - 18
	leftX     = CardX + 16
	rightX    = leftX + ColWidth + ColGap
	supplierY = headerY - 30 - SectionHeight
	clientY   = supplierY - SectionGap - SectionHeight
	tableX    = leftX
	tableW    = CardW - 32
)

var DefaultLayout = Layout{
	Page:             PageSizeA4,
	TableTop:         clientY - 40,
	TableMinY:        CardY + 36,
	ContinuationTop:  PageHeight - 80,
	ContinuationMinY: 60,
}

// Column offsets from the table's left edge.
var tableColumns = [4]float64{10, 220, 320, 420}

var tableHeaders = [4]string{"Názov", "Množstvo", "bez DPH", "s DPH"}
