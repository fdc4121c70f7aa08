// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"strings"
	"unicode/utf8"

	"github.com/kofi-q/quotescribe/ttf"
	"github.com/shopspring/decimal"
)

// canvas produces content stream fragments for one export. Text drawn with a
// loaded font marks its glyphs as used, so a canvas must not be shared
// between exports.
type canvas struct {
	fonts ttf.FontMap
}

func newCanvas(fonts ttf.FontMap) *canvas {
	if fonts == nil {
		fonts = ttf.FontMap{}
	}
	return &canvas{fonts: fonts}
}

// Text draws each line in its own text object, moving down by leading after
// every line. A zero leading means size+2.
func (c *canvas) Text(
	lines []string,
	x, y float64,
	font ttf.FontName,
	size float64,
	leading float64,
) string {
	if leading == 0 {
		leading = size + 2
	}

	var embedded *ttf.Font
	if c.fonts.Unicode() {
		embedded = c.fonts.Get(font)
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(sprintf("BT %s %s Tf %s %s Td ", font, fmtNum(size), fmtNum(x), fmtNum(y)))
		if embedded != nil {
			sb.WriteString("<" + embedded.EncodeTextHex(line) + "> Tj ET\n")
		} else {
			sb.WriteString("(" + escapeText(asciiFold(line)) + ") Tj ET\n")
		}
		y -= leading
	}

	return sb.String()
}

type rectStyle string

const (
	rectStroke     rectStyle = "S"
	rectFill       rectStyle = "f"
	rectFillStroke rectStyle = "B"
)

func (c *canvas) Rect(x, y, w, h float64, style rectStyle) string {
	return sprintf("%s %s %s %s re %s\n", fmtNum(x), fmtNum(y), fmtNum(w), fmtNum(h), style)
}

// Qr draws the dark modules of matrix as filled squares of side size, row 0
// at the top with its upper edge at y.
func (c *canvas) Qr(matrix [][]bool, x, y, size float64) string {
	var sb strings.Builder
	for r, row := range matrix {
		for col, dark := range row {
			if dark {
				sb.WriteString(c.Rect(x+float64(col)*size, y-float64(r+1)*size, size, size, rectFill))
			}
		}
	}
	return sb.String()
}

// PriceCell draws current at (x, y). When original differs by more than a
// cent it is drawn above in a smaller gray font and struck through.
func (c *canvas) PriceCell(
	current decimal.Decimal,
	original decimal.NullDecimal,
	x, y float64,
	font ttf.FontName,
	size float64,
) string {
	var sb strings.Builder

	if strikes(current, original) {
		ofs := float64(max(6, int(size*0.8)))
		text := FormatCurrency(original.Decimal)
		topY := y + size + 4
		lineY := topY + ofs*0.3

		sb.WriteString(colorStrike.fillStroke())
		sb.WriteString(c.Text([]string{text}, x, topY, font, ofs, 0))
		sb.WriteString(sprintf(
			"%s RG %.2f w %s %.2f m %.2f %.2f l S\n",
			colorStrike,
			ofs*0.06,
			fmtNum(x),
			lineY,
			x+float64(utf8.RuneCountInString(text))*ofs*0.52,
			lineY,
		))
	}

	sb.WriteString(ColorBlack.fillStroke())
	sb.WriteString(c.Text([]string{FormatCurrency(current)}, x, y, font, size, 0))

	return sb.String()
}

// TotalRow draws "label: value" in bold, preceded by the struck original
// value when it differs.
func (c *canvas) TotalRow(
	label string,
	value decimal.Decimal,
	original decimal.NullDecimal,
	x, y float64,
) string {
	const (
		origSize  = 9
		valueSize = 12
	)

	var sb strings.Builder

	if strikes(value, original) {
		text := sprintf("Povodna %s: %s", label, FormatCurrency(original.Decimal))
		topY := y + 14
		lineY := topY + origSize*0.3

		sb.WriteString(colorStrike.fillStroke())
		sb.WriteString(c.Text([]string{text}, x, topY, ttf.FontRegular, origSize, 0))
		sb.WriteString(sprintf(
			"%s RG %.2f w %s %.2f m %.2f %.2f l S\n",
			colorStrike,
			origSize*0.06,
			fmtNum(x),
			lineY,
			x+float64(utf8.RuneCountInString(text))*origSize*0.52,
			lineY,
		))
	}

	sb.WriteString(ColorBlack.fillStroke())
	sb.WriteString(c.Text(
		[]string{sprintf("%s: %s", label, FormatCurrency(value))},
		x, y, ttf.FontBold, valueSize, 0,
	))

	return sb.String()
}

type textStyle struct {
	font ttf.FontName
	size float64
}

// SummaryLines draws the balance lines. Lines starting with "povodna" are
// gray and struck through, the "spolu s dph" line uses the header style.
func (c *canvas) SummaryLines(lines []string, x, y float64, header, body textStyle) string {
	var sb strings.Builder

	for _, line := range lines {
		lower := strings.ToLower(asciiFold(line))

		switch {
		case strings.HasPrefix(lower, "povodna"):
			lineY := y + body.size*0.3
			sb.WriteString(colorStrike.fillStroke())
			sb.WriteString(c.Text([]string{line}, x, y, body.font, body.size, 0))
			sb.WriteString(sprintf(
				"%s RG %.2f w %s %.2f m %.2f %.2f l S\n",
				colorStrike,
				body.size*0.05,
				fmtNum(x),
				lineY,
				x+float64(utf8.RuneCountInString(line))*body.size*0.52,
				lineY,
			))
			sb.WriteString(ColorBlack.fillStroke())

		case strings.HasPrefix(lower, "spolu s dph"):
			sb.WriteString(c.Text([]string{line}, x, y, header.font, header.size, 0))

		default:
			sb.WriteString(c.Text([]string{line}, x, y, body.font, body.size, 0))
		}

		y -= body.size + 3
	}

	return sb.String()
}
