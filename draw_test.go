// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"regexp"
	"strings"
	"testing"

	"github.com/kofi-q/quotescribe/ttf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTextStandardFontFoldsToAscii(t *testing.T) {
	c := newCanvas(nil)

	require.Equal(
		t,
		"BT /F1 12 Tf 10 20 Td (Zlty kon \\(x\\) a\\\\b) Tj ET\n"+
			"BT /F1 12 Tf 10 6 Td (Dalsi) Tj ET\n",
		c.Text([]string{"Žltý kôň (x) a\\b", "Ďalší"}, 10, 20, ttf.FontRegular, 12, 0),
	)
}

func TestTextLeading(t *testing.T) {
	c := newCanvas(nil)

	require.Equal(
		t,
		"BT /F2 11 Tf 60.5 100 Td (a) Tj ET\nBT /F2 11 Tf 60.5 87 Td (b) Tj ET\n",
		c.Text([]string{"a", "b"}, 60.5, 100, ttf.FontBold, 11, 13),
	)
}

func TestTextUnicodeFontEncodesGlyphIds(t *testing.T) {
	fonts, err := ttf.BundledFontMap()
	require.NoError(t, err)
	c := newCanvas(fonts)

	out := c.Text([]string{"Žltý"}, 0, 0, ttf.FontRegular, 10, 0)
	require.Regexp(t, regexp.MustCompile(`^BT /F1 10 Tf 0 0 Td <[0-9A-F]{16}> Tj ET\n$`), out)

	font := fonts.Get(ttf.FontRegular)
	for _, char := range "Žltý" {
		require.NotZero(t, font.GlyphId(char))
	}
	// Space plus four distinct glyphs.
	require.EqualValues(t, 5, font.UsedCount())
}

func TestRect(t *testing.T) {
	c := newCanvas(nil)

	require.Equal(t, "32 60 531 720 re B\n", c.Rect(CardX, CardY, CardW, CardH, rectFillStroke))
	require.Equal(t, "1.25 2 3 4 re S\n", c.Rect(1.25, 2, 3, 4, rectStroke))
}

func TestQr(t *testing.T) {
	c := newCanvas(nil)

	require.Equal(
		t,
		"0 98 2 2 re f\n2 96 2 2 re f\n",
		c.Qr([][]bool{{true, false}, {false, true}}, 0, 100, 2),
	)
	require.Equal(t, "", c.Qr(nil, 0, 100, 2))
}

func TestPriceCellStrikeThreshold(t *testing.T) {
	c := newCanvas(nil)
	current := decimal.NewFromInt(100)

	for _, tc := range []struct {
		original decimal.NullDecimal
		struck   bool
	}{
		{decimal.NullDecimal{}, false},
		{decimal.NewNullDecimal(decimal.RequireFromString("100.005")), false},
		{decimal.NewNullDecimal(decimal.RequireFromString("99.995")), false},
		{decimal.NewNullDecimal(decimal.RequireFromString("100.02")), true},
		{decimal.NewNullDecimal(decimal.RequireFromString("150")), true},
	} {
		out := c.PriceCell(current, tc.original, 10, 20, ttf.FontRegular, 10)

		require.True(t, strings.HasSuffix(out, "0 0 0 rg 0 0 0 RG BT /F1 10 Tf 10 20 Td (100.00 EUR) Tj ET\n"))
		require.Equal(t, tc.struck, strings.Contains(out, string(colorStrike)), "original %v", tc.original)
	}
}

func TestPriceCellStrikeGeometry(t *testing.T) {
	c := newCanvas(nil)

	out := c.PriceCell(
		decimal.NewFromInt(50),
		decimal.NewNullDecimal(decimal.NewFromInt(60)),
		10, 20, ttf.FontRegular, 10,
	)

	// Original drawn 14pt higher at size 8 and struck at 14+2.4 above the
	// baseline; "60.00 EUR" is 9 characters wide at 8*0.52 each.
	require.Equal(
		t,
		"0.55 0.55 0.55 rg 0.55 0.55 0.55 RG "+
			"BT /F1 8 Tf 10 34 Td (60.00 EUR) Tj ET\n"+
			"0.55 0.55 0.55 RG 0.48 w 10 36.40 m 47.44 36.40 l S\n"+
			"0 0 0 rg 0 0 0 RG BT /F1 10 Tf 10 20 Td (50.00 EUR) Tj ET\n",
		out,
	)
}

func TestTotalRow(t *testing.T) {
	c := newCanvas(nil)

	out := c.TotalRow("Spolu", decimal.NewFromInt(120), decimal.NewNullDecimal(decimal.NewFromInt(150)), 48, 100)
	require.Contains(t, out, "BT /F1 9 Tf 48 114 Td (Povodna Spolu: 150.00 EUR) Tj ET\n")
	require.Contains(t, out, "0.55 0.55 0.55 RG 0.54 w 48 116.70 m")
	require.True(t, strings.HasSuffix(out, "BT /F2 12 Tf 48 100 Td (Spolu: 120.00 EUR) Tj ET\n"))

	plain := c.TotalRow("Spolu", decimal.NewFromInt(120), decimal.NullDecimal{}, 48, 100)
	require.Equal(t, "0 0 0 rg 0 0 0 RG BT /F2 12 Tf 48 100 Td (Spolu: 120.00 EUR) Tj ET\n", plain)
}

func TestSummaryLines(t *testing.T) {
	c := newCanvas(nil)

	out := c.SummaryLines(
		[]string{"Povodna cena: 1", "Cena bez DPH: 2", "SPOLU s DPH: 3"},
		10, 100,
		textStyle{ttf.FontBold, 12},
		textStyle{ttf.FontRegular, 11},
	)

	require.Contains(t, out, "BT /F1 11 Tf 10 100 Td (Povodna cena: 1) Tj ET\n0.55 0.55 0.55 RG 0.55 w 10 103.30 m")
	require.Contains(t, out, "BT /F1 11 Tf 10 86 Td (Cena bez DPH: 2) Tj ET\n")
	require.Contains(t, out, "BT /F2 12 Tf 10 72 Td (SPOLU s DPH: 3) Tj ET\n")
}

func TestSummaryLinesStrikeCountsCharacters(t *testing.T) {
	c := newCanvas(nil)

	out := c.SummaryLines(
		[]string{"Pôvodná cena: 5 €"},
		10, 100,
		textStyle{ttf.FontBold, 12},
		textStyle{ttf.FontRegular, 10},
	)

	require.Contains(t, out, "0.55 0.55 0.55 RG 0.50 w 10 103.00 m 98.40 103.00 l S\n")
}
