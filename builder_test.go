// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/kofi-q/quotescribe/ttf"
	"github.com/stretchr/testify/require"
)

// requireValidXref checks that startxref points at the xref keyword and that
// every xref entry points at the start of its object.
func requireValidXref(t *testing.T, pdf []byte) {
	t.Helper()

	doc := string(pdf)
	require.True(t, strings.HasPrefix(doc, "%PDF-1.4\n"))
	require.True(t, strings.HasSuffix(doc, "%%EOF\n"))

	idx := strings.LastIndex(doc, "startxref\n")
	require.NotEqual(t, -1, idx)

	offset, err := strconv.Atoi(strings.TrimSpace(
		strings.TrimSuffix(doc[idx+len("startxref\n"):], "%%EOF\n"),
	))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(doc[offset:], "xref\n"), "startxref %d", offset)

	lines := strings.Split(doc[offset:], "\n")
	var first, count int
	_, err = fmt.Sscanf(lines[1], "%d %d", &first, &count)
	require.NoError(t, err)
	require.Equal(t, 0, first)
	require.Equal(t, "0000000000 65535 f ", lines[2])

	for num := 1; num < count; num++ {
		entry := lines[2+num]
		require.Len(t, entry, len("0000000000 00000 n "))

		objOffset, err := strconv.Atoi(entry[:10])
		require.NoError(t, err)
		require.True(
			t,
			strings.HasPrefix(doc[objOffset:], fmt.Sprintf("%d 0 obj ", num)),
			"object %d at %d", num, objOffset,
		)
	}

	require.Contains(t, doc, fmt.Sprintf("trailer << /Size %d /Root 1 0 R >>", count))
}

func TestBuildPDFStandardFonts(t *testing.T) {
	pages := []string{
		"BT /F1 12 Tf 10 10 Td (one) Tj ET\n",
		"BT /F2 12 Tf 10 10 Td (two) Tj ET\n",
	}

	pdf, err := BuildPDF(pages, ttf.FontMap{}, PageSizeA4)
	require.NoError(t, err)
	requireValidXref(t, pdf)

	doc := string(pdf)
	require.Contains(t, doc, "1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n")
	require.Contains(t, doc, "2 0 obj << /Type /Pages /Count 2 /Kids [6 0 R 8 0 R] >> endobj\n")
	require.Contains(t, doc, "3 0 obj << /Type /Font /Subtype /Type1 /BaseFont /Helvetica >> endobj\n")
	require.Contains(t, doc, "4 0 obj << /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >> endobj\n")
	require.Contains(t, doc, fmt.Sprintf("5 0 obj << /Length %d >> stream\n%s\nendstream endobj\n", len(pages[0]), pages[0]))
	require.Contains(t, doc, "/MediaBox [0 0 595 842] /Contents 5 0 R /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >>")
	require.NotContains(t, doc, "FontFile2")
}

func TestBuildPDFUnicodeFonts(t *testing.T) {
	fonts, err := ttf.BundledFontMap()
	require.NoError(t, err)

	c := newCanvas(fonts)
	pages := []string{
		c.Text([]string{"Žltý kôň"}, 10, 10, ttf.FontRegular, 12, 0),
		c.Text([]string{"Faktúra"}, 10, 10, ttf.FontBold, 12, 0),
	}

	pdf, err := BuildPDF(pages, fonts, PageSizeA4)
	require.NoError(t, err)
	requireValidXref(t, pdf)

	doc := string(pdf)
	require.Contains(t, doc, "/Kids [12 0 R 14 0 R]")
	require.Contains(t, doc, "/Resources << /Font << /F1 6 0 R /F2 10 0 R >> >>")
	require.Contains(t, doc, "5 0 obj << /Type /Font /Subtype /CIDFontType2")
	require.Contains(t, doc, "/CIDToGIDMap /Identity")
	require.Contains(t, doc, "/Encoding /Identity-H /DescendantFonts [5 0 R]")
	require.Contains(t, doc, "/FontFile2 3 0 R")
	require.Contains(t, doc, "+UnicodeRegular")
	require.Contains(t, doc, "+UnicodeBold")
	require.Contains(t, doc, " /W [")
}

func TestBuildPDFNoPages(t *testing.T) {
	_, err := BuildPDF(nil, ttf.FontMap{}, PageSizeA4)
	require.ErrorIs(t, err, errNoPages)
}

func TestWidthRuns(t *testing.T) {
	font := &ttf.Font{}
	for _, gid := range []uint16{9, 3, 5, 4} {
		font.Use(gid)
	}

	require.Equal(t, "3 [500 500 500] 9 [500]", widthRuns(font))
	require.Equal(t, "", widthRuns(&ttf.Font{}))
}
