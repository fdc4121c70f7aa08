// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
 * Copyright (c) 2013 Kurt Jung (Gmail: kurt.w.jung)
 *
 * Permission to use, copy, modify, and distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package quotescribe

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kofi-q/quotescribe/ttf"
)

const pdfHeader = "%PDF-1.4\n"

// Object numbers fixed by the document structure.
const (
	objCatalog   = 1
	objPages     = 2
	objFirstFont = 3
)

// Objects per embedded font: FontFile2, FontDescriptor, CIDFontType2, Type0.
const objsPerUnicodeFont = 4

var errNoPages = errors.New("document has no pages")

// BuildPDF assembles content streams into a complete PDF file. With a
// Unicode font map both fonts are embedded as Identity-H composite fonts,
// otherwise the pages reference the standard Helvetica fonts.
//
// Fonts must be final: the width arrays and subsets cover exactly the glyphs
// the content streams used.
func BuildPDF(pages []string, fonts ttf.FontMap, size PageSize) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errNoPages
	}

	b := pdfBuilder{}
	b.buf.WriteString(pdfHeader)

	fontNames := []ttf.FontName{ttf.FontRegular, ttf.FontBold}
	fontCount := len(fontNames)
	if fonts.Unicode() {
		fontCount *= objsPerUnicodeFont
	}

	firstPage := objFirstFont + fontCount
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = sprintf("%d 0 R", firstPage+2*i+1)
	}

	b.putObj(objCatalog, "<< /Type /Catalog /Pages 2 0 R >>")
	b.putObj(objPages, sprintf(
		"<< /Type /Pages /Count %d /Kids [%s] >>",
		len(pages),
		strings.Join(kids, " "),
	))

	fontRefs := map[ttf.FontName]int{}
	for _, name := range fontNames {
		if fonts.Unicode() {
			fontRefs[name] = b.putUnicodeFont(fonts.Get(name))
			continue
		}

		base := strIf(name == ttf.FontBold, "Helvetica-Bold", "Helvetica")
		fontRefs[name] = b.newObj()
		b.putDict(sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s >>", base))
	}

	resources := sprintf(
		"<< /Font << /F1 %d 0 R /F2 %d 0 R >> >>",
		fontRefs[ttf.FontRegular],
		fontRefs[ttf.FontBold],
	)
	for _, content := range pages {
		contentObj := b.newObj()
		b.putStream(sprintf("<< /Length %d >>", len(content)), []byte(content))

		b.newObj()
		b.putDict(sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Contents %d 0 R /Resources %s >>",
			fmtNum(size.Wd),
			fmtNum(size.Ht),
			contentObj,
			resources,
		))
	}

	if b.err == nil && b.n != firstPage+2*len(pages)-1 {
		b.err = fmt.Errorf("wrote %d objects, expected %d", b.n, firstPage+2*len(pages)-1)
	}
	if b.err != nil {
		return nil, b.err
	}

	b.endDoc()

	return b.buf.Bytes(), nil
}

type pdfBuilder struct {
	buf     bytes.Buffer
	n       int   // current object number
	offsets []int // byte offset of each object, indexed by object number
	err     error
}

func (b *pdfBuilder) newObj() int {
	b.n++
	for len(b.offsets) <= b.n {
		b.offsets = append(b.offsets, 0)
	}
	b.offsets[b.n] = b.buf.Len()
	b.buf.WriteString(strconv.Itoa(b.n) + " 0 obj ")
	return b.n
}

// putObj writes a dictionary object whose number is fixed in advance.
func (b *pdfBuilder) putObj(expected int, dict string) {
	if n := b.newObj(); n != expected && b.err == nil {
		b.err = fmt.Errorf("object %d written as %d", expected, n)
	}
	b.putDict(dict)
}

func (b *pdfBuilder) putDict(dict string) {
	b.buf.WriteString(dict)
	b.buf.WriteString(" endobj\n")
}

func (b *pdfBuilder) putStream(dict string, data []byte) {
	b.buf.WriteString(dict)
	b.buf.WriteString(" stream\n")
	b.buf.Write(data)
	b.buf.WriteString("\nendstream endobj\n")
}

// putUnicodeFont writes the four objects of an embedded TrueType font and
// returns the number of the Type0 font.
func (b *pdfBuilder) putUnicodeFont(font *ttf.Font) int {
	program, err := ttf.Subset(font)
	baseFont := font.Name
	if err == nil {
		baseFont = font.SubsetTag() + "+" + font.Name
	} else {
		program = font.Data
	}

	fontFile := b.newObj()
	b.putStream(sprintf("<< /Length %d /Length1 %d >>", len(program), len(program)), program)

	descriptor := b.newObj()
	b.putDict(sprintf(
		"<< /Type /FontDescriptor /FontName /%s /Flags 32 /FontBBox [%s %s %s %s]"+
			" /ItalicAngle 0 /Ascent %s /Descent %s /CapHeight %s /StemV 80 /FontFile2 %d 0 R >>",
		baseFont,
		fmtNum(font.Scale(float64(font.Bounds[0]))),
		fmtNum(font.Scale(float64(font.Bounds[1]))),
		fmtNum(font.Scale(float64(font.Bounds[2]))),
		fmtNum(font.Scale(float64(font.Bounds[3]))),
		fmtNum(font.Scale(float64(font.Ascent))),
		fmtNum(font.Scale(float64(font.Descent))),
		fmtNum(font.Scale(float64(font.Ascent))),
		fontFile,
	))

	defaultWidth := font.Width1000(font.GlyphId(' '))
	if defaultWidth == 0 {
		defaultWidth = 500
	}

	widths := ""
	if w := widthRuns(font); w != "" {
		widths = " /W [" + w + "]"
	}

	cidFont := b.newObj()
	b.putDict(sprintf(
		"<< /Type /Font /Subtype /CIDFontType2 /BaseFont /%s"+
			" /CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >>"+
			" /FontDescriptor %d 0 R /DW %d%s /CIDToGIDMap /Identity >>",
		baseFont,
		descriptor,
		defaultWidth,
		widths,
	))

	type0 := b.newObj()
	b.putDict(sprintf(
		"<< /Type /Font /Subtype /Type0 /BaseFont /%s /Encoding /Identity-H /DescendantFonts [%d 0 R] >>",
		baseFont,
		cidFont,
	))

	return type0
}

// widthRuns groups the used glyphs into runs of consecutive ids, each
// written as "first [w1 w2 ...]".
func widthRuns(font *ttf.Font) string {
	gids := font.UsedGids()

	var runs []string
	for start := 0; start < len(gids); {
		end := start + 1
		for end < len(gids) && gids[end] == gids[end-1]+1 {
			end++
		}

		widths := make([]string, 0, end-start)
		for _, gid := range gids[start:end] {
			widths = append(widths, strconv.Itoa(font.Width1000(gid)))
		}
		runs = append(runs, sprintf("%d [%s]", gids[start], strings.Join(widths, " ")))

		start = end
	}

	return strings.Join(runs, " ")
}

// endDoc writes the cross-reference table and trailer. startxref holds the
// offset of the "xref" keyword.
func (b *pdfBuilder) endDoc() {
	offset := b.buf.Len()

	b.buf.WriteString("xref\n")
	b.buf.WriteString(sprintf("0 %d\n", b.n+1))
	b.buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= b.n; i++ {
		b.buf.WriteString(sprintf("%010d 00000 n \n", b.offsets[i]))
	}

	b.buf.WriteString(sprintf("trailer << /Size %d /Root 1 0 R >>\n", b.n+1))
	b.buf.WriteString("startxref\n")
	b.buf.WriteString(strconv.Itoa(offset) + "\n")
	b.buf.WriteString("%%EOF\n")
}
