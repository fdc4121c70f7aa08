// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"maps"
	"slices"
	"strings"

	"github.com/kofi-q/quotescribe/ttf"
)

const clientWrapWidth = 42

var supplierLabels = []struct{ key, label string }{
	{"ico", "ICO"},
	{"dic", "DIC"},
	{"icdph", "IC DPH"},
	{"iban", "IBAN"},
	{"email", "Email"},
	{"phone", "Tel"},
}

// BuildSupplierLines lists the supplier's name, address and every non-empty
// detail. Keys without a known label follow in alphabetical order.
func BuildSupplierLines(supplier Fields) []string {
	lines := []string{"Dodavatel"}

	if name := supplier.Get("name"); name != "" {
		lines = append(lines, name)
	} else if company := supplier.Get("company"); company != "" {
		lines = append(lines, company)
	}
	if address := supplier.Get("address"); address != "" {
		lines = append(lines, address)
	}

	known := map[string]bool{"name": true, "company": true, "address": true}
	for _, entry := range supplierLabels {
		known[entry.key] = true
		if val := supplier.Get(entry.key); val != "" {
			lines = append(lines, entry.label+": "+val)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(supplier)) {
		if val := supplier.Get(key); !known[key] && val != "" {
			lines = append(lines, key+": "+val)
		}
	}

	return lines
}

// BuildClientLines lists the client's details, each wrapped to 42
// characters.
func BuildClientLines(client Fields) []string {
	labelled := func(label, key string) string {
		return strIf(client.Get(key) != "", label+": "+client.Get(key), "")
	}

	raw := []string{
		"Odberatel",
		client.Get("name"),
		client.Get("address"),
		labelled("ICO", "ico"),
		labelled("DIC", "dic"),
		labelled("IC DPH", "icdph"),
		client.Get("email"),
	}

	var lines []string
	for _, line := range raw {
		if line == "" {
			continue
		}
		if wrapped := TextSplit(line, clientWrapWidth); len(wrapped) > 0 {
			lines = append(lines, wrapped...)
		} else {
			lines = append(lines, "-")
		}
	}

	return lines
}

func BuildPaymentLines(p *Payload, invoiceNo, issueDate string) []string {
	return []string{
		"Variabilny symbol: " + invoiceNo,
		"Datum vystavenia: " + issueDate,
		"Balik: " + p.Package.Or("-"),
		"Stav: Nezaplateny",
	}
}

func BuildSummaryLines(totals TotalsContext) []string {
	return []string{
		"Povodna cena sluzieb: " + FormatCurrency(totals.OriginalServicesTotal),
		"Cena bez DPH: " + FormatCurrency(totals.TotalNoVat),
		sprintf("DPH (%d%%): %s", totals.VatRate.Shift(2).IntPart(), FormatCurrency(totals.VatValue)),
		"Spolu s DPH: " + FormatCurrency(totals.TotalWithVat),
	}
}

// box is the rectangle of one section.
type box struct {
	x, y, w, h float64
}

// section draws the bordered box with its bold header. Body text starts at
// bodyY.
func (c *canvas) section(b box, header string) (content string, bodyX, bodyY float64) {
	var sb strings.Builder
	sb.WriteString(c.Rect(b.x, b.y, b.w, b.h, rectStroke))
	sb.WriteString(c.Text([]string{header}, b.x+12, b.y+b.h-16, ttf.FontBold, SectionHeaderSize, SectionHeaderSize+1))

	return sb.String(), b.x + 12, b.y + b.h - 32
}

func (c *canvas) textSection(b box, header string, lines []string) string {
	content, x, y := c.section(b, header)
	return content + c.Text(lines, x, y, ttf.FontRegular, SectionBodySize, SectionBodySize+2)
}

func (c *canvas) Supplier(lines []string, b box) string {
	return c.textSection(b, "Dodavatel", lines)
}

func (c *canvas) Client(lines []string, b box) string {
	return c.textSection(b, "Odberatel", lines)
}

// Payment draws the payment lines with the QR code in the top-right corner.
// Without a matrix but with QR data, a labelled placeholder is drawn.
func (c *canvas) Payment(lines []string, b box, matrix [][]bool, qrData string) string {
	content := c.textSection(b, "Prehlad platby", lines)

	switch {
	case len(matrix) > 0:
		rows := len(matrix)
		scale := max(2, qrSide/max(rows, len(matrix[0])))
		content += c.Qr(matrix, b.x+b.w-float64(scale*rows)-12, b.y+b.h-12, float64(scale))

	case qrData != "":
		content += c.Rect(b.x+b.w-qrSide-12, b.y+b.h-qrSide-12, qrSide, qrSide, rectStroke)
		content += c.Text([]string{"QR"}, b.x+b.w-qrSide/2-8, b.y+b.h-qrSide/2-12, ttf.FontBold, 12, 0)
	}

	return content
}

func (c *canvas) Summary(lines []string, b box) string {
	content, x, y := c.section(b, "Suvaha")
	return content + c.SummaryLines(
		lines,
		x,
		y,
		textStyle{ttf.FontBold, SectionHeaderSize},
		textStyle{ttf.FontRegular, SectionBodySize},
	)
}
