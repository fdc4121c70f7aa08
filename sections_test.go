// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTextSplit(t *testing.T) {
	for _, tc := range []struct {
		text  string
		width int
		want  []string
	}{
		{"", 42, nil},
		{"   ", 42, nil},
		{"aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"aaa  \t bbb", 42, []string{"aaa bbb"}},
		{"ab abcdefghij", 5, []string{"ab ab", "cdefg", "hij"}},
		{"abcdefghij", 5, []string{"abcde", "fghij"}},
		{"čšž ťď", 3, []string{"čšž", "ťď"}},
	} {
		if diff := cmp.Diff(tc.want, TextSplit(tc.text, tc.width)); diff != "" {
			t.Errorf("TextSplit(%q, %d) mismatch (-want +got):\n%s", tc.text, tc.width, diff)
		}
	}
}

func TestBuildSupplierLines(t *testing.T) {
	lines := BuildSupplierLines(Fields{
		"company": "Web Studio s.r.o.",
		"address": "Hlavna 1, Bratislava",
		"phone":   "+421 900 000 000",
		"ico":     "12345678",
		"web":     "studio.sk",
		"banka":   "Tatra banka",
		"iban":    "",
	})

	want := []string{
		"Dodavatel",
		"Web Studio s.r.o.",
		"Hlavna 1, Bratislava",
		"ICO: 12345678",
		"Tel: +421 900 000 000",
		"banka: Tatra banka",
		"web: studio.sk",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("supplier lines mismatch (-want +got):\n%s", diff)
	}

	// The name wins over the company.
	lines = BuildSupplierLines(Fields{"name": "Jan", "company": "Firma"})
	require.Equal(t, []string{"Dodavatel", "Jan"}, lines)
}

func TestBuildClientLines(t *testing.T) {
	lines := BuildClientLines(Fields{
		"name":    "Klient",
		"address": "Velmi dlha adresa klienta, ktora sa urcite nezmesti na jeden riadok",
		"dic":     "2020202020",
		"email":   "klient@example.sk",
	})

	want := []string{
		"Odberatel",
		"Klient",
		"Velmi dlha adresa klienta, ktora sa urcite",
		"nezmesti na jeden riadok",
		"DIC: 2020202020",
		"klient@example.sk",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("client lines mismatch (-want +got):\n%s", diff)
	}

	// Whitespace-only values wrap to nothing and show as "-".
	require.Equal(t, []string{"Odberatel", "-"}, BuildClientLines(Fields{"name": "   "}))
}

func TestBuildPaymentAndSummaryLines(t *testing.T) {
	p := &Payload{}
	require.Equal(t, []string{
		"Variabilny symbol: 2025001",
		"Datum vystavenia: 1.3.2025",
		"Balik: -",
		"Stav: Nezaplateny",
	}, BuildPaymentLines(p, "2025001", "1.3.2025"))

	require.Equal(t, []string{
		"Povodna cena sluzieb: 1,500.00 EUR",
		"Cena bez DPH: 1,000.00 EUR",
		"DPH (20%): 200.00 EUR",
		"Spolu s DPH: 1,200.00 EUR",
	}, BuildSummaryLines(TotalsContext{
		VatRate:               decimal.RequireFromString("0.2"),
		VatValue:              decimal.NewFromInt(200),
		TotalNoVat:            decimal.NewFromInt(1000),
		TotalWithVat:          decimal.NewFromInt(1200),
		OriginalServicesTotal: decimal.NewFromInt(1500),
	}))
}

func TestPaymentQr(t *testing.T) {
	c := newCanvas(nil)
	b := box{rightX, supplierY, ColWidth, SectionHeight}

	placeholder := c.Payment(nil, b, nil, "2025001")
	require.Contains(t, placeholder, "442 630 90 90 re S\n")
	require.Contains(t, placeholder, "BT /F2 12 Tf 491 675 Td (QR) Tj ET\n")

	// A 2x2 matrix scales to 45pt modules anchored at the top right.
	matrix := c.Payment(nil, b, [][]bool{{true, false}, {false, false}}, "2025001")
	require.NotContains(t, matrix, "(QR)")
	require.Contains(t, matrix, "442 675 45 45 re f\n")

	// Large matrices never go below 2pt modules.
	big := make([][]bool, 60)
	for i := range big {
		big[i] = make([]bool, 60)
	}
	big[0][0] = true
	require.Contains(t, c.Payment(nil, b, big, ""), "412 718 2 2 re f\n")

	none := c.Payment([]string{"x"}, b, nil, "")
	require.Equal(t, 1, strings.Count(none, " re S\n"))
}
