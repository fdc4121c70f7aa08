// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kofi-q/quotescribe"
	"github.com/kofi-q/quotescribe/content"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	store := content.NewStore(filepath.Join(t.TempDir(), "pdf_content.json"), nil)

	doc := store.Load()
	require.Len(t, doc, 3)
	for _, kind := range quotescribe.Kinds {
		sections := doc[kind]
		require.Contains(t, sections, content.KeySupplier)
		require.Contains(t, sections, content.KeyPayment)
		require.Contains(t, sections, content.KeyClient)
		require.NotContains(t, sections, content.KeySummary)
		require.Empty(t, sections[content.KeySupplier])
	}
}

func TestLoadCorruptFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdf_content.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	doc := content.NewStore(path, zap.New(core)).Load()

	if diff := cmp.Diff(content.DefaultDocument(), doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 1, logs.FilterMessage("ignoring corrupt pdf content").Len())
}

func TestSaveLoad(t *testing.T) {
	store := content.NewStore(filepath.Join(t.TempDir(), "nested", "pdf_content.json"), nil)

	doc := content.DefaultDocument()
	doc[quotescribe.KindInvoice][content.KeySupplier] = []string{"Štúdio s.r.o.", "IBAN: SK00 <1>"}
	require.NoError(t, store.Save(doc))

	raw, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "\n  \"invoice\": {\n")
	require.Contains(t, string(raw), "IBAN: SK00 <1>")

	if diff := cmp.Diff(doc, store.Load()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestMergePrefersSavedKeys(t *testing.T) {
	defaults := quotescribe.SectionLines{
		Supplier: []string{"default supplier"},
		Payment:  []string{"default payment"},
		Client:   []string{"default client"},
		Summary:  []string{"default summary"},
	}

	merged := content.Merge(content.Sections{
		content.KeySupplier: {"saved supplier"},
		content.KeyPayment:  {},
		content.KeyClient:   nil,
	}, defaults)

	want := quotescribe.SectionLines{
		Supplier: []string{"saved supplier"},
		Payment:  []string{},
		Client:   []string{},
		Summary:  []string{"default summary"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, defaults, content.Merge(nil, defaults))
}

func TestDefaults(t *testing.T) {
	p := &quotescribe.Payload{
		InvoiceNo: "2025001",
		IssueDate: "01.03.2025",
		Client: quotescribe.Fields{
			"name":  "Klient",
			"email": "k@example.sk",
			"icdph": "SK2020202020",
		},
		Totals: quotescribe.Totals{
			TotalNoVat:   quotescribe.NumberFromFloat(100),
			VatRate:      quotescribe.NumberFromFloat(0.2),
			Vat:          quotescribe.NumberFromFloat(20),
			TotalWithVat: quotescribe.NumberFromFloat(120),
		},
	}

	lines := content.Defaults(p)
	require.Equal(t, []string{"Meno: Klient", "Email: k@example.sk", "IC DPH: SK2020202020"}, lines.Client)
	require.Equal(t, "Variabilny symbol: 2025001", lines.Payment[0])
	require.Equal(t, []string{"Dodavatel"}, lines.Supplier)
	require.Equal(t, "Spolu s DPH: 120.00 EUR", lines.Summary[3])
}

func TestApply(t *testing.T) {
	p := &quotescribe.Payload{InvoiceNo: "7"}

	content.DefaultDocument().Apply(quotescribe.KindQuote, p)

	// Saved but empty sections fall back to generated lines at render time,
	// while the summary takes its default straight away.
	require.Empty(t, p.SupplierLinesOverride)
	require.Empty(t, p.PaymentLinesOverride)
	require.Len(t, p.SummaryLinesOverride, 4)
}
