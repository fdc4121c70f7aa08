// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package content persists user edits of the PDF section texts, per
// document kind.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kofi-q/quotescribe"
	"go.uber.org/zap"
)

// Section keys as stored on disk.
const (
	KeySupplier = "supplier_lines"
	KeyPayment  = "payment_lines"
	KeyClient   = "client_lines"
	KeySummary  = "summary_lines"
)

// Sections maps a section key to its lines. A key that is present with an
// empty list means the user removed every line, which is different from a
// missing key.
type Sections map[string][]string

// Document holds the saved sections of every document kind.
type Document map[quotescribe.Kind]Sections

// DefaultDocument has, for every kind, empty supplier, payment and client
// sections and no summary entry.
func DefaultDocument() Document {
	doc := Document{}
	for _, kind := range quotescribe.Kinds {
		doc[kind] = Sections{
			KeySupplier: {},
			KeyPayment:  {},
			KeyClient:   {},
		}
	}
	return doc
}

type Store struct {
	Path string
	Log  *zap.Logger
}

func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{Path: path, Log: log}
}

// Load reads the saved document. A missing or unreadable file yields the
// default document.
func (s *Store) Load() Document {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.Log.Warn("unable to read pdf content", zap.String("path", s.Path), zap.Error(err))
		}
		return DefaultDocument()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		s.Log.Warn("ignoring corrupt pdf content", zap.String("path", s.Path), zap.Error(err))
		return DefaultDocument()
	}

	return doc
}

// Save writes doc as indented JSON, creating parent directories.
func (s *Store) Save(doc Document) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("unable to create content directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("unable to encode pdf content: %w", err)
	}

	if err := os.WriteFile(s.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("unable to write pdf content: %w", err)
	}

	return nil
}

// Merge combines saved edits with generated defaults. A key present in saved
// wins, even with no lines; missing keys take the default.
func Merge(saved Sections, defaults quotescribe.SectionLines) quotescribe.SectionLines {
	pick := func(key string, def []string) []string {
		if lines, ok := saved[key]; ok {
			if lines == nil {
				return []string{}
			}
			return lines
		}
		return def
	}

	return quotescribe.SectionLines{
		Supplier: pick(KeySupplier, defaults.Supplier),
		Payment:  pick(KeyPayment, defaults.Payment),
		Client:   pick(KeyClient, defaults.Client),
		Summary:  pick(KeySummary, defaults.Summary),
	}
}

// Defaults builds the section lines offered to the editor for p.
func Defaults(p *quotescribe.Payload) quotescribe.SectionLines {
	invoiceNo := string(p.InvoiceNo)
	issueDate := string(p.IssueDate)

	var client []string
	for _, field := range []struct{ label, key string }{
		{"Meno", "name"},
		{"Email", "email"},
		{"Adresa", "address"},
		{"ICO", "ico"},
		{"DIC", "dic"},
		{"IC DPH", "icdph"},
	} {
		if val := p.Client.Get(field.key); val != "" {
			client = append(client, field.label+": "+val)
		}
	}

	_, recomputed := quotescribe.PrepareDisplayItems(p)

	return quotescribe.SectionLines{
		Supplier: quotescribe.BuildSupplierLines(p.Supplier),
		Payment:  quotescribe.BuildPaymentLines(p, invoiceNo, issueDate),
		Client:   client,
		Summary:  quotescribe.BuildSummaryLines(quotescribe.DeriveTotals(p.Totals, recomputed)),
	}
}

// Apply merges the saved sections of kind with the defaults for p and
// stores the result on p as overrides.
func (doc Document) Apply(kind quotescribe.Kind, p *quotescribe.Payload) {
	p.ApplyOverrides(Merge(doc[kind], Defaults(p)))
}
