// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a tolerant JSON number. It accepts numbers, numeric strings,
// null and garbage. Set reports that the key was present at all, Valid that
// it held something parseable.
type Number struct {
	Value decimal.Decimal
	Set   bool
	Valid bool
}

// NewNumber returns a present, valid Number.
func NewNumber(v decimal.Decimal) Number {
	return Number{Value: v, Set: true, Valid: true}
}

// NumberFromFloat is a convenience for literals.
func NumberFromFloat(v float64) Number {
	return NewNumber(decimal.NewFromFloat(v))
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{Set: true}

	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		raw = strings.TrimSpace(str)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}

	n.Value, n.Valid = value, true
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.Value.String()), nil
}

// IsZero reports an absent key, so "omitzero" drops it when encoding.
func (n Number) IsZero() bool {
	return !n.Set
}

// Or returns the value, or def when the number is absent or invalid.
func (n Number) Or(def decimal.Decimal) decimal.Decimal {
	if n.Valid {
		return n.Value
	}
	return def
}

// OrNonZero is like Or but also replaces an explicit zero.
func (n Number) OrNonZero(def decimal.Decimal) decimal.Decimal {
	if n.Valid && !n.Value.IsZero() {
		return n.Value
	}
	return def
}

// Text is a tolerant JSON string: numbers and booleans keep their literal
// form and null is empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if string(raw) == "null" {
		*t = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		*t = Text(str)
		return nil
	}

	*t = Text(raw)
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Or returns def when t is empty.
func (t Text) Or(def string) string {
	return strIf(t != "", string(t), def)
}

// Fields holds the free-form supplier or client details.
type Fields map[string]Text

func (f Fields) Get(key string) string {
	return string(f[key])
}

type LineItem struct {
	Name              Text   `json:"name"`
	Qty               Number `json:"qty,omitzero"`
	Unit              Text   `json:"unit,omitempty"`
	UnitPrice         Number `json:"unit_price,omitzero"`
	Total             Number `json:"total,omitzero"`
	OriginalUnitPrice Number `json:"original_unit_price,omitzero"`
	OriginalTotal     Number `json:"original_total,omitzero"`
}

// HasOriginal reports whether either original price key was supplied.
func (item LineItem) HasOriginal() bool {
	return item.OriginalUnitPrice.Set || item.OriginalTotal.Set
}

type Totals struct {
	Base                        Number `json:"base,omitzero"`
	OriginalBase                Number `json:"original_base,omitzero"`
	Extras                      Number `json:"extras,omitzero"`
	OriginalExtras              Number `json:"original_extras,omitzero"`
	DiscountPct                 Number `json:"discount_pct,omitzero"`
	DiscountAmount              Number `json:"discount_amount,omitzero"`
	TotalBeforeDiscount         Number `json:"total_before_discount,omitzero"`
	OriginalTotalBeforeDiscount Number `json:"original_total_before_discount,omitzero"`
	TotalNoVat                  Number `json:"total_no_vat,omitzero"`
	VatRate                     Number `json:"vat_rate,omitzero"`
	Vat                         Number `json:"vat,omitzero"`
	TotalWithVat                Number `json:"total_with_vat,omitzero"`
	VatMode                     Text   `json:"vat_mode,omitempty"`
	OriginalServicesTotal       Number `json:"original_services_total,omitzero"`
}

// Payload is everything needed to draw one document.
type Payload struct {
	InvoiceNo Text       `json:"invoice_no"`
	IssueDate Text       `json:"issue_date"`
	DocTitle  Text       `json:"doc_title"`
	Package   Text       `json:"package,omitempty"`
	Supplier  Fields     `json:"supplier"`
	Client    Fields     `json:"client"`
	Totals    Totals     `json:"totals"`
	Items     []LineItem `json:"items"`

	QrData   *Text    `json:"qr_data,omitempty"`
	QrMatrix [][]bool `json:"qr_matrix,omitempty"`

	SupplierLinesOverride []string `json:"supplier_lines_override,omitempty"`
	ClientLinesOverride   []string `json:"client_lines_override,omitempty"`
	PaymentLinesOverride  []string `json:"payment_lines_override,omitempty"`
	SummaryLinesOverride  []string `json:"summary_lines_override,omitempty"`
}

const defaultDocTitle = "Cenova ponuka"

// DecodePayload reads one JSON payload. Only structurally wrong input, such
// as an object where a list is expected, is rejected.
func DecodePayload(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("unable to decode payload: %w", err)
	}
	return &p, nil
}

func (p *Payload) invoiceNo() string {
	return p.InvoiceNo.Or("-")
}

func (p *Payload) title() string {
	return p.DocTitle.Or(defaultDocTitle)
}

// qrData is the explicit qr_data when present, the invoice number otherwise.
// An explicit empty string disables the code.
func (p *Payload) qrData() string {
	if p.QrData != nil {
		return string(*p.QrData)
	}
	return p.invoiceNo()
}

// SectionLines are user-edited section contents. A nil or empty list means
// the generated lines are used.
type SectionLines struct {
	Supplier []string `json:"supplier_lines"`
	Payment  []string `json:"payment_lines"`
	Client   []string `json:"client_lines"`
	Summary  []string `json:"summary_lines"`
}

// ApplyOverrides copies edited section lines onto the payload.
func (p *Payload) ApplyOverrides(lines SectionLines) {
	p.SupplierLinesOverride = lines.Supplier
	p.PaymentLinesOverride = lines.Payment
	p.ClientLinesOverride = lines.Client
	p.SummaryLinesOverride = lines.Summary
}

// override returns lines unless it is empty.
func override(lines []string, generated func() []string) []string {
	if len(lines) > 0 {
		return lines
	}
	return generated()
}
