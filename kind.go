// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the type of commercial document being exported.
type Kind string

const (
	KindQuote    Kind = "quote"
	KindProforma Kind = "proforma"
	KindInvoice  Kind = "invoice"
)

var Kinds = []Kind{KindQuote, KindProforma, KindInvoice}

// ParseKind resolves a kind name. Unknown names are quotes.
func ParseKind(name string) Kind {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(name))); kind {
	case KindProforma, KindInvoice:
		return kind
	}
	return KindQuote
}

func (k Kind) Title() string {
	switch k {
	case KindProforma:
		return "Predfaktura"
	case KindInvoice:
		return "Faktura"
	}
	return defaultDocTitle
}

// FileName is the suggested output file name.
func (k Kind) FileName() string {
	switch k {
	case KindProforma:
		return "predfaktura.pdf"
	case KindInvoice:
		return "faktura.pdf"
	}
	return "ponuka.pdf"
}

// PaymentQrData is the text encoded into the payment QR code.
func (k Kind) PaymentQrData(invoiceNo string, totalWithVat Number) string {
	return sprintf("%s:%s:SUMA%s", k.Title(), invoiceNo, totalWithVat.Or(decimal.Zero).String())
}
