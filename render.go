// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quotescribe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kofi-q/quotescribe/ttf"
	"go.uber.org/zap"
)

// Renderer exports payloads as PDF documents. It holds no per-export state
// and may be used from several goroutines.
type Renderer struct {
	log       *zap.Logger
	loadFonts func() (ttf.FontMap, string)
	qr        QrEncoder
	layout    Layout
}

type Option func(*Renderer)

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithFonts loads fonts with opts for every export.
func WithFonts(opts ttf.LoadOptions) Option {
	return func(r *Renderer) {
		r.loadFonts = func() (ttf.FontMap, string) {
			return ttf.LoadFontMap(opts)
		}
	}
}

// WithFontLoader replaces font discovery. The loader must return a fresh map
// on every call, since exports record glyph usage on the fonts.
func WithFontLoader(load func() (ttf.FontMap, string)) Option {
	return func(r *Renderer) {
		r.loadFonts = load
	}
}

// WithQrEncoder sets the encoder used when a payload has QR data but no
// matrix. A nil encoder disables encoding, leaving the placeholder box.
func WithQrEncoder(qr QrEncoder) Option {
	return func(r *Renderer) {
		r.qr = qr
	}
}

func WithLayout(layout Layout) Option {
	return func(r *Renderer) {
		r.layout = layout
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		log:    zap.NewNop(),
		qr:     DefaultQrEncoder,
		layout: DefaultLayout,
	}
	WithFonts(ttf.LoadOptions{})(r)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RenderPDF renders p to path with the default renderer.
func RenderPDF(path string, p *Payload) error {
	return New().RenderFile(path, p)
}

// Render returns the PDF for p. When the layout pipeline fails or panics,
// a plain text document is produced instead.
func (r *Renderer) Render(p *Payload) ([]byte, error) {
	pdf, err := protect(func() ([]byte, error) {
		return r.renderLayout(p)
	})
	if err == nil {
		return pdf, nil
	}

	r.log.Warn("layout rendering failed, falling back to plain text", zap.Error(err))

	pdf, fallbackErr := protect(func() ([]byte, error) {
		return renderFallback(p, r.layout.Page)
	})
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, errors.Join(err, fallbackErr))
	}

	return pdf, nil
}

// RenderTo writes the PDF for p to w in a single call.
func (r *Renderer) RenderTo(w io.Writer, p *Payload) error {
	pdf, err := r.Render(p)
	if err != nil {
		return err
	}

	_, err = w.Write(pdf)
	return err
}

// RenderFile writes the PDF for p to path. The document is written to a
// temporary file next to path and renamed into place, so readers never see a
// partial file. A destination held open by another program yields
// ErrDestinationLocked.
func (r *Renderer) RenderFile(path string, p *Payload) error {
	pdf, err := r.Render(p)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, pdf); err != nil {
		if IsDestinationLocked(err) {
			return fmt.Errorf("%w: %s: %w", ErrDestinationLocked, path, err)
		}
		return fmt.Errorf("unable to write %s: %w", path, err)
	}

	r.log.Debug("wrote pdf", zap.String("path", path), zap.Int("bytes", len(pdf)))
	return nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// protect converts a panic in fn into an error.
func protect(fn func() ([]byte, error)) (pdf []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pdf, err = nil, fmt.Errorf("panic: %v", rec)
		}
	}()

	return fn()
}

func (r *Renderer) renderLayout(p *Payload) ([]byte, error) {
	fonts, source := r.loadFonts()
	if fonts.Unicode() {
		r.log.Debug("using unicode fonts", zap.String("source", source))
	} else {
		r.log.Debug("no unicode fonts found, using Helvetica")
	}

	c := newCanvas(fonts)
	pages, err := r.pages(c, p)
	if err != nil {
		return nil, err
	}

	return BuildPDF(pages, fonts, r.layout.Page)
}

// pages draws the first page and as many continuation pages as the items
// table needs.
func (r *Renderer) pages(c *canvas, p *Payload) ([]string, error) {
	invoiceNo := p.invoiceNo()
	issueDate := string(p.IssueDate)

	items, recomputed := PrepareDisplayItems(p)
	totals := DeriveTotals(p.Totals, recomputed)

	qrData := p.qrData()
	matrix := p.QrMatrix
	if len(matrix) == 0 && qrData != "" && r.qr != nil {
		encoded, err := r.qr.Matrix(qrData)
		if err != nil {
			r.log.Debug("qr encoding failed, drawing placeholder", zap.Error(err))
		}
		matrix = encoded
	}

	supplierLines := override(p.SupplierLinesOverride, func() []string {
		return BuildSupplierLines(p.Supplier)
	})
	clientLines := override(p.ClientLinesOverride, func() []string {
		return BuildClientLines(p.Client)
	})
	paymentLines := override(p.PaymentLinesOverride, func() []string {
		return BuildPaymentLines(p, invoiceNo, issueDate)
	})
	summaryLines := override(p.SummaryLinesOverride, func() []string {
		return BuildSummaryLines(totals)
	})

	var sb strings.Builder

	sb.WriteString(sprintf("%s rg %s RG ", ColorLight, ColorBorder))
	sb.WriteString(c.Rect(CardX, CardY, CardW, CardH, rectFillStroke))
	sb.WriteString(ColorBlack.fillStroke())

	sb.WriteString(c.Text([]string{sprintf("%s c. %s", p.title(), invoiceNo)}, leftX, headerY, ttf.FontBold, 18, 0))
	sb.WriteString(c.Text([]string{"Dátum vystavenia: " + issueDate}, leftX, headerY-20, ttf.FontRegular, SectionBodySize, 0))

	sb.WriteString(c.Supplier(supplierLines, box{leftX, supplierY, ColWidth, SectionHeight}))
	sb.WriteString(c.Client(clientLines, box{leftX, clientY, ColWidth, SectionHeight}))
	sb.WriteString(c.Payment(paymentLines, box{rightX, supplierY, ColWidth, SectionHeight}, matrix, qrData))
	sb.WriteString(c.Summary(summaryLines, box{rightX, clientY, ColWidth, SectionHeight}))

	table, remaining, err := c.ItemsTable(items, tableX, r.layout.TableTop, tableW, totals.VatRate, r.layout.TableMinY)
	if err != nil {
		return nil, err
	}
	sb.WriteString(table)

	pages := []string{sb.String()}

	for len(remaining) > 0 {
		sb.Reset()
		sb.WriteString(ColorBlack.fillStroke())
		sb.WriteString(c.Text([]string{"Dalsie polozky"}, leftX+16, r.layout.Page.Ht-36, ttf.FontBold, 12, 0))

		table, remaining, err = c.ItemsTable(
			remaining,
			tableX,
			r.layout.ContinuationTop,
			tableW,
			totals.VatRate,
			r.layout.ContinuationMinY,
		)
		if err != nil {
			return nil, err
		}
		sb.WriteString(table)

		pages = append(pages, sb.String())
	}

	r.log.Debug(
		"laid out document",
		zap.String("invoice_no", invoiceNo),
		zap.Int("items", len(items)),
		zap.Int("pages", len(pages)),
	)

	return pages, nil
}
