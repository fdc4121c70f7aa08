// Copyright ©2025 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command quotescribe renders a quote, proforma or invoice payload to PDF.
//
// Usage:
//
//	quotescribe [-in payload.json] [-out file.pdf] [-kind quote|proforma|invoice]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kofi-q/quotescribe"
	"github.com/kofi-q/quotescribe/content"
	"github.com/kofi-q/quotescribe/ttf"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet("quotescribe", flag.ContinueOnError)
	flags.SetOutput(stderr)

	in := flags.String("in", "-", "payload JSON file, - for stdin")
	out := flags.String("out", "", "output PDF file, - for stdout (default: the kind's file name)")
	kindName := flags.String("kind", "quote", "document kind: quote, proforma or invoice")
	contentPath := flags.String("content", "", "saved section texts (JSON)")
	fontDir := flags.String("font-dir", "", "directory with regular.ttf and bold.ttf (default $"+ttf.EnvFontDir+")")
	system := flags.Bool("system-fonts", true, "search well-known system font locations")
	bundled := flags.Bool("bundled-fonts", true, "fall back to the bundled Go fonts")
	verbose := flags.Bool("verbose", false, "log debug output")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	log := newLogger(stderr, *verbose)
	defer log.Sync() //nolint:errcheck

	kind := quotescribe.ParseKind(*kindName)

	payload, err := readPayload(*in, stdin)
	if err != nil {
		fmt.Fprintln(stderr, "Export zlyhal:", err)
		return 1
	}

	applyKindDefaults(kind, payload)

	if *contentPath != "" {
		content.NewStore(*contentPath, log).Load().Apply(kind, payload)
	}

	fontOpts := ttf.LoadOptions{Dir: *fontDir, Bundled: *bundled}
	if !*system {
		fontOpts.Candidates = []ttf.FontPair{}
	}

	renderer := quotescribe.New(
		quotescribe.WithLogger(log),
		quotescribe.WithFonts(fontOpts),
	)

	dest := *out
	if dest == "" {
		dest = kind.FileName()
	}

	if dest == "-" {
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprintln(stderr, "refusing to write PDF to a terminal, use -out")
			return 1
		}
		err = renderer.RenderTo(stdout, payload)
	} else {
		err = renderer.RenderFile(dest, payload)
	}

	if err != nil {
		if errors.Is(err, quotescribe.ErrDestinationLocked) {
			fmt.Fprintf(stderr, "Export zlyhal: %s.\n", quotescribe.ErrDestinationLocked)
		} else {
			fmt.Fprintln(stderr, "Export zlyhal:", err)
		}
		log.Debug("export failed", zap.Error(err))
		return 1
	}

	if dest != "-" {
		fmt.Fprintln(stderr, "PDF ulozene:", dest)
	}

	return 0
}

// applyKindDefaults fills the title and payment QR data the payload leaves
// out. The QR text uses the same "-" placeholder the page shows for a missing
// invoice number.
func applyKindDefaults(kind quotescribe.Kind, payload *quotescribe.Payload) {
	if payload.DocTitle == "" {
		payload.DocTitle = quotescribe.Text(kind.Title())
	}
	if payload.QrData == nil {
		qrData := quotescribe.Text(kind.PaymentQrData(payload.InvoiceNo.Or("-"), payload.Totals.TotalWithVat))
		payload.QrData = &qrData
	}
}

func readPayload(path string, stdin io.Reader) (*quotescribe.Payload, error) {
	if path == "-" {
		return quotescribe.DecodePayload(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return quotescribe.DecodePayload(f)
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoder := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoder),
		zapcore.AddSync(w),
		level,
	)

	return zap.New(core)
}
