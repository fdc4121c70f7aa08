package ttf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// EnvFontDir names a directory containing regular.ttf and bold.ttf, checked
// before any system font.
const EnvFontDir = "QUOTESCRIBE_FONT_DIR"

type FontName string

// Resource names used by content streams.
const (
	FontRegular FontName = "/F1"
	FontBold    FontName = "/F2"
)

// FontMap holds the fonts of one export. An empty map means text is drawn
// with the standard Helvetica fonts and limited to ASCII.
type FontMap map[FontName]*Font

func (m FontMap) Get(name FontName) *Font {
	return m[name]
}

// Unicode reports whether both the regular and the bold font are loaded.
func (m FontMap) Unicode() bool {
	return m[FontRegular] != nil && m[FontBold] != nil
}

// FontPair locates a regular and a bold font file.
type FontPair struct {
	Regular string
	Bold    string
}

func (p FontPair) String() string {
	return fmt.Sprintf("%s + %s", p.Regular, p.Bold)
}

type LoadOptions struct {
	// Dir overrides the directory searched first. Defaults to the value of
	// EnvFontDir.
	Dir string

	// Candidates are tried in order after Dir. Defaults to
	// SystemCandidates(runtime.GOOS).
	Candidates []FontPair

	// Bundled enables the Go fonts as the last resort.
	Bundled bool

	// ReadFile defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// LoadFontMap returns the first font pair that can be read and parsed,
// falling back to an empty map. It never fails: unreadable or unsupported
// fonts are skipped.
func LoadFontMap(opts LoadOptions) (fonts FontMap, source string) {
	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	dir := opts.Dir
	if dir == "" {
		dir = os.Getenv(EnvFontDir)
	}

	var candidates []FontPair
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			candidates = append(candidates, FontPair{
				Regular: filepath.Join(dir, "regular.ttf"),
				Bold:    filepath.Join(dir, "bold.ttf"),
			})
		}
	}

	if opts.Candidates != nil {
		candidates = append(candidates, opts.Candidates...)
	} else {
		candidates = append(candidates, SystemCandidates(runtime.GOOS)...)
	}

	for _, pair := range candidates {
		regular, err := readFile(pair.Regular)
		if err != nil {
			continue
		}
		bold, err := readFile(pair.Bold)
		if err != nil {
			continue
		}

		if fonts, err := NewFontMap(regular, bold); err == nil {
			return fonts, pair.String()
		}
	}

	if opts.Bundled {
		if fonts, err := BundledFontMap(); err == nil {
			return fonts, "bundled Go fonts"
		}
	}

	return FontMap{}, ""
}

// NewFontMap parses a regular and a bold TrueType font. The space glyph of
// each is marked as used, so the width table always covers it.
func NewFontMap(regular, bold []byte) (FontMap, error) {
	fonts := FontMap{}

	for _, entry := range []struct {
		name FontName
		pdf  string
		data []byte
	}{
		{FontRegular, "UnicodeRegular", regular},
		{FontBold, "UnicodeBold", bold},
	} {
		font := &Font{Name: entry.pdf}
		if err := Parse(entry.data, font); err != nil {
			return nil, fmt.Errorf("unable to parse font file (%s): %w", entry.pdf, err)
		}

		font.Use(font.GlyphId(' '))
		fonts[entry.name] = font
	}

	return fonts, nil
}

// BundledFontMap loads the Go Regular and Go Bold fonts compiled into the
// binary.
func BundledFontMap() (FontMap, error) {
	return NewFontMap(goregular.TTF, gobold.TTF)
}

// SystemCandidates lists well-known Unicode font pairs for an OS.
func SystemCandidates(goos string) []FontPair {
	switch goos {
	case "windows":
		root := os.Getenv("WINDIR")
		if root == "" {
			root = `C:\Windows`
		}
		fonts := filepath.Join(root, "Fonts")

		return []FontPair{
			{filepath.Join(fonts, "segoeui.ttf"), filepath.Join(fonts, "segoeuib.ttf")},
			{filepath.Join(fonts, "arial.ttf"), filepath.Join(fonts, "arialbd.ttf")},
		}

	case "darwin":
		return []FontPair{
			{
				"/System/Library/Fonts/Supplemental/Arial.ttf",
				"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
			},
			{"/Library/Fonts/Arial.ttf", "/Library/Fonts/Arial Bold.ttf"},
		}
	}

	return []FontPair{
		{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		},
		{
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
			"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
		},
		{
			"/usr/share/fonts/dejavu-sans-fonts/DejaVuSans.ttf",
			"/usr/share/fonts/dejavu-sans-fonts/DejaVuSans-Bold.ttf",
		},
		{
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
		},
	}
}
