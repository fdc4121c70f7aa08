package ttf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

type f64 = float64

type i16 = int16

type u16 = uint16
type u32 = uint32
type u64 = uint64

type tag u32

func (t tag) String() string {
	buf := [4]byte{}
	binary.BigEndian.PutUint32(buf[:], uint32(t))
	return string(buf[:])
}

type tableName tag

const (
	TableNameCmap tableName = 0x636d6170 // 'cmap'
	TableNameCvt  tableName = 0x63767420 // 'cvt '
	TableNameFpgm tableName = 0x6670676d // 'fpgm'
	TableNameGasp tableName = 0x67617370 // 'gasp'
	TableNameGlyf tableName = 0x676c7966 // 'glyf'
	TableNameHead tableName = 0x68656164 // 'head'
	TableNameHhea tableName = 0x68686561 // 'hhea'
	TableNameHmtx tableName = 0x686d7478 // 'hmtx'
	TableNameLoca tableName = 0x6c6f6361 // 'loca'
	TableNameMaxp tableName = 0x6d617870 // 'maxp'
	TableNameName tableName = 0x6e616d65 // 'name'
	TableNameOs2  tableName = 0x4f532f32 // 'OS/2'
	TableNamePost tableName = 0x706f7374 // 'post'
	TableNamePrep tableName = 0x70726570 // 'prep'
)

var (
	ErrMissingTables   = errors.New("missing one or more required TTF tables")
	ErrUnsupportedCmap = errors.New("unsupported cmap subtable")
	ErrTruncated       = errors.New("truncated font data")
)

// Font is a parsed TrueType font. Everything except the used glyph set is
// fixed once Parse returns.
type Font struct {
	// Name is the PDF font name without the leading slash, e.g.
	// "UnicodeRegular".
	Name string

	Data   []byte
	Tables Tables

	Bounds [4]i16 // xMin, yMin, xMax, yMax

	Ascent  i16
	Descent i16

	UnitsPerEm  u16
	GlyphCount  u16
	MetricCount u16
	LocaFormat  u16

	widths []u16
	cmap   cmapLookup
	used   bitset.BitSet
}

// GlyphId returns the glyph mapped to char, or 0 (.notdef) when the font
// has no mapping or the mapped id is outside the glyph range.
func (f *Font) GlyphId(char rune) u16 {
	if f.cmap == nil {
		return 0
	}

	gid, ok := f.cmap.lookup(char)
	if !ok || gid >= f.GlyphCount {
		return 0
	}

	return gid
}

// Width1000 returns the advance width of gid in a 1000 unit em square.
func (f *Font) Width1000(gid u16) int {
	if int(gid) >= len(f.widths) {
		return 500
	}

	return max(0, int(f.Scale(f64(f.widths[gid]))))
}

// Scale converts a value in font design units to a 1000 unit em square.
func (f *Font) Scale(val f64) f64 {
	if f.UnitsPerEm == 0 {
		return math.Round(val)
	}

	return math.Round(val * 1000 / f64(f.UnitsPerEm))
}

// EncodeTextHex maps each character of text to its 2-byte glyph id, records
// the glyph as used and returns the ids as uppercase hex.
func (f *Font) EncodeTextHex(text string) string {
	const digits = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(4 * len(text))
	for _, char := range text {
		gid := f.GlyphId(char)
		f.used.Set(uint(gid))

		sb.WriteByte(digits[gid>>12&0xf])
		sb.WriteByte(digits[gid>>8&0xf])
		sb.WriteByte(digits[gid>>4&0xf])
		sb.WriteByte(digits[gid&0xf])
	}

	return sb.String()
}

// Use marks gid as referenced without encoding any text.
func (f *Font) Use(gid u16) {
	f.used.Set(uint(gid))
}

// UsedGids returns the referenced glyph ids in ascending order.
func (f *Font) UsedGids() []u16 {
	gids := make([]u16, 0, f.used.Count())
	for i, ok := f.used.NextSet(0); ok; i, ok = f.used.NextSet(i + 1) {
		gids = append(gids, u16(i))
	}

	return gids
}

// UsedCount returns the number of distinct referenced glyphs.
func (f *Font) UsedCount() uint {
	return f.used.Count()
}

// SubsetTag derives a six letter prefix from the used glyph set, so the same
// glyphs always produce the same tag.
func (f *Font) SubsetTag() string {
	hash := u32(0)
	for _, gid := range f.UsedGids() {
		hash = hash*31 + u32(gid)
	}

	prefix := [6]byte{}
	for i := range prefix {
		prefix[i] = byte('A' + hash%26)
		hash /= 26
	}

	return string(prefix[:])
}

func Parse(bytes []byte, font *Font) error {
	parser := Parser{
		font:   font,
		reader: NewReader(bytes),
	}

	return parser.parse()
}

type Parser struct {
	font   *Font
	reader Reader
}

func (p *Parser) parse() error {
	if err := p.reader.parseIndex(); err != nil {
		return err
	}

	p.font.Data = p.reader.buf
	p.font.Tables = p.reader.Tables

	p.parseHead()
	p.parseHhea()
	p.parseMaxp()
	if p.reader.err != nil {
		return p.reader.err
	}

	p.parseHmtx()
	if p.reader.err != nil {
		return p.reader.err
	}

	return p.parseCmap()
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6head.html
func (p *Parser) parseHead() {
	p.reader.seekTo(p.reader.Tables.Head.Ptr + 18)
	p.font.UnitsPerEm = p.reader.u16()

	p.reader.skip(16) // created date + modified date

	for i := range p.font.Bounds {
		p.font.Bounds[i] = p.reader.i16()
	}

	p.reader.skip(6) // macStyle, lowestRecPPEM, fontDirectionHint

	p.font.LocaFormat = p.reader.u16()
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6hhea.html
func (p *Parser) parseHhea() {
	p.reader.seekTo(p.reader.Tables.Hhea.Ptr + 4)
	p.font.Ascent = p.reader.i16()
	p.font.Descent = p.reader.i16()

	p.reader.seekTo(p.reader.Tables.Hhea.Ptr + 34)
	p.font.MetricCount = p.reader.u16()
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6maxp.html
func (p *Parser) parseMaxp() {
	p.reader.seekTo(p.reader.Tables.Maxp.Ptr + 4) // Skip version.
	p.font.GlyphCount = p.reader.u16()
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6hmtx.html
//
// Glyphs past numberOfHMetrics repeat the last advance width.
func (p *Parser) parseHmtx() {
	const stride = 4

	count := min(p.font.MetricCount, p.font.GlyphCount)
	widths := make([]u16, 0, max(int(p.font.GlyphCount), 1))
	for gid := range count {
		p.reader.seekTo(p.reader.Tables.Hmtx.Ptr + stride*u32(gid))
		widths = append(widths, p.reader.u16())
	}

	if len(widths) == 0 {
		widths = append(widths, p.font.UnitsPerEm)
	}
	for len(widths) < int(p.font.GlyphCount) {
		widths = append(widths, widths[len(widths)-1])
	}

	p.font.widths = widths
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6.html
func (r *Reader) parseIndex() error {
	if len(r.buf) < 12 {
		return fmt.Errorf("%w: %d bytes is too small for a font", ErrTruncated, len(r.buf))
	}

	typ := r.u32()

	switch typ {
	case 0x7472_7565: // Four-char code: 'true'
		fallthrough
	case 0x0001_0000: // TrueType identifier
		break
	default:
		return fmt.Errorf("expected TrueType font, got type %x", typ)
	}

	tableCount := r.u16()

	r.skip(6) // searchRange, entrySelector, rangeShift (all u16)

	for range tableCount {
		name := tableName(r.tag())
		table := r.Tables.get(name)
		if table == nil {
			r.skip(12) // checksum + position + length (all u32)
			continue
		}

		r.skip(4) // checksum
		*table = Table{
			Ptr: r.u32(),
			Len: r.u32(),
		}
	}
	if r.err != nil {
		return r.err
	}

	var missing []string
	for _, name := range []tableName{
		TableNameCmap,
		TableNameHead,
		TableNameHhea,
		TableNameHmtx,
		TableNameMaxp,
	} {
		if !r.Tables.get(name).present() {
			missing = append(missing, tag(name).String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingTables, strings.Join(missing, ", "))
	}

	return nil
}

type Tables struct {
	Cmap Table
	Cvt  Table
	Fpgm Table
	Gasp Table
	Glyf Table
	Head Table
	Hhea Table
	Hmtx Table
	Loca Table
	Maxp Table
	Name Table
	Os2  Table
	Post Table
	Prep Table
}

func (t *Tables) get(name tableName) *Table {
	switch name {
	case TableNameCmap:
		return &t.Cmap
	case TableNameCvt:
		return &t.Cvt
	case TableNameFpgm:
		return &t.Fpgm
	case TableNameGasp:
		return &t.Gasp
	case TableNameGlyf:
		return &t.Glyf
	case TableNameHead:
		return &t.Head
	case TableNameHhea:
		return &t.Hhea
	case TableNameHmtx:
		return &t.Hmtx
	case TableNameLoca:
		return &t.Loca
	case TableNameMaxp:
		return &t.Maxp
	case TableNameName:
		return &t.Name
	case TableNameOs2:
		return &t.Os2
	case TableNamePost:
		return &t.Post
	case TableNamePrep:
		return &t.Prep
	}

	return nil
}

type Table struct {
	Len u32
	Ptr u32
}

func (t *Table) present() bool {
	return t.Ptr != 0 || t.Len != 0
}

func (t *Table) String() string {
	return fmt.Sprintf("0x%x: %d bytes", t.Ptr, t.Len)
}

// Reader reads big-endian values from font data. Out-of-range reads yield
// zeros and latch the first error, which callers check between steps.
type Reader struct {
	Tables Tables
	buf    []byte
	pos    u32
	err    error
}

func NewReader(bytes []byte) Reader {
	return Reader{buf: bytes}
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) i16() i16 {
	return i16(r.u16())
}

func (r Reader) Len() u32 {
	return u32(len(r.buf))
}

func (r *Reader) read(count u32) (bytes []byte) {
	bytes = r.readAt(r.pos, count)
	r.pos += count
	return
}

func (r *Reader) readAt(pos u32, count u32) []byte {
	end := u64(pos) + u64(count)
	if end > u64(len(r.buf)) {
		r.fail(fmt.Errorf(
			"%w: %d bytes at offset %d exceeds %d",
			ErrTruncated,
			count,
			pos,
			len(r.buf),
		))
		return make([]byte, count)
	}

	return r.buf[pos:end]
}

func (r *Reader) seekTo(pos u32) {
	r.pos = pos
}

func (r *Reader) skip(count u32) {
	r.pos += count
}

func (r *Reader) tag() tag {
	return tag(r.u32())
}

func (r *Reader) u16() u16 {
	return binary.BigEndian.Uint16(r.read(2))
}

func (r *Reader) u32() u32 {
	return binary.BigEndian.Uint32(r.read(4))
}
