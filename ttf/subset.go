package ttf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

var ErrNoGlyphData = errors.New("font has no glyf/loca tables")

// Subset returns a copy of the font program in which every glyph outside the
// font's used set is emptied. Glyph ids keep their numbers, so the result
// works with an Identity CIDToGIDMap and the font's existing hmtx and cmap.
//
// Glyph 0 and the components of used composite glyphs are always kept.
func Subset(font *Font) ([]byte, error) {
	if !font.Tables.Glyf.present() || !font.Tables.Loca.present() {
		return nil, ErrNoGlyphData
	}

	gen := Generator{
		font:   font,
		reader: NewReader(font.Data),
	}
	gen.reader.Tables = font.Tables

	return gen.generate()
}

type Generator struct {
	font   *Font
	reader Reader
	writer Writer
}

type subsetTable struct {
	name tableName
	data []byte
}

func (g *Generator) generate() ([]byte, error) {
	for _, table := range []*Table{&g.font.Tables.Glyf, &g.font.Tables.Loca} {
		if u64(table.Ptr)+u64(table.Len) > u64(len(g.font.Data)) {
			return nil, fmt.Errorf("%w: table %s", ErrTruncated, table)
		}
	}

	keep := g.closure()
	if g.reader.err != nil {
		return nil, g.reader.err
	}

	glyf, loca := g.genGlyfAndLoca(keep)

	tables := []subsetTable{
		{TableNameGlyf, glyf},
		{TableNameHead, g.genHead()},
		{TableNameLoca, loca},
	}

	// Tables that don't depend on the glyph set are copied as-is.
	for _, name := range []tableName{
		TableNameCmap,
		TableNameCvt,
		TableNameFpgm,
		TableNameGasp,
		TableNameHhea,
		TableNameHmtx,
		TableNameMaxp,
		TableNameName,
		TableNameOs2,
		TableNamePrep,
	} {
		if data := g.copy(name); data != nil {
			tables = append(tables, subsetTable{name, data})
		}
	}

	if g.font.Tables.Post.present() {
		tables = append(tables, subsetTable{TableNamePost, g.genPost()})
	}

	if g.reader.err != nil {
		return nil, g.reader.err
	}

	slices.SortFunc(tables, func(a, b subsetTable) int {
		return int(int64(a.name) - int64(b.name))
	})

	return g.genIndex(tables), nil
}

func (g *Generator) copy(name tableName) []byte {
	table := g.font.Tables.get(name)
	if !table.present() {
		return nil
	}

	return g.reader.readAt(table.Ptr, table.Len)
}

// closure collects the glyphs to keep: .notdef, every used glyph and,
// transitively, the components of composite glyphs.
func (g *Generator) closure() *bitset.BitSet {
	var seenGids bitset.BitSet

	// Glyph 0 is required:
	// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM07/appendixB.html
	seenGids.Set(0)
	gidStack := []u16{0}

	for _, gid := range g.font.UsedGids() {
		if !seenGids.Test(uint(gid)) {
			seenGids.Set(uint(gid))
			gidStack = append(gidStack, gid)
		}
	}

	for len(gidStack) > 0 && g.reader.err == nil {
		gid := gidStack[len(gidStack)-1]
		gidStack = gidStack[:len(gidStack)-1]

		if gid >= g.font.GlyphCount {
			continue
		}

		offset, length := g.reader.glyfLocation(gid, g.font.LocaFormat)
		if length < 10 {
			continue // Empty glyph.
		}

		g.reader.seekTo(g.font.Tables.Glyf.Ptr + offset)
		if contourCount := g.reader.i16(); contourCount >= 0 {
			continue
		}

		g.reader.skip(2 * 4) // xMin, yMin, xMax, yMax

		for g.reader.err == nil {
			flags := g.reader.u16()

			componentGid := g.reader.u16()
			if !seenGids.Test(uint(componentGid)) {
				seenGids.Set(uint(componentGid))
				gidStack = append(gidStack, componentGid)
			}

			if !GlyfFlagMoreComponents.Test(flags) {
				break
			}

			g.reader.skip(2)
			if GlyfFlagArg1And2AreWords.Test(flags) {
				g.reader.skip(2)
			}

			if GlyfFlagWeHaveAScale.Test(flags) {
				g.reader.skip(2)
			} else if GlyfFlagWeHaveAnXAndYScale.Test(flags) {
				g.reader.skip(4)
			} else if GlyfFlagWeHaveATwoByTwo.Test(flags) {
				g.reader.skip(8)
			}
		}
	}

	return &seenGids
}

// genGlyfAndLoca copies kept glyphs in glyph id order and writes a long
// format loca table. Dropped glyphs get zero-length entries.
func (g *Generator) genGlyfAndLoca(keep *bitset.BitSet) (glyf []byte, loca []byte) {
	loca = make([]byte, 0, 4*(int(g.font.GlyphCount)+1))

	for gid := range g.font.GlyphCount {
		loca = binary.BigEndian.AppendUint32(loca, u32(len(glyf)))
		if !keep.Test(uint(gid)) {
			continue
		}

		offset, length := g.reader.glyfLocation(gid, g.font.LocaFormat)
		glyf = append(glyf, g.reader.readAt(g.font.Tables.Glyf.Ptr+offset, length)...)
		for len(glyf)%4 != 0 {
			glyf = append(glyf, 0)
		}
	}
	loca = binary.BigEndian.AppendUint32(loca, u32(len(glyf)))

	return glyf, loca
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6head.html
func (g *Generator) genHead() []byte {
	head := slices.Clone(g.copy(TableNameHead))
	if len(head) < 54 {
		g.reader.fail(fmt.Errorf("%w: head table is %d bytes", ErrTruncated, len(head)))
		return head
	}

	binary.BigEndian.PutUint32(head[8:], 0) // checksumAdjustment, set last
	binary.BigEndian.PutUint16(head[50:], 1) // indexToLocFormat: long offsets

	return head
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6post.html
//
// Glyph names are dropped by writing a format 3.0 table.
func (g *Generator) genPost() []byte {
	g.writer.reset()
	g.writer.u32(0x00030000) // Format 3.0

	g.reader.seekTo(g.font.Tables.Post.Ptr + 4) // Skip format
	g.writer.write(g.reader.read(0 +
		4 + // italicAngle
		2 + // underlinePosition
		2 + // underlineThickness
		4, // isFixedPitch
	))

	g.writer.skip(16) // [min,max]MemType42 + [min,max]MemType1 (leave all as 0)

	return slices.Clone(g.writer.Bytes())
}

// genIndex writes the table directory followed by the 4-byte aligned table
// data, then patches head.checksumAdjustment.
func (g *Generator) genIndex(tables []subsetTable) []byte {
	tableCount := u16(len(tables))

	size := 12 + 16*u32(tableCount)
	for _, table := range tables {
		size += (u32(len(table.data)) + 3) &^ 3
	}

	g.writer.reset()
	g.writer.grow(size)

	g.writer.u32(0x0001_0000) // TrueType identifier
	g.writer.u16(tableCount)

	entrySelector := math.Floor(math.Log2(float64(tableCount)))
	searchRange := u16(16 * math.Pow(2, entrySelector))
	rangeShift := tableCount*16 - searchRange

	g.writer.u16(searchRange)
	g.writer.u16(u16(entrySelector))
	g.writer.u16(rangeShift)

	ptr := 12 + 16*u32(tableCount)
	ptrHead := u32(0)
	for _, table := range tables {
		if table.name == TableNameHead {
			ptrHead = ptr
		}

		g.writer.u32(u32(table.name))
		g.writer.u32(checksum(table.data))
		g.writer.u32(ptr)
		g.writer.u32(u32(len(table.data)))

		ptr += (u32(len(table.data)) + 3) &^ 3
	}

	for _, table := range tables {
		g.writer.write(table.data)
		g.writer.pad()
	}

	out := slices.Clone(g.writer.Bytes())
	if ptrHead != 0 {
		binary.BigEndian.PutUint32(
			out[ptrHead+8:],
			0xb1b0afba-checksum(out),
		)
	}

	return out
}

func checksum(data []byte) u32 {
	var sum u32
	for i := 0; i < len(data); i += 4 {
		word := [4]byte{}
		copy(word[:], data[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}

	return sum
}

type glyfFlag u16

const (
	// If set, the arguments are words; If not set, they are bytes.
	GlyfFlagArg1And2AreWords glyfFlag = 1 << iota

	// If set, the arguments are xy values; If not set, they are points.
	GlyfFlagArgsAreXyValues

	// If set, round the xy values to grid; if not set do not round xy values to
	// grid (relevant only to bit 1 is set)
	GlyfFlagRoundXyToGrid

	// If set, there is a simple scale for the component.
	// If not set, scale is 1.0.
	GlyfFlagWeHaveAScale

	// (obsolete; set to zero)
	GlyfFlagObsolete

	// If set, at least one additional glyph follows this one.
	GlyfFlagMoreComponents

	// If set the x direction will use a different scale than the y direction.
	GlyfFlagWeHaveAnXAndYScale

	// If set there is a 2-by-2 transformation that will be used to scale the
	// component.
	GlyfFlagWeHaveATwoByTwo
)

func (flag glyfFlag) Test(flags u16) bool {
	return glyfFlag(flags)&flag == flag
}

// glyfLocation resolves a glyph's byte range within the glyf table. Ranges
// that fall outside the table latch a truncation error.
func (r *Reader) glyfLocation(gid u16, locaFormat u16) (offset u32, length u32) {
	var end u32
	if locaFormat == 0 {
		r.seekTo(r.Tables.Loca.Ptr + u32(gid)*2)
		offset = u32(r.u16()) * 2
		end = u32(r.u16()) * 2
	} else {
		r.seekTo(r.Tables.Loca.Ptr + u32(gid)*4)
		offset = r.u32()
		end = r.u32()
	}

	if end < offset || end > r.Tables.Glyf.Len {
		r.fail(fmt.Errorf(
			"%w: glyph %d spans %d..%d of %d",
			ErrTruncated,
			gid,
			offset,
			end,
			r.Tables.Glyf.Len,
		))
		return 0, 0
	}

	return offset, end - offset
}

type Writer struct {
	buf []byte
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) grow(byteCount u32) {
	w.buf = slices.Grow(w.buf, int(byteCount))
}

func (w *Writer) pad() {
	for len(w.buf)%4 != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) reset() {
	w.buf = w.buf[:0]
}

func (w *Writer) skip(count u32) {
	w.buf = append(w.buf, make([]byte, count)...)
}

func (w *Writer) u16(val u16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, val)
}

func (w *Writer) u32(val u32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, val)
}

func (w *Writer) write(src []byte) {
	w.buf = append(w.buf, src...)
}
