package ttf

import (
	"fmt"
	"sort"
)

const (
	platformMicrosoft = 3
	platformUnicode   = 0

	cmapFormat4  = 4
	cmapFormat12 = 12
)

// Subtable preference, most complete repertoire first. When none match, the
// first record in the table is used.
var cmapPreference = [...][2]u16{
	{platformMicrosoft, 10}, // Unicode full repertoire
	{platformMicrosoft, 1},  // Unicode BMP
	{platformUnicode, 4},
	{platformUnicode, 3},
	{platformUnicode, 2},
	{platformUnicode, 1},
}

type cmapLookup interface {
	lookup(char rune) (gid u16, ok bool)
}

type cmapRecord struct {
	platform u16
	encoding u16
	offset   u32
}

// https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6cmap.html
func (p *Parser) parseCmap() error {
	base := p.reader.Tables.Cmap.Ptr
	p.reader.seekTo(base)

	version := p.reader.u16()
	subtableCount := p.reader.u16()
	if p.reader.err != nil {
		return p.reader.err
	}
	if version != 0 || subtableCount == 0 {
		return fmt.Errorf(
			"%w: version %d with %d subtables",
			ErrUnsupportedCmap,
			version,
			subtableCount,
		)
	}

	records := make([]cmapRecord, subtableCount)
	for i := range records {
		records[i] = cmapRecord{
			platform: p.reader.u16(),
			encoding: p.reader.u16(),
			offset:   p.reader.u32(),
		}
	}
	if p.reader.err != nil {
		return p.reader.err
	}

	chosen := records[0]
outer:
	for _, pref := range cmapPreference {
		for _, rec := range records {
			if rec.platform == pref[0] && rec.encoding == pref[1] {
				chosen = rec
				break outer
			}
		}
	}

	start := base + chosen.offset
	p.reader.seekTo(start)

	var lookup cmapLookup
	switch format := p.reader.u16(); format {
	case cmapFormat4:
		lookup = p.parseCmapFormat4(start)
	case cmapFormat12:
		lookup = p.parseCmapFormat12(start)
	default:
		if p.reader.err != nil {
			return p.reader.err
		}
		return fmt.Errorf("%w: format %d", ErrUnsupportedCmap, format)
	}
	if p.reader.err != nil {
		return p.reader.err
	}

	p.font.cmap = lookup

	return nil
}

type cmapSegment struct {
	start       u16
	end         u16
	delta       u16 // Delta arithmetic is modulo 0x10000
	rangeOffset u16

	// Position of this segment's idRangeOffset entry in the font data.
	rangeOffsetPtr u32
}

type cmap4 struct {
	data     []byte
	segments []cmapSegment
}

func (p *Parser) parseCmapFormat4(start u32) *cmap4 {
	p.reader.seekTo(start + 6)
	segCount := u32(p.reader.u16() >> 1)

	ptrEndCodes := start + 14
	ptrStartCodes := ptrEndCodes + 2*segCount + 2 // reservedPad
	ptrDeltas := ptrStartCodes + 2*segCount
	ptrRangeOffsets := ptrDeltas + 2*segCount

	table := &cmap4{
		data:     p.reader.buf,
		segments: make([]cmapSegment, segCount),
	}

	for i := range segCount {
		seg := &table.segments[i]

		p.reader.seekTo(ptrEndCodes + 2*i)
		seg.end = p.reader.u16()

		p.reader.seekTo(ptrStartCodes + 2*i)
		seg.start = p.reader.u16()

		p.reader.seekTo(ptrDeltas + 2*i)
		seg.delta = p.reader.u16()

		seg.rangeOffsetPtr = ptrRangeOffsets + 2*i
		p.reader.seekTo(seg.rangeOffsetPtr)
		seg.rangeOffset = p.reader.u16()
	}

	return table
}

func (c *cmap4) lookup(char rune) (u16, bool) {
	if char < 0 || char > 0xffff {
		return 0, false
	}
	code := u16(char)

	for _, seg := range c.segments {
		if code < seg.start || code > seg.end {
			continue
		}

		if seg.rangeOffset == 0 {
			return code + seg.delta, true
		}

		ptr := u64(seg.rangeOffsetPtr) +
			u64(seg.rangeOffset) +
			2*u64(code-seg.start)
		if ptr+2 > u64(len(c.data)) {
			return 0, false
		}

		gid := u16(c.data[ptr])<<8 | u16(c.data[ptr+1])
		if gid == 0 {
			return 0, true
		}

		return gid + seg.delta, true
	}

	return 0, false
}

type cmapGroup struct {
	start    u32
	end      u32
	startGid u32
}

type cmap12 struct {
	groups []cmapGroup
}

func (p *Parser) parseCmapFormat12(start u32) *cmap12 {
	p.reader.seekTo(start + 12)
	groupCount := p.reader.u32()

	// Guard against a corrupt count before allocating.
	if u64(start)+16+u64(groupCount)*12 > u64(len(p.reader.buf)) {
		p.reader.fail(fmt.Errorf("%w: %d cmap groups", ErrTruncated, groupCount))
		return nil
	}

	table := &cmap12{groups: make([]cmapGroup, groupCount)}
	for i := range table.groups {
		table.groups[i] = cmapGroup{
			start:    p.reader.u32(),
			end:      p.reader.u32(),
			startGid: p.reader.u32(),
		}
	}

	return table
}

func (c *cmap12) lookup(char rune) (u16, bool) {
	if char < 0 {
		return 0, false
	}
	code := u32(char)

	// Groups are sorted by start code.
	i := sort.Search(len(c.groups), func(i int) bool {
		return c.groups[i].end >= code
	})
	if i == len(c.groups) || c.groups[i].start > code {
		return 0, false
	}

	gid := c.groups[i].startGid + (code - c.groups[i].start)
	if gid > 0xffff {
		return 0, false
	}

	return u16(gid), true
}
