package hb

import (
	"fmt"
	"unicode/utf8"

	"github.com/boxesandglue/textshape/ot"
)

// ContentType tells whether a buffer holds characters or shaped glyphs.
type ContentType int

const (
	ContentInvalid ContentType = iota
	ContentUnicode
	ContentGlyphs
)

// ClusterLevel controls how the shaper merges clusters.
type ClusterLevel int

const (
	ClusterLevelMonotoneGraphemes ClusterLevel = iota
	ClusterLevelMonotoneCharacters
	ClusterLevelCharacters
	ClusterLevelGraphemes

	ClusterLevelDefault = ClusterLevelMonotoneGraphemes
)

// Flags are buffer flags with HarfBuzz's numeric values.
type Flags uint32

const (
	FlagDefault                   Flags = 0
	FlagBOT                       Flags = 0x01
	FlagEOT                       Flags = 0x02
	FlagPreserveDefaultIgnorables Flags = 0x04
	FlagRemoveDefaultIgnorables   Flags = 0x08
	FlagDoNotInsertDottedCircle   Flags = 0x10
)

var engineFlags = [...]struct {
	flag   Flags
	engine ot.BufferFlags
}{
	{FlagBOT, ot.BufferFlagBOT},
	{FlagEOT, ot.BufferFlagEOT},
	{FlagPreserveDefaultIgnorables, ot.BufferFlagPreserveDefaultIgnorables},
	{FlagRemoveDefaultIgnorables, ot.BufferFlagRemoveDefaultIgnorables},
	{FlagDoNotInsertDottedCircle, ot.BufferFlagDoNotInsertDottedCircle},
}

func (f Flags) engine() ot.BufferFlags {
	var out ot.BufferFlags
	for _, m := range engineFlags {
		if f&m.flag != 0 {
			out |= m.engine
		}
	}
	return out
}

// contextLength is the number of characters kept on either side of an item.
const contextLength = 5

// GlyphInfo is one entry of a buffer. Before shaping Codepoint is a Unicode
// character, after shaping it is a glyph index.
type GlyphInfo struct {
	Codepoint uint32
	Cluster   int
	Mask      uint32
	XAdvance  int
	YAdvance  int
	XOffset   int
	YOffset   int
}

type position struct {
	xAdvance, yAdvance, xOffset, yOffset int
}

// Buffer holds the text to shape and, after shaping, the glyph stream.
// A Buffer is not safe for concurrent use.
type Buffer struct {
	buf          *ot.Buffer
	direction    Direction
	script       Script
	language     Language
	clusterLevel ClusterLevel
	flags        Flags
	content      ContentType
	pos          []position
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{buf: ot.NewBuffer()}
}

// Len returns the number of characters or glyphs.
func (b *Buffer) Len() int {
	return b.buf.Len()
}

// Content returns the buffer's content type.
func (b *Buffer) Content() ContentType {
	return b.content
}

// AddUTF8 appends text[itemOffset:itemOffset+itemLength]. A negative
// itemLength means "to the end of text". Clusters are byte offsets into
// text; up to five characters on either side of the item become shaping
// context. Invalid UTF-8 decodes to U+FFFD.
// HarfBuzz equivalent: hb_buffer_add_utf8()
func (b *Buffer) AddUTF8(text string, itemOffset, itemLength int) error {
	if err := b.checkAdd("add_utf8", len(text), itemOffset, &itemLength); err != nil {
		return err
	}
	if b.buf.Len() == 0 && itemOffset > 0 {
		var pre []ot.Codepoint
		for i := itemOffset; i > 0 && len(pre) < contextLength; {
			r, size := utf8.DecodeLastRuneInString(text[:i])
			pre = append(pre, ot.Codepoint(r))
			i -= size
		}
		b.buf.PreContext = reverseCodepoints(pre)
	}

	end := itemOffset + itemLength
	var cps []ot.Codepoint
	var clusters []int
	for i := itemOffset; i < end; {
		r, size := utf8.DecodeRuneInString(text[i:end])
		cps = append(cps, ot.Codepoint(r))
		clusters = append(clusters, i)
		i += size
	}
	b.appendCodepoints(cps, clusters)

	var post []ot.Codepoint
	for i := end; i < len(text) && len(post) < contextLength; {
		r, size := utf8.DecodeRuneInString(text[i:])
		post = append(post, ot.Codepoint(r))
		i += size
	}
	b.buf.PostContext = post
	return nil
}

// AddCodepoints appends cps[itemOffset:itemOffset+itemLength]. Clusters are
// indices into cps.
// HarfBuzz equivalent: hb_buffer_add_codepoints()
func (b *Buffer) AddCodepoints(cps []rune, itemOffset, itemLength int) error {
	if err := b.checkAdd("add_codepoints", len(cps), itemOffset, &itemLength); err != nil {
		return err
	}
	if b.buf.Len() == 0 && itemOffset > 0 {
		start := max(0, itemOffset-contextLength)
		b.buf.PreContext = toCodepoints(cps[start:itemOffset])
	}
	end := itemOffset + itemLength
	clusters := make([]int, 0, itemLength)
	for i := itemOffset; i < end; i++ {
		clusters = append(clusters, i)
	}
	b.appendCodepoints(toCodepoints(cps[itemOffset:end]), clusters)
	b.buf.PostContext = toCodepoints(cps[end:min(len(cps), end+contextLength)])
	return nil
}

func (b *Buffer) checkAdd(op string, n, itemOffset int, itemLength *int) error {
	if b.content == ContentGlyphs {
		return InvalidInput(op, "buffer already holds glyphs")
	}
	if itemOffset < 0 || itemOffset > n {
		return InvalidInput(op, fmt.Sprintf("item offset %d out of range [0,%d]", itemOffset, n))
	}
	if *itemLength < 0 || *itemLength > n-itemOffset {
		*itemLength = n - itemOffset
	}
	return nil
}

func (b *Buffer) appendCodepoints(cps []ot.Codepoint, clusters []int) {
	base := b.buf.Len()
	b.buf.AddCodepoints(cps)
	for i, c := range clusters {
		b.buf.Info[base+i].Cluster = c
	}
	b.content = ContentUnicode
}

// SetDirection sets the text direction. DirectionInvalid lets
// GuessSegmentProperties or the shaper decide.
func (b *Buffer) SetDirection(d Direction) {
	b.direction = d
	b.buf.Direction = ot.Direction(d)
}

// Direction returns the text direction.
func (b *Buffer) Direction() Direction {
	return b.direction
}

// SetScript sets the script.
func (b *Buffer) SetScript(s Script) {
	b.script = s
	b.buf.Script = s.engineTag()
}

// Script returns the script.
func (b *Buffer) Script() Script {
	return b.script
}

// SetLanguage sets the language.
func (b *Buffer) SetLanguage(l Language) {
	b.language = l
}

// Language returns the language.
func (b *Buffer) Language() Language {
	return b.language
}

// SetClusterLevel sets the cluster level.
func (b *Buffer) SetClusterLevel(l ClusterLevel) {
	b.clusterLevel = l
	b.buf.ClusterLevel = int(l)
}

// ClusterLevel returns the cluster level.
func (b *Buffer) ClusterLevel() ClusterLevel {
	return b.clusterLevel
}

// SetFlags sets the buffer flags.
func (b *Buffer) SetFlags(f Flags) {
	b.flags = f
	b.buf.Flags = f.engine()
}

// Flags returns the buffer flags.
func (b *Buffer) Flags() Flags {
	return b.flags
}

// GuessSegmentProperties fills in an unset script from the buffer contents
// and an unset direction from the script.
// HarfBuzz equivalent: hb_buffer_guess_segment_properties()
func (b *Buffer) GuessSegmentProperties() {
	b.buf.GuessSegmentProperties()
	b.syncProps()
}

func (b *Buffer) syncProps() {
	if b.script == ScriptInvalid && b.buf.Script != 0 {
		b.script = scriptFromEngine(b.buf.Script)
	}
	if b.direction == DirectionInvalid && b.buf.Direction != ot.DirectionInvalid {
		b.direction = Direction(b.buf.Direction)
	}
}

// Reverse reverses the order of the buffer contents.
func (b *Buffer) Reverse() {
	b.buf.Reverse()
	for i, j := 0, len(b.pos)-1; i < j; i, j = i+1, j-1 {
		b.pos[i], b.pos[j] = b.pos[j], b.pos[i]
	}
}

// ClearContents empties the buffer and its segment properties but keeps
// flags and cluster level.
// HarfBuzz equivalent: hb_buffer_clear_contents()
func (b *Buffer) ClearContents() {
	flags, level := b.flags, b.clusterLevel
	b.Reset()
	b.SetFlags(flags)
	b.SetClusterLevel(level)
}

// Reset returns the buffer to the state of NewBuffer.
// HarfBuzz equivalent: hb_buffer_reset()
func (b *Buffer) Reset() {
	*b = Buffer{buf: ot.NewBuffer()}
}

// Glyphs returns the buffer entries with their positions. Positions are zero
// until the buffer has been shaped.
func (b *Buffer) Glyphs() []GlyphInfo {
	out := make([]GlyphInfo, len(b.buf.Info))
	for i, info := range b.buf.Info {
		g := GlyphInfo{Cluster: info.Cluster, Mask: info.Mask}
		if b.content == ContentGlyphs {
			g.Codepoint = uint32(info.GlyphID)
		} else {
			g.Codepoint = uint32(info.Codepoint)
		}
		if i < len(b.pos) {
			p := b.pos[i]
			g.XAdvance, g.YAdvance, g.XOffset, g.YOffset = p.xAdvance, p.yAdvance, p.xOffset, p.yOffset
		}
		out[i] = g
	}
	return out
}

// prepare copies the language into the engine buffer before shaping.
func (b *Buffer) prepare() {
	tags := b.language.OTTags()
	if len(tags) > 0 {
		b.buf.Language = tags[0]
		b.buf.LanguageCandidates = tags
	} else {
		b.buf.Language = 0
		b.buf.LanguageCandidates = nil
	}
}

// finish records the shaped output scaled to font.
func (b *Buffer) finish(font *Font) {
	b.syncProps()
	b.content = ContentGlyphs
	b.pos = make([]position, len(b.buf.Pos))
	for i, p := range b.buf.Pos {
		b.pos[i] = position{
			xAdvance: font.emScaleX(int(p.XAdvance)),
			yAdvance: font.emScaleY(int(p.YAdvance)),
			xOffset:  font.emScaleX(int(p.XOffset)),
			yOffset:  font.emScaleY(int(p.YOffset)),
		}
	}
}

func toCodepoints(rs []rune) []ot.Codepoint {
	if len(rs) == 0 {
		return nil
	}
	out := make([]ot.Codepoint, len(rs))
	for i, r := range rs {
		out[i] = ot.Codepoint(r)
	}
	return out
}

func reverseCodepoints(cps []ot.Codepoint) []ot.Codepoint {
	for i, j := 0, len(cps)-1; i < j; i, j = i+1, j-1 {
		cps[i], cps[j] = cps[j], cps[i]
	}
	return cps
}
