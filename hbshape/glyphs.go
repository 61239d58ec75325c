package hbshape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/boxesandglue/luatextshape/hb"
)

// Glyph is one entry of a serialized glyph string.
type Glyph struct {
	Name     string
	Cluster  int // -1 when the string carries no cluster
	XOffset  int
	YOffset  int
	XAdvance int
	YAdvance int
	// HasPositions is set when the entry carries an advance.
	HasPositions bool
}

// Format selects the parts written by FormatGlyphs.
type Format struct {
	NoClusters  bool
	NoPositions bool
}

// FormatOf returns the output format selected by o.
func FormatOf(o *Options) Format {
	return Format{NoClusters: o.NoClusters, NoPositions: o.NoPositions}
}

// GlyphsOf converts the shaped contents of buf. Glyph names come from font
// unless noNames is set, in which case glyph indices are used.
func GlyphsOf(font *hb.Font, buf *hb.Buffer, noNames bool) []Glyph {
	infos := buf.Glyphs()
	out := make([]Glyph, len(infos))
	for i, g := range infos {
		name := strconv.FormatUint(uint64(g.Codepoint), 10)
		if !noNames {
			name = font.GlyphName(hb.GlyphID(g.Codepoint))
		}
		out[i] = Glyph{
			Name:         name,
			Cluster:      g.Cluster,
			XOffset:      g.XOffset,
			YOffset:      g.YOffset,
			XAdvance:     g.XAdvance,
			YAdvance:     g.YAdvance,
			HasPositions: true,
		}
	}
	return out
}

// FormatGlyphs writes glyphs the way hb-shape does:
// "[name=cluster@xoff,yoff+xadv,yadv|...]". Zero offsets and a zero y
// advance are left out.
func FormatGlyphs(glyphs []Glyph, f Format) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, g := range glyphs {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(g.Name)
		if !f.NoClusters && g.Cluster >= 0 {
			fmt.Fprintf(&b, "=%d", g.Cluster)
		}
		if f.NoPositions || !g.HasPositions {
			continue
		}
		if g.XOffset != 0 || g.YOffset != 0 {
			fmt.Fprintf(&b, "@%d,%d", g.XOffset, g.YOffset)
		}
		fmt.Fprintf(&b, "+%d", g.XAdvance)
		if g.YAdvance != 0 {
			fmt.Fprintf(&b, ",%d", g.YAdvance)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Serialize formats the shaped contents of buf as selected by o.
func Serialize(font *hb.Font, buf *hb.Buffer, o *Options) string {
	return FormatGlyphs(GlyphsOf(font, buf, o.NoGlyphNames), FormatOf(o))
}

// glyphPattern matches one entry: name, optional =cluster, optional
// @xoff,yoff, optional +xadv[,yadv], then extents and flags, which are
// ignored.
var glyphPattern = regexp.MustCompile(`^([^=@+<#|]+)(?:=(\d+))?(?:@(-?\d+),(-?\d+))?(?:\+(-?\d+)(?:,(-?\d+))?)?(?:<[^>]*>)?(?:#[0-9A-Fa-f]+)?$`)

// ParseGlyphs parses a glyph string written by hb-shape or FormatGlyphs.
func ParseGlyphs(s string) ([]Glyph, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("glyph string must be wrapped in []")
	}
	s = s[1 : len(s)-1]
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, "|")
	glyphs := make([]Glyph, 0, len(parts))
	for _, p := range parts {
		m := glyphPattern.FindStringSubmatch(strings.TrimSpace(p))
		if m == nil {
			return nil, fmt.Errorf("invalid glyph %q", p)
		}
		g := Glyph{Name: m[1], Cluster: -1}
		if m[2] != "" {
			g.Cluster, _ = strconv.Atoi(m[2])
		}
		if m[3] != "" {
			g.XOffset, _ = strconv.Atoi(m[3])
			g.YOffset, _ = strconv.Atoi(m[4])
		}
		if m[5] != "" {
			g.HasPositions = true
			g.XAdvance, _ = strconv.Atoi(m[5])
		}
		if m[6] != "" {
			g.YAdvance, _ = strconv.Atoi(m[6])
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}

// Shape runs a complete hb-shape invocation on font: fill a buffer from o,
// shape it with o's features and shapers and return the buffer.
func Shape(font *hb.Font, o *Options) (*hb.Buffer, error) {
	if o.FontSize > 0 {
		font.SetScale(o.FontSize, o.FontSize)
	}
	buf := hb.NewBuffer()
	if err := o.Apply(buf, o.Input()); err != nil {
		return nil, err
	}
	if err := hb.ShapeFull(font, buf, o.Features, o.Shapers()); err != nil {
		return nil, err
	}
	return buf, nil
}
