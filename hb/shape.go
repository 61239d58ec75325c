package hb

import (
	"github.com/boxesandglue/textshape/ot"
	"go.uber.org/zap"
)

// shaperFunc shapes the engine buffer in place, leaving positions in font
// units.
type shaperFunc func(font *Font, buf *ot.Buffer, features []Feature)

type shaperEntry struct {
	name  string
	shape shaperFunc
}

// shapers in preference order.
var shapers = []shaperEntry{
	{"ot", shapeOT},
	{"fallback", shapeFallback},
}

// Shapers returns the names of the available shaper backends in preference
// order.
// HarfBuzz equivalent: hb_shape_list_shapers()
func Shapers() []string {
	names := make([]string, len(shapers))
	for i, s := range shapers {
		names[i] = s.name
	}
	return names
}

// ShapeFull shapes buf with font. features are applied on top of the
// shaper's defaults; nil or empty means defaults only. shaperList picks the
// first available backend by name; nil means all backends in preference
// order. Unknown names are skipped.
// HarfBuzz equivalent: hb_shape_full()
func ShapeFull(font *Font, buf *Buffer, features []Feature, shaperList []string) error {
	if font == nil {
		return TypeMismatch("shape_full", 1, "Font", "nil")
	}
	if buf == nil {
		return TypeMismatch("shape_full", 2, "Buffer", "nil")
	}
	if buf.content == ContentGlyphs {
		return InvalidInput("shape_full", "buffer already holds glyphs")
	}
	entry, ok := selectShaper(shaperList)
	if !ok {
		return &Error{Op: "shape_full", Kind: KindNotFound, Cause: ErrNoShaper}
	}
	if buf.Len() == 0 {
		return nil
	}

	buf.prepare()
	entry.shape(font, buf.buf, features)
	buf.finish(font)

	if ce := Logger().Check(zap.DebugLevel, "shaped buffer"); ce != nil {
		names := make([]string, len(features))
		for i, f := range features {
			names[i] = FeatureString(f)
		}
		ce.Write(
			zap.String("shaper", entry.name),
			zap.Strings("features", names),
			zap.Int("glyphs", buf.Len()),
			zap.Stringer("direction", buf.direction),
			zap.Stringer("script", buf.script),
		)
	}
	return nil
}

// Shape is ShapeFull with every shaper allowed.
// HarfBuzz equivalent: hb_shape()
func Shape(font *Font, buf *Buffer, features []Feature) error {
	return ShapeFull(font, buf, features, nil)
}

func selectShaper(names []string) (shaperEntry, bool) {
	if names == nil {
		return shapers[0], true
	}
	for _, name := range names {
		for _, s := range shapers {
			if s.name == name {
				return s, true
			}
		}
		Logger().Warn("unknown shaper", zap.String("shaper", name))
	}
	return shaperEntry{}, false
}

func shapeOT(font *Font, buf *ot.Buffer, features []Feature) {
	font.shaper.Shape(buf, features)
}

// shapeFallback maps nominal glyphs and takes advances from hmtx, with no
// GSUB or GPOS processing. Features are ignored.
// HarfBuzz equivalent: _hb_fallback_shape()
func shapeFallback(font *Font, buf *ot.Buffer, _ []Feature) {
	buf.GuessSegmentProperties()
	upem := font.face.Upem()
	vertical := buf.Direction.IsVertical()
	for i := range buf.Info {
		gid, _ := font.face.NominalGlyph(rune(buf.Info[i].Codepoint))
		buf.Info[i].GlyphID = gid
		var pos ot.GlyphPos
		if vertical {
			pos.YAdvance = int16(-upem)
		} else {
			pos.XAdvance = int16(font.face.horizontalAdvance(gid))
		}
		buf.Pos[i] = pos
	}
	if buf.Direction.IsBackward() {
		buf.Reverse()
	}
}
