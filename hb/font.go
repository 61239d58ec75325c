package hb

import (
	"github.com/boxesandglue/textshape/ot"
)

// FontExtents are the scaled horizontal line metrics of a font.
type FontExtents struct {
	Ascender  int
	Descender int
	LineGap   int
}

// Font is a face at a given scale, ready for shaping. The scale defaults to
// the face's upem, so shaped positions come out in font units.
type Font struct {
	face   *Face
	shaper *ot.Shaper
	xScale int
	yScale int
}

// NewFont creates a font and its shaper for face.
func NewFont(face *Face) (*Font, error) {
	if face == nil {
		return nil, TypeMismatch("font", 1, "Face", "nil")
	}
	shaper, err := ot.NewShaperFromFace(face.face)
	if err != nil {
		return nil, &Error{Op: "font", Kind: KindInvalidInput, Cause: err}
	}
	upem := face.Upem()
	return &Font{face: face, shaper: shaper, xScale: upem, yScale: upem}, nil
}

// Face returns the font's face.
func (f *Font) Face() *Face {
	return f.face
}

// Scale returns the x and y scale.
func (f *Font) Scale() (x, y int) {
	return f.xScale, f.yScale
}

// SetScale sets the x and y scale. Positions are multiplied by scale/upem.
func (f *Font) SetScale(x, y int) {
	f.xScale, f.yScale = x, y
}

// HExtents returns the scaled ascender, descender and line gap.
func (f *Font) HExtents() FontExtents {
	ext := f.face.hExtents()
	return FontExtents{
		Ascender:  f.emScaleY(int(ext.Ascender)),
		Descender: f.emScaleY(int(ext.Descender)),
		LineGap:   f.emScaleY(int(ext.LineGap)),
	}
}

// NominalGlyph maps r through the face's cmap.
func (f *Font) NominalGlyph(r rune) (GlyphID, bool) {
	return f.face.NominalGlyph(r)
}

// GlyphHAdvance returns the scaled horizontal advance of g.
func (f *Font) GlyphHAdvance(g GlyphID) int {
	return f.emScaleX(f.face.horizontalAdvance(g))
}

// GlyphName returns the name of g from the post or CFF table, or "gidN".
func (f *Font) GlyphName(g GlyphID) string {
	return f.face.font.GetGlyphName(g)
}

// GlyphFromName resolves a glyph name, "gidN", "uniXXXX" or a bare index.
func (f *Font) GlyphFromName(name string) (GlyphID, bool) {
	return f.face.font.GetGlyphFromName(name)
}

func (f *Font) emScaleX(v int) int {
	return emScale(v, f.xScale, f.face.Upem())
}

func (f *Font) emScaleY(v int) int {
	return emScale(v, f.yScale, f.face.Upem())
}

// emScale computes v*scale/upem rounded half away from zero.
func emScale(v, scale, upem int) int {
	if scale == upem || upem == 0 {
		return v
	}
	n := int64(v) * int64(scale)
	d := int64(upem)
	if n >= 0 {
		return int((n + d/2) / d)
	}
	return int(-((-n + d/2) / d))
}
