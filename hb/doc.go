// Package hb is the object model shared by the scripting bindings.
//
// It wraps the textshape OpenType engine (github.com/boxesandglue/textshape/ot)
// in the HarfBuzz vocabulary the bindings expose: Blob, Face, Font, Buffer,
// Feature, Tag, Script, Direction and Language. Shaping itself is done by the
// engine; this package only converts values, selects a shaper backend and
// scales the engine's font-unit output.
//
// A typical call sequence:
//
//	face, err := hb.NewFaceFromFile("DejaVuSans.ttf", 0)
//	font, err := hb.NewFont(face)
//	buf := hb.NewBuffer()
//	buf.AddUTF8("affinity", 0, -1)
//	buf.GuessSegmentProperties()
//	err = hb.ShapeFull(font, buf, nil, nil)
//	for _, g := range buf.Glyphs() { ... }
package hb
