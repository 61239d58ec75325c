package hb

import (
	"fmt"
	"sort"

	"github.com/boxesandglue/textshape/ot"
)

// GlyphID is a glyph index in a face.
type GlyphID = ot.GlyphID

// Face is one face of a font file. Collections (.ttc, .dfont) hold several
// faces, selected by index.
type Face struct {
	blob  *Blob
	index int
	font  *ot.Font
	face  *ot.Face
}

// NewFace parses face index of blob.
func NewFace(blob *Blob, index int) (*Face, error) {
	if blob == nil {
		return nil, TypeMismatch("face", 1, "Blob", "nil")
	}
	font, err := ot.ParseFont(blob.data, index)
	if err != nil {
		return nil, &Error{Op: "face", Kind: KindInvalidInput, Detail: fmt.Sprintf("face %d", index), Cause: err}
	}
	face, err := ot.NewFace(font)
	if err != nil {
		return nil, &Error{Op: "face", Kind: KindInvalidInput, Detail: fmt.Sprintf("face %d", index), Cause: err}
	}
	return &Face{blob: blob, index: index, font: font, face: face}, nil
}

// NewFaceFromFile reads path and parses face index.
func NewFaceFromFile(path string, index int) (*Face, error) {
	blob, err := NewBlobFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewFace(blob, index)
}

// Blob returns the data the face was parsed from.
func (f *Face) Blob() *Blob {
	return f.blob
}

// Index returns the face index within its blob.
func (f *Face) Index() int {
	return f.index
}

// Upem returns the units per em.
func (f *Face) Upem() int {
	return int(f.face.Upem())
}

// GlyphCount returns the number of glyphs.
func (f *Face) GlyphCount() int {
	return f.font.NumGlyphs()
}

// HasTable reports whether the face has the table tag.
func (f *Face) HasTable(tag Tag) bool {
	return f.font.HasTable(tag)
}

// Table returns table tag as a blob. A missing table yields an empty blob.
// HarfBuzz equivalent: hb_face_reference_table()
func (f *Face) Table(tag Tag) *Blob {
	if !f.font.HasTable(tag) {
		return &Blob{}
	}
	data, err := f.font.TableData(tag)
	if err != nil {
		return &Blob{}
	}
	return &Blob{data: data}
}

// NominalGlyph maps r through the cmap.
func (f *Face) NominalGlyph(r rune) (GlyphID, bool) {
	cmap := f.face.Cmap()
	if cmap == nil {
		return 0, false
	}
	return cmap.Lookup(ot.Codepoint(r))
}

// Unicodes returns every codepoint the cmap maps, in ascending order.
// HarfBuzz equivalent: hb_face_collect_unicodes()
func (f *Face) Unicodes() []rune {
	cmap := f.face.Cmap()
	if cmap == nil {
		return nil
	}
	seen := make(map[rune]struct{})
	var out []rune
	for it := cmap.Iter(); it.Next(); {
		r, _ := it.Char()
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (f *Face) horizontalAdvance(g GlyphID) int {
	return int(f.face.HorizontalAdvance(g))
}

func (f *Face) hExtents() ot.FontExtents {
	return f.face.GetHExtents()
}
