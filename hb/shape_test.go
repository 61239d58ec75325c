package hb

import (
	"testing"

	"github.com/boxesandglue/luatextshape/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestFont(t *testing.T) *Font {
	t.Helper()
	face, err := NewFace(NewBlob(testutil.GoRegular()), 0)
	require.NoError(t, err)
	font, err := NewFont(face)
	require.NoError(t, err)
	return font
}

func shapeText(t *testing.T, font *Font, text string, features []Feature, shapers []string) []GlyphInfo {
	t.Helper()
	buf := NewBuffer()
	require.NoError(t, buf.AddUTF8(text, 0, -1))
	buf.GuessSegmentProperties()
	require.NoError(t, ShapeFull(font, buf, features, shapers))
	require.Equal(t, ContentGlyphs, buf.Content())
	return buf.Glyphs()
}

func TestFaceBasics(t *testing.T) {
	font := newTestFont(t)
	face := font.Face()

	assert.Positive(t, face.Upem())
	assert.Positive(t, face.GlyphCount())
	assert.Equal(t, 0, face.Index())
	assert.Equal(t, len(testutil.GoRegular()), face.Blob().Len())

	assert.True(t, face.HasTable(TagFromString("cmap")))
	assert.Positive(t, face.Table(TagFromString("cmap")).Len())
	assert.Equal(t, 0, face.Table(TagFromString("zzzz")).Len())

	gid, ok := face.NominalGlyph('A')
	require.True(t, ok)
	assert.NotZero(t, gid)

	unicodes := face.Unicodes()
	assert.Contains(t, unicodes, 'A')
	assert.IsIncreasing(t, unicodes)
}

func TestNewFaceErrors(t *testing.T) {
	_, err := NewFace(nil, 0)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewFace(NewBlob([]byte("not a font")), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewFaceFromFile("does/not/exist.ttf", 0)
	require.Error(t, err)
	var hbErr *Error
	require.ErrorAs(t, err, &hbErr)
	assert.Equal(t, KindIO, hbErr.Kind)

	_, err = NewFont(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFaceFromFile(t *testing.T) {
	face, err := NewFaceFromFile(testutil.WriteGoRegular(t), 0)
	require.NoError(t, err)
	assert.Positive(t, face.GlyphCount())
}

func TestFontMetrics(t *testing.T) {
	font := newTestFont(t)
	upem := font.Face().Upem()

	x, y := font.Scale()
	assert.Equal(t, upem, x)
	assert.Equal(t, upem, y)

	ext := font.HExtents()
	assert.Positive(t, ext.Ascender)
	assert.Negative(t, ext.Descender)

	gid, ok := font.NominalGlyph('A')
	require.True(t, ok)
	adv := font.GlyphHAdvance(gid)
	assert.Positive(t, adv)

	font.SetScale(2*upem, 2*upem)
	assert.Equal(t, 2*adv, font.GlyphHAdvance(gid))
	assert.Equal(t, 2*ext.Ascender, font.HExtents().Ascender)

	name := font.GlyphName(gid)
	require.NotEmpty(t, name)
	back, ok := font.GlyphFromName(name)
	require.True(t, ok)
	assert.Equal(t, gid, back)
}

func TestEmScale(t *testing.T) {
	assert.Equal(t, 100, emScale(100, 1000, 1000))
	assert.Equal(t, 50, emScale(100, 500, 1000))
	assert.Equal(t, 2, emScale(3, 500, 1000))
	assert.Equal(t, -2, emScale(-3, 500, 1000))
	assert.Equal(t, 7, emScale(7, 10, 0))
}

func TestShapeFullTypeErrors(t *testing.T) {
	font := newTestFont(t)

	err := ShapeFull(nil, NewBuffer(), nil, nil)
	require.ErrorIs(t, err, ErrTypeMismatch)
	var hbErr *Error
	require.ErrorAs(t, err, &hbErr)
	assert.Equal(t, 1, hbErr.Arg)

	err = ShapeFull(font, nil, nil, nil)
	require.ErrorAs(t, err, &hbErr)
	assert.Equal(t, 2, hbErr.Arg)
}

func TestShapeFullEmptyBuffer(t *testing.T) {
	font := newTestFont(t)
	buf := NewBuffer()
	require.NoError(t, ShapeFull(font, buf, nil, nil))
	assert.Equal(t, 0, buf.Len())
	assert.Empty(t, buf.Glyphs())
}

func TestShapeFullLatin(t *testing.T) {
	font := newTestFont(t)
	glyphs := shapeText(t, font, "Hello", nil, nil)

	require.Len(t, glyphs, 5)
	for i, g := range glyphs {
		assert.Equal(t, i, g.Cluster)
		assert.NotZero(t, g.Codepoint)
		assert.Positive(t, g.XAdvance)
	}
}

func TestShapeFullDeterministic(t *testing.T) {
	font := newTestFont(t)
	kern := []Feature{NewFeature(TagFromString("kern"), 1, FeatureGlobalStart, FeatureGlobalEnd)}

	first := shapeText(t, font, "AVATAR Wolf", kern, nil)
	second := shapeText(t, font, "AVATAR Wolf", kern, nil)
	assert.Equal(t, first, second)
}

func TestShapeFullEmptyFeaturesMatchNil(t *testing.T) {
	font := newTestFont(t)
	assert.Equal(t,
		shapeText(t, font, "office", nil, nil),
		shapeText(t, font, "office", []Feature{}, nil))
}

func TestShapeFullTwice(t *testing.T) {
	font := newTestFont(t)
	buf := NewBuffer()
	require.NoError(t, buf.AddUTF8("abc", 0, -1))
	require.NoError(t, Shape(font, buf, nil))

	err := Shape(font, buf, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestShapeFullUnknownShaper(t *testing.T) {
	font := newTestFont(t)
	buf := NewBuffer()
	require.NoError(t, buf.AddUTF8("abc", 0, -1))

	err := ShapeFull(font, buf, nil, []string{"coretext"})
	assert.ErrorIs(t, err, ErrNoShaper)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, ContentUnicode, buf.Content())

	err = ShapeFull(font, buf, nil, []string{})
	assert.ErrorIs(t, err, ErrNoShaper)

	require.NoError(t, ShapeFull(font, buf, nil, []string{"coretext", "ot"}))
}

func TestShapeFallback(t *testing.T) {
	font := newTestFont(t)
	glyphs := shapeText(t, font, "Hi!", nil, []string{"fallback"})

	require.Len(t, glyphs, 3)
	for i, r := range "Hi!" {
		gid, ok := font.NominalGlyph(r)
		require.True(t, ok)
		assert.Equal(t, uint32(gid), glyphs[i].Codepoint)
		assert.Equal(t, font.GlyphHAdvance(gid), glyphs[i].XAdvance)
		assert.Equal(t, 0, glyphs[i].XOffset)
	}
}

func TestShapeFallbackRTL(t *testing.T) {
	font := newTestFont(t)
	buf := NewBuffer()
	require.NoError(t, buf.AddUTF8("abc", 0, -1))
	buf.SetDirection(DirectionRTL)
	require.NoError(t, ShapeFull(font, buf, nil, []string{"fallback"}))

	glyphs := buf.Glyphs()
	require.Len(t, glyphs, 3)
	assert.Equal(t, []int{2, 1, 0}, []int{glyphs[0].Cluster, glyphs[1].Cluster, glyphs[2].Cluster})
}

func TestShapeScaled(t *testing.T) {
	font := newTestFont(t)
	unscaled := shapeText(t, font, "Hello", nil, nil)

	upem := font.Face().Upem()
	font.SetScale(2*upem, 2*upem)
	scaled := shapeText(t, font, "Hello", nil, nil)

	require.Len(t, scaled, len(unscaled))
	for i := range scaled {
		assert.Equal(t, unscaled[i].Codepoint, scaled[i].Codepoint)
		assert.Equal(t, 2*unscaled[i].XAdvance, scaled[i].XAdvance)
	}
}

func TestShapeFullLogsFeaturesInOrder(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	font := newTestFont(t)
	features, err := ParseFeatures("liga,-liga,kern[1:3]")
	require.NoError(t, err)
	shapeText(t, font, "office", features, nil)

	entries := logs.FilterMessage("shaped buffer").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []any{"liga", "-liga", "kern[1:3]"}, entries[0].ContextMap()["features"])
	assert.Equal(t, "ot", entries[0].ContextMap()["shaper"])
}
