package luahb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/boxesandglue/luatextshape/hb"
	"github.com/boxesandglue/luatextshape/internal/testutil"
)

// newState returns a Lua state with the module loaded as the global
// harfbuzz and Go Regular loaded as the global font.
func newState(t *testing.T, opts ...Option) *lua.LState {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)
	require.NoError(t, Preload(L, opts...))
	L.SetGlobal("FONT_DATA", lua.LString(string(testutil.GoRegular())))
	require.NoError(t, L.DoString(`
		harfbuzz = require("harfbuzz")
		local face = harfbuzz.Face.new_from_blob(harfbuzz.Blob.new(FONT_DATA))
		font = harfbuzz.Font.new(face)
	`))
	return L
}

// luaGlyphs converts the result of buf:get_glyphs() stored in global name.
func luaGlyphs(t *testing.T, L *lua.LState, name string) []hb.GlyphInfo {
	t.Helper()
	tbl, ok := L.GetGlobal(name).(*lua.LTable)
	require.True(t, ok, "global %s is not a table", name)
	var out []hb.GlyphInfo
	for i := 1; i <= tbl.Len(); i++ {
		entry := tbl.RawGetInt(i).(*lua.LTable)
		num := func(key string) int {
			return int(lua.LVAsNumber(entry.RawGetString(key)))
		}
		out = append(out, hb.GlyphInfo{
			Codepoint: uint32(num("codepoint")),
			Cluster:   num("cluster"),
			XAdvance:  num("x_advance"),
			YAdvance:  num("y_advance"),
			XOffset:   num("x_offset"),
			YOffset:   num("y_offset"),
		})
	}
	return out
}

// goShape shapes text directly through hb for comparison.
func goShape(t *testing.T, text string, features []hb.Feature, setup func(*hb.Buffer)) []hb.GlyphInfo {
	t.Helper()
	face, err := hb.NewFace(hb.NewBlob(testutil.GoRegular()), 0)
	require.NoError(t, err)
	font, err := hb.NewFont(face)
	require.NoError(t, err)
	buf := hb.NewBuffer()
	require.NoError(t, buf.AddUTF8(text, 0, -1))
	if setup != nil {
		setup(buf)
	}
	buf.GuessSegmentProperties()
	require.NoError(t, hb.ShapeFull(font, buf, features, nil))
	glyphs := buf.Glyphs()
	for i := range glyphs {
		glyphs[i].Mask = 0
	}
	return glyphs
}

func TestShapeFullMatchesGo(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("AVATAR office")
		buf:guess_segment_properties()
		harfbuzz.shape_full(font, buf, { harfbuzz.Feature.new("kern"), harfbuzz.Feature.new("-liga") })
		glyphs = buf:get_glyphs()
	`))

	features, err := hb.ParseFeatures("kern,-liga")
	require.NoError(t, err)
	assert.Equal(t, goShape(t, "AVATAR office", features, nil), luaGlyphs(t, L, "glyphs"))
}

func TestShapeFullNoFeatures(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("Hello")
		buf:guess_segment_properties()
		harfbuzz.shape_full(font, buf, {})
		glyphs = buf:get_glyphs()
	`))
	assert.Equal(t, goShape(t, "Hello", nil, nil), luaGlyphs(t, L, "glyphs"))
}

// shapedFeatures records the feature list of every shaping call.
func shapedFeatures(t *testing.T) func() []any {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	hb.SetLogger(zap.New(core))
	t.Cleanup(func() { hb.SetLogger(nil) })
	return func() []any {
		var out []any
		for _, e := range logs.TakeAll() {
			if e.Message == "shaped buffer" {
				out = append(out, e.ContextMap()["features"])
			}
		}
		return out
	}
}

func TestShapeFullKeepsFeatureOrder(t *testing.T) {
	taken := shapedFeatures(t)
	L := newState(t)
	require.NoError(t, L.DoString(`
		local Feature = harfbuzz.Feature
		local a = harfbuzz.Buffer.new()
		a:add_utf8("office")
		a:guess_segment_properties()
		harfbuzz.shape_full(font, a, { Feature.new("liga"), Feature.new("-liga"), Feature.new("kern[1:3]") })
		glyphs = a:get_glyphs()

		local b = harfbuzz.Buffer.new()
		b:add_utf8("office")
		b:guess_segment_properties()
		harfbuzz.shape_full(font, b, { Feature.new("kern[1:3]"), Feature.new("-liga"), Feature.new("liga") })
	`))
	assert.Equal(t, []any{
		[]any{"liga", "-liga", "kern[1:3]"},
		[]any{"kern[1:3]", "-liga", "liga"},
	}, taken())

	features, err := hb.ParseFeatures("liga,-liga,kern[1:3]")
	require.NoError(t, err)
	assert.Equal(t, goShape(t, "office", features, nil), luaGlyphs(t, L, "glyphs"))
}

func TestShapeFullShaperList(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("Hi")
		harfbuzz.shape_full(font, buf, {}, { "fallback" })
		glyphs = buf:get_glyphs()
		assert(glyphs[1].codepoint == font:get_nominal_glyph(72))
		assert(glyphs[1].x_advance == font:get_glyph_h_advance(glyphs[1].codepoint))
	`))

	err := L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("Hi")
		harfbuzz.shape_full(font, buf, {}, { "uniscribe" })
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable shaper")
}

func TestShapeFullArgumentErrors(t *testing.T) {
	// Every failing call passes more features than the pool allows, so a
	// scratch array taken before the type check would fail with an
	// allocation error instead.
	pool := hb.NewFeaturePool(1)
	L := newState(t, WithFeaturePool(pool))
	require.NoError(t, L.DoString(`
		buf = harfbuzz.Buffer.new()
		buf:add_utf8("abc")
		kern = harfbuzz.Feature.new("kern")
		five = { kern, kern, kern, kern, kern }
	`))

	tests := []struct {
		name  string
		chunk string
		want  string
	}{
		{"font", `harfbuzz.shape_full(1, buf, five)`, "harfbuzz.Font expected, got number"},
		{"buffer", `harfbuzz.shape_full(font, font, five)`, "harfbuzz.Buffer expected, got harfbuzz.Font"},
		{"features", `harfbuzz.shape_full(font, buf, "kern")`, "table expected"},
		{"element", `harfbuzz.shape_full(font, buf, { kern, "liga", kern, kern, kern })`, "harfbuzz.Feature expected at index 2, got string"},
		{"last element", `harfbuzz.shape_full(font, buf, { kern, kern, kern, kern, 5 })`, "harfbuzz.Feature expected at index 5, got number"},
		{"hole", `harfbuzz.shape_full(font, buf, { kern, nil, kern })`, "harfbuzz.Feature expected at index 2, got nil"},
		{"tag element", `harfbuzz.shape_full(font, buf, { harfbuzz.Tag.new("kern"), kern, kern, kern, kern })`, "harfbuzz.Feature expected at index 1, got harfbuzz.Tag"},
		{"shapers", `harfbuzz.shape_full(font, buf, five, { 1 })`, "string expected at index 1"},
		{"shape options", `harfbuzz.shape(font, buf, { kern, kern, kern, kern, "x" })`, "harfbuzz.Feature expected at index 5, got string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := L.DoString(tt.chunk)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, 0, pool.Outstanding())
		})
	}

	// Well-typed arguments reach the pool limit.
	err := L.DoString(`harfbuzz.shape_full(font, buf, five)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocation")
	assert.Equal(t, 0, pool.Outstanding())

	// The buffer is untouched by the failed calls.
	require.NoError(t, L.DoString(`
		assert(#buf == 3)
		harfbuzz.shape_full(font, buf, { kern })
	`))
	assert.Equal(t, 0, pool.Outstanding())
}

func TestShapeFullFeatureLimit(t *testing.T) {
	pool := hb.NewFeaturePool(2)
	L := newState(t, WithFeaturePool(pool))

	err := L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("abc")
		local f = harfbuzz.Feature.new("kern")
		harfbuzz.shape_full(font, buf, { f, f, f })
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocation")
	assert.Equal(t, 0, pool.Outstanding())

	require.NoError(t, L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("abc")
		local f = harfbuzz.Feature.new("kern")
		harfbuzz.shape_full(font, buf, { f, f })
	`))
	assert.Equal(t, 0, pool.Outstanding())
}

func TestShapeFullTwice(t *testing.T) {
	L := newState(t)
	err := L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("abc")
		harfbuzz.shape_full(font, buf, {})
		harfbuzz.shape_full(font, buf, {})
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already holds glyphs")
}

func TestShapeOptions(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("office")
		harfbuzz.shape(font, buf, {
			features = "kern,-liga",
			direction = "rtl",
			script = harfbuzz.Script.new("Latn"),
			language = "en",
		})
		glyphs = buf:get_glyphs()
		assert(buf:get_direction() == harfbuzz.Direction.RTL)
		assert(buf:get_language() == harfbuzz.Language.new("en"))
	`))

	features, err := hb.ParseFeatures("kern,-liga")
	require.NoError(t, err)
	want := goShape(t, "office", features, func(b *hb.Buffer) {
		b.SetDirection(hb.DirectionRTL)
		b.SetScript(hb.ParseScript("Latn"))
		b.SetLanguage(hb.ParseLanguage("en"))
	})
	assert.Equal(t, want, luaGlyphs(t, L, "glyphs"))
}

func TestShapeFeatureSequence(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		local a = harfbuzz.Buffer.new()
		a:add_utf8("Wave")
		a:guess_segment_properties()
		harfbuzz.shape(font, a, { harfbuzz.Feature.new("-kern") })
		first = a:get_glyphs()

		local b = harfbuzz.Buffer.new()
		b:add_utf8("Wave")
		harfbuzz.shape(font, b, { features = { harfbuzz.Feature.new("-kern") } })
		second = b:get_glyphs()

		local c = harfbuzz.Buffer.new()
		c:add_utf8("Wave")
		harfbuzz.shape(font, c)
		assert(#c == 4)
	`))
	assert.Equal(t, luaGlyphs(t, L, "first"), luaGlyphs(t, L, "second"))

	err := L.DoString(`
		local buf = harfbuzz.Buffer.new()
		buf:add_utf8("Wave")
		harfbuzz.shape(font, buf, { features = "kern,=1" })
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot parse")
}

func TestVersionAndShapers(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		version = harfbuzz.version()
		count = select("#", harfbuzz.shapers())
		first = harfbuzz.shapers()
		list = harfbuzz.list_shapers()
	`))
	assert.Equal(t, lua.LString(hb.Version()), L.GetGlobal("version"))
	assert.Equal(t, lua.LNumber(2), L.GetGlobal("count"))
	assert.Equal(t, lua.LString("ot"), L.GetGlobal("first"))

	list := L.GetGlobal("list").(*lua.LTable)
	require.Equal(t, 2, list.Len())
	assert.Equal(t, lua.LString("fallback"), list.RawGetInt(2))
}

func TestValueTypes(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		local Tag, Script, Direction, Language, Feature =
			harfbuzz.Tag, harfbuzz.Script, harfbuzz.Direction, harfbuzz.Language, harfbuzz.Feature

		assert(Tag.new("kern") == Tag.new("kern"))
		assert(Tag.new("kern") ~= Tag.new("liga"))
		assert(tostring(Tag.new("ab")) == "ab  ")
		assert(Tag.new() == Tag.NONE)

		assert(Script.new("latn") == Script.new("Latn"))
		assert(tostring(Script.COMMON) == "Zyyy")
		assert(tostring(Script.INVALID) == "")
		assert(Script.from_iso15924_tag(Tag.new("Qaai")) == Script.INHERITED)
		assert(Script.from_iso15924_tag("arab") == Script.new("Arab"))
		assert(Script.new("Arab"):to_iso15924_tag() == Tag.new("Arab"))

		assert(Direction.new("rtl") == Direction.RTL)
		assert(Direction.RTL:is_backward())
		assert(Direction.TTB:is_vertical())
		assert(not Direction.INVALID:is_valid())
		assert(tostring(Direction.LTR) == "ltr")

		assert(Language.new("en_US") == Language.new("en-us"))
		assert(tostring(Language.new("DE")) == "de")
		assert(Language.new() == Language.INVALID)

		local f = Feature.new("kern[3:5]=2")
		assert(tostring(f) == "kern[3:5]=2")
		assert(f:get_tag() == Tag.new("kern"))
		assert(f:get_value() == 2)
		assert(f:get_start() == 3)
		assert(f:get_end() == 5)
		assert(Feature.new("kern"):get_end() == 4294967295)
		assert(tostring(Feature.new("-liga")) == "-liga")
		assert(Feature.new("kern") == Feature.new("+kern"))
		assert(Feature.new("=1") == nil)

		assert(harfbuzz.unicode.script(0x0628) == Script.new("Arab"))
		assert(harfbuzz.unicode.script(0x20) == Script.COMMON)
	`))
}

func TestBufferAPI(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		local Buffer = harfbuzz.Buffer
		local buf = Buffer.new()
		buf:add_utf8("aé b")
		assert(#buf == 4)
		assert(buf:get_length() == 4)
		local glyphs = buf:get_glyphs()
		assert(glyphs[2].codepoint == 0xE9)
		assert(glyphs[3].cluster == 3)

		buf:guess_segment_properties()
		assert(buf:get_script() == harfbuzz.Script.new("Latn"))
		assert(buf:get_direction() == harfbuzz.Direction.LTR)

		buf:set_cluster_level(Buffer.CLUSTER_LEVEL_CHARACTERS)
		assert(buf:get_cluster_level() == 2)
		buf:set_flags(Buffer.FLAG_BOT + Buffer.FLAG_EOT)
		assert(buf:get_flags() == 3)

		buf:reverse()
		assert(buf:get_glyphs()[1].cluster == 4)

		buf:clear_contents()
		assert(#buf == 0)
		assert(buf:get_flags() == 3)
		buf:reset()
		assert(buf:get_flags() == Buffer.FLAG_DEFAULT)
		assert(buf:get_cluster_level() == Buffer.CLUSTER_LEVEL_DEFAULT)

		buf:add_codepoints({ 0x61, 0x62, 0x63, 0x64 }, 1, 2)
		assert(#buf == 2)
		assert(buf:get_glyphs()[1].cluster == 1)

		local other = Buffer.new()
		other:add_utf8("hello world", 6)
		assert(#other == 5)
		assert(other:get_glyphs()[1].cluster == 6)

		local long = Buffer.new()
		long:add_utf8(string.rep("a", 2048), 1024, 9223372036854774784)
		assert(#long == 1024)
	`))

	err := L.DoString(`harfbuzz.Buffer.new():set_direction(42)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "harfbuzz.Direction expected, got number")

	err = L.DoString(`harfbuzz.Buffer.new():add_utf8("abc", 10)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestFaceAndFont(t *testing.T) {
	L := newState(t)
	L.SetGlobal("FONT_PATH", lua.LString(testutil.WriteGoRegular(t)))

	face, err := hb.NewFace(hb.NewBlob(testutil.GoRegular()), 0)
	require.NoError(t, err)
	gid, ok := face.NominalGlyph('A')
	require.True(t, ok)
	L.SetGlobal("UPEM", lua.LNumber(face.Upem()))
	L.SetGlobal("GID_A", lua.LNumber(gid))

	require.NoError(t, L.DoString(`
		local face = harfbuzz.Face.new(FONT_PATH)
		assert(face:get_upem() == UPEM)
		assert(face:get_index() == 0)
		assert(face:get_glyph_count() > 0)
		assert(face:get_table("cmap"):length() > 0)
		assert(face:get_table(harfbuzz.Tag.new("zzzz")):length() == 0)
		local unicodes = face:collect_unicodes()
		assert(#unicodes > 0)
		assert(unicodes[1] < unicodes[#unicodes])

		local missing, msg = harfbuzz.Face.new("does/not/exist.ttf")
		assert(missing == nil and type(msg) == "string")

		local f = harfbuzz.Font.new(face)
		assert(f:get_face():get_upem() == UPEM)
		local x, y = f:get_scale()
		assert(x == UPEM and y == UPEM)
		assert(f:get_nominal_glyph(65) == GID_A)
		assert(f:get_nominal_glyph(0x10FFFF) == nil)
		local adv = f:get_glyph_h_advance(GID_A)
		assert(adv > 0)
		assert(f:get_glyph_from_name(f:get_glyph_name(GID_A)) == GID_A)
		assert(f:get_h_extents().ascender > 0)

		f:set_scale(UPEM * 2)
		assert(f:get_glyph_h_advance(GID_A) == adv * 2)

		local blob = harfbuzz.Blob.new("abc")
		assert(blob:length() == 3 and blob:get_data() == "abc")
		local nothing, err = harfbuzz.Face.new_from_blob(blob)
		assert(nothing == nil and err ~= nil)
	`))

	err = L.DoString(`font:get_glyph_name(-1)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glyph index out of range")

	err = L.DoString(`harfbuzz.Font.get_scale(harfbuzz.Buffer.new())`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "harfbuzz.Font expected, got harfbuzz.Buffer")
}

func TestPreloadAlias(t *testing.T) {
	L := newState(t)
	require.NoError(t, L.DoString(`
		local alias = require("luaharfbuzz")
		assert(alias.version() == harfbuzz.version())
		assert(alias.Direction.LTR == harfbuzz.Direction.LTR)
	`))
}

func TestOpen(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	mod, err := Open(L, WithModuleName("hb"), WithShapers("fallback"))
	require.NoError(t, err)
	assert.Equal(t, mod, L.GetGlobal("hb"))
	require.NoError(t, L.DoString(`assert(hb.list_shapers()[1] == "ot")`))
}

func TestLoader(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	loader, err := Loader()
	require.NoError(t, err)
	L.PreloadModule("shaping", loader)
	require.NoError(t, L.DoString(`assert(require("shaping").Buffer.new() ~= nil)`))
}

func TestConfigValidation(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	assert.Error(t, Preload(L, WithModuleName("")))
	assert.Error(t, Preload(L, WithMaxFeatures(-1)))
	assert.Error(t, Preload(L, WithShapers("ot", "")))

	cfg, err := newConfig(WithMaxFeatures(8))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Pool.Max())
	assert.NotNil(t, cfg.Logger)

	cfg, err = newConfig()
	require.NoError(t, err)
	assert.Same(t, hb.DefaultFeaturePool, cfg.Pool)
	assert.Equal(t, hb.DefaultMaxFeatures, cfg.Pool.Max())

	cfg, err = newConfig(WithMaxFeatures(0))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Pool.Max())
	scratch, err := cfg.Pool.Acquire(hb.DefaultMaxFeatures + 1)
	require.NoError(t, err)
	scratch.Release()
}
