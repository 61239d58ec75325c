package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var fontClass = class{
	typeName: fontTypeName,
	field:    "Font",
	statics: map[string]lua.LGFunction{
		"new": fontNew,
	},
	methods: map[string]lua.LGFunction{
		"get_face":            fontGetFace,
		"get_scale":           fontGetScale,
		"set_scale":           fontSetScale,
		"get_h_extents":       fontGetHExtents,
		"get_nominal_glyph":   fontGetNominalGlyph,
		"get_glyph_h_advance": fontGetGlyphHAdvance,
		"get_glyph_name":      fontGetGlyphName,
		"get_glyph_from_name": fontGetGlyphFromName,
	},
}

func checkFont(L *lua.LState, n int) *hb.Font {
	return check[*hb.Font](L, n, fontTypeName)
}

func checkGlyph(L *lua.LState, n int) hb.GlyphID {
	gid := L.CheckInt(n)
	if gid < 0 || gid > 0xFFFF {
		L.ArgError(n, "glyph index out of range")
	}
	return hb.GlyphID(gid)
}

// Font.new(face)
func fontNew(L *lua.LState) int {
	font, err := hb.NewFont(checkFace(L, 1))
	if err != nil {
		return failure(L, err)
	}
	push(L, font, fontTypeName)
	return 1
}

func fontGetFace(L *lua.LState) int {
	push(L, checkFont(L, 1).Face(), faceTypeName)
	return 1
}

func fontGetScale(L *lua.LState) int {
	x, y := checkFont(L, 1).Scale()
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

// font:set_scale(x[, y]); y defaults to x.
func fontSetScale(L *lua.LState) int {
	font := checkFont(L, 1)
	x := L.CheckInt(2)
	y := L.OptInt(3, x)
	font.SetScale(x, y)
	return 0
}

func fontGetHExtents(L *lua.LState) int {
	ext := checkFont(L, 1).HExtents()
	tbl := L.NewTable()
	tbl.RawSetString("ascender", lua.LNumber(ext.Ascender))
	tbl.RawSetString("descender", lua.LNumber(ext.Descender))
	tbl.RawSetString("line_gap", lua.LNumber(ext.LineGap))
	L.Push(tbl)
	return 1
}

// font:get_nominal_glyph(codepoint) returns nil for unmapped codepoints.
func fontGetNominalGlyph(L *lua.LState) int {
	font := checkFont(L, 1)
	gid, ok := font.NominalGlyph(rune(L.CheckInt(2)))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(gid))
	return 1
}

func fontGetGlyphHAdvance(L *lua.LState) int {
	font := checkFont(L, 1)
	L.Push(lua.LNumber(font.GlyphHAdvance(checkGlyph(L, 2))))
	return 1
}

func fontGetGlyphName(L *lua.LState) int {
	font := checkFont(L, 1)
	L.Push(lua.LString(font.GlyphName(checkGlyph(L, 2))))
	return 1
}

func fontGetGlyphFromName(L *lua.LState) int {
	font := checkFont(L, 1)
	gid, ok := font.GlyphFromName(L.CheckString(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(gid))
	return 1
}
