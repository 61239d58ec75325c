package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var faceClass = class{
	typeName: faceTypeName,
	field:    "Face",
	statics: map[string]lua.LGFunction{
		"new":           faceNew,
		"new_from_blob": faceNewFromBlob,
	},
	methods: map[string]lua.LGFunction{
		"get_glyph_count":  faceGetGlyphCount,
		"get_upem":         faceGetUpem,
		"get_index":        faceGetIndex,
		"get_table":        faceGetTable,
		"collect_unicodes": faceCollectUnicodes,
	},
}

func checkFace(L *lua.LState, n int) *hb.Face {
	return check[*hb.Face](L, n, faceTypeName)
}

// Face.new(path[, index])
func faceNew(L *lua.LState) int {
	face, err := hb.NewFaceFromFile(L.CheckString(1), L.OptInt(2, 0))
	if err != nil {
		return failure(L, err)
	}
	push(L, face, faceTypeName)
	return 1
}

// Face.new_from_blob(blob[, index])
func faceNewFromBlob(L *lua.LState) int {
	face, err := hb.NewFace(checkBlob(L, 1), L.OptInt(2, 0))
	if err != nil {
		return failure(L, err)
	}
	push(L, face, faceTypeName)
	return 1
}

func faceGetGlyphCount(L *lua.LState) int {
	L.Push(lua.LNumber(checkFace(L, 1).GlyphCount()))
	return 1
}

func faceGetUpem(L *lua.LState) int {
	L.Push(lua.LNumber(checkFace(L, 1).Upem()))
	return 1
}

func faceGetIndex(L *lua.LState) int {
	L.Push(lua.LNumber(checkFace(L, 1).Index()))
	return 1
}

// face:get_table(tag) returns an empty Blob for a missing table.
func faceGetTable(L *lua.LState) int {
	face := checkFace(L, 1)
	push(L, face.Table(checkTag(L, 2)), blobTypeName)
	return 1
}

func faceCollectUnicodes(L *lua.LState) int {
	face := checkFace(L, 1)
	tbl := L.NewTable()
	for _, r := range face.Unicodes() {
		tbl.Append(lua.LNumber(r))
	}
	L.Push(tbl)
	return 1
}
