package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var tagClass = class{
	typeName: tagTypeName,
	field:    "Tag",
	statics: map[string]lua.LGFunction{
		"new": tagNew,
	},
	meta: map[string]lua.LGFunction{
		"__tostring": tagToString,
		"__eq":       tagEq,
	},
	constants: func(L *lua.LState, tbl *lua.LTable) {
		tbl.RawSetString("NONE", wrap(L, hb.TagNone, tagTypeName))
	},
}

// Tag.new([string]); no argument gives Tag.NONE.
func tagNew(L *lua.LState) int {
	push(L, hb.TagFromString(L.OptString(1, "")), tagTypeName)
	return 1
}

func tagToString(L *lua.LState) int {
	L.Push(lua.LString(hb.TagString(check[hb.Tag](L, 1, tagTypeName))))
	return 1
}

func tagEq(L *lua.LState) int {
	a, aok := as[hb.Tag](L.Get(1))
	b, bok := as[hb.Tag](L.Get(2))
	L.Push(lua.LBool(aok && bok && a == b))
	return 1
}
