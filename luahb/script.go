package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var scriptClass = class{
	typeName: scriptTypeName,
	field:    "Script",
	statics: map[string]lua.LGFunction{
		"new":               scriptNew,
		"from_iso15924_tag": scriptFromISO15924Tag,
	},
	methods: map[string]lua.LGFunction{
		"to_iso15924_tag": scriptToISO15924Tag,
	},
	meta: map[string]lua.LGFunction{
		"__tostring": scriptToString,
		"__eq":       scriptEq,
	},
	constants: func(L *lua.LState, tbl *lua.LTable) {
		tbl.RawSetString("COMMON", wrap(L, hb.ScriptCommon, scriptTypeName))
		tbl.RawSetString("INHERITED", wrap(L, hb.ScriptInherited, scriptTypeName))
		tbl.RawSetString("UNKNOWN", wrap(L, hb.ScriptUnknown, scriptTypeName))
		tbl.RawSetString("INVALID", wrap(L, hb.ScriptInvalid, scriptTypeName))
	},
}

func checkScript(L *lua.LState, n int) hb.Script {
	return check[hb.Script](L, n, scriptTypeName)
}

// Script.new([string])
func scriptNew(L *lua.LState) int {
	push(L, hb.ParseScript(L.OptString(1, "")), scriptTypeName)
	return 1
}

func scriptFromISO15924Tag(L *lua.LState) int {
	push(L, hb.ScriptFromISO15924Tag(checkTag(L, 1)), scriptTypeName)
	return 1
}

func scriptToISO15924Tag(L *lua.LState) int {
	push(L, checkScript(L, 1).ISO15924Tag(), tagTypeName)
	return 1
}

func scriptToString(L *lua.LState) int {
	L.Push(lua.LString(checkScript(L, 1).String()))
	return 1
}

func scriptEq(L *lua.LState) int {
	a, aok := as[hb.Script](L.Get(1))
	b, bok := as[hb.Script](L.Get(2))
	L.Push(lua.LBool(aok && bok && a == b))
	return 1
}
