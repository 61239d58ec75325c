package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var languageClass = class{
	typeName: languageTypeName,
	field:    "Language",
	statics: map[string]lua.LGFunction{
		"new": languageNew,
	},
	meta: map[string]lua.LGFunction{
		"__tostring": languageToString,
		"__eq":       languageEq,
	},
	constants: func(L *lua.LState, tbl *lua.LTable) {
		tbl.RawSetString("INVALID", wrap(L, hb.LanguageInvalid, languageTypeName))
	},
}

// Language.new([string])
func languageNew(L *lua.LState) int {
	push(L, hb.ParseLanguage(L.OptString(1, "")), languageTypeName)
	return 1
}

func languageToString(L *lua.LState) int {
	L.Push(lua.LString(check[hb.Language](L, 1, languageTypeName).String()))
	return 1
}

func languageEq(L *lua.LState) int {
	a, aok := as[hb.Language](L.Get(1))
	b, bok := as[hb.Language](L.Get(2))
	L.Push(lua.LBool(aok && bok && a == b))
	return 1
}
