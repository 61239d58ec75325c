package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var unicodeFuncs = map[string]lua.LGFunction{
	"script": unicodeScript,
}

// unicode.script(codepoint)
func unicodeScript(L *lua.LState) int {
	push(L, hb.ScriptForRune(rune(L.CheckInt(1))), scriptTypeName)
	return 1
}
