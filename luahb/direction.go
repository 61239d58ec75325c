package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var directionClass = class{
	typeName: directionTypeName,
	field:    "Direction",
	statics: map[string]lua.LGFunction{
		"new": directionNew,
	},
	methods: map[string]lua.LGFunction{
		"is_valid":      directionPredicate(hb.Direction.IsValid),
		"is_horizontal": directionPredicate(hb.Direction.IsHorizontal),
		"is_vertical":   directionPredicate(hb.Direction.IsVertical),
		"is_forward":    directionPredicate(hb.Direction.IsForward),
		"is_backward":   directionPredicate(hb.Direction.IsBackward),
	},
	meta: map[string]lua.LGFunction{
		"__tostring": directionToString,
		"__eq":       directionEq,
	},
	constants: func(L *lua.LState, tbl *lua.LTable) {
		tbl.RawSetString("INVALID", wrap(L, hb.DirectionInvalid, directionTypeName))
		tbl.RawSetString("LTR", wrap(L, hb.DirectionLTR, directionTypeName))
		tbl.RawSetString("RTL", wrap(L, hb.DirectionRTL, directionTypeName))
		tbl.RawSetString("TTB", wrap(L, hb.DirectionTTB, directionTypeName))
		tbl.RawSetString("BTT", wrap(L, hb.DirectionBTT, directionTypeName))
	},
}

func checkDirection(L *lua.LState, n int) hb.Direction {
	return check[hb.Direction](L, n, directionTypeName)
}

// Direction.new([string])
func directionNew(L *lua.LState) int {
	push(L, hb.ParseDirection(L.OptString(1, "")), directionTypeName)
	return 1
}

func directionPredicate(pred func(hb.Direction) bool) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(lua.LBool(pred(checkDirection(L, 1))))
		return 1
	}
}

func directionToString(L *lua.LState) int {
	L.Push(lua.LString(checkDirection(L, 1).String()))
	return 1
}

func directionEq(L *lua.LState) int {
	a, aok := as[hb.Direction](L.Get(1))
	b, bok := as[hb.Direction](L.Get(2))
	L.Push(lua.LBool(aok && bok && a == b))
	return 1
}
