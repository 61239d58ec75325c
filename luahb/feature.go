package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var featureClass = class{
	typeName: featureTypeName,
	field:    "Feature",
	statics: map[string]lua.LGFunction{
		"new": featureNew,
	},
	methods: map[string]lua.LGFunction{
		"get_tag":   featureGetTag,
		"get_value": featureGetValue,
		"get_start": featureGetStart,
		"get_end":   featureGetEnd,
	},
	meta: map[string]lua.LGFunction{
		"__tostring": featureToString,
		"__eq":       featureEq,
	},
}

// featureEndOfBuffer is the end value scripts see for features running to
// the end of the buffer.
const featureEndOfBuffer = 0xFFFFFFFF

func checkFeature(L *lua.LState, n int) hb.Feature {
	return check[hb.Feature](L, n, featureTypeName)
}

// Feature.new(string) returns nil when the string does not parse.
func featureNew(L *lua.LState) int {
	f, err := hb.ParseFeature(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	push(L, f, featureTypeName)
	return 1
}

func featureToString(L *lua.LState) int {
	L.Push(lua.LString(hb.FeatureString(checkFeature(L, 1))))
	return 1
}

func featureEq(L *lua.LState) int {
	a, aok := as[hb.Feature](L.Get(1))
	b, bok := as[hb.Feature](L.Get(2))
	L.Push(lua.LBool(aok && bok && hb.FeatureEqual(a, b)))
	return 1
}

func featureGetTag(L *lua.LState) int {
	push(L, checkFeature(L, 1).Tag, tagTypeName)
	return 1
}

func featureGetValue(L *lua.LState) int {
	L.Push(lua.LNumber(checkFeature(L, 1).Value))
	return 1
}

func featureGetStart(L *lua.LState) int {
	L.Push(lua.LNumber(checkFeature(L, 1).Start))
	return 1
}

func featureGetEnd(L *lua.LState) int {
	end := checkFeature(L, 1).End
	if end == hb.FeatureGlobalEnd {
		L.Push(lua.LNumber(featureEndOfBuffer))
		return 1
	}
	L.Push(lua.LNumber(end))
	return 1
}
