package luahb

import (
	"errors"
	"fmt"

	"github.com/boxesandglue/luatextshape/hb"
	lua "github.com/yuin/gopher-lua"
)

// Metatable names, as luaL_checkudata would see them.
const (
	blobTypeName      = "harfbuzz.Blob"
	faceTypeName      = "harfbuzz.Face"
	fontTypeName      = "harfbuzz.Font"
	bufferTypeName    = "harfbuzz.Buffer"
	featureTypeName   = "harfbuzz.Feature"
	tagTypeName       = "harfbuzz.Tag"
	scriptTypeName    = "harfbuzz.Script"
	directionTypeName = "harfbuzz.Direction"
	languageTypeName  = "harfbuzz.Language"
)

// typeName names lv for error messages. Userdata created by this package
// reports its metatable name.
func typeName(lv lua.LValue) string {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return lv.Type().String()
	}
	switch ud.Value.(type) {
	case *hb.Blob:
		return blobTypeName
	case *hb.Face:
		return faceTypeName
	case *hb.Font:
		return fontTypeName
	case *hb.Buffer:
		return bufferTypeName
	case hb.Feature:
		return featureTypeName
	case hb.Tag:
		return tagTypeName
	case hb.Script:
		return scriptTypeName
	case hb.Direction:
		return directionTypeName
	case hb.Language:
		return languageTypeName
	}
	return lv.Type().String()
}

// as extracts a T from a userdata value.
func as[T any](lv lua.LValue) (T, bool) {
	if ud, ok := lv.(*lua.LUserData); ok {
		if v, ok := ud.Value.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// check returns argument n as a T or raises an argument error.
func check[T any](L *lua.LState, n int, name string) T {
	lv := L.Get(n)
	v, ok := as[T](lv)
	if !ok {
		L.ArgError(n, name+" expected, got "+typeName(lv))
	}
	return v
}

// push wraps v in a userdata with the metatable registered as name.
func push(L *lua.LState, v any, name string) {
	L.Push(wrap(L, v, name))
}

func wrap(L *lua.LState, v any, name string) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = v
	L.SetMetatable(ud, L.GetTypeMetatable(name))
	return ud
}

// raise turns err into a Lua error. Type mismatches tied to an argument
// become argument errors.
func raise(L *lua.LState, err error) {
	var hbErr *hb.Error
	if errors.As(err, &hbErr) && hbErr.Kind == hb.KindTypeMismatch && hbErr.Arg > 0 {
		L.ArgError(hbErr.Arg, hbErr.Expected+" expected, got "+hbErr.Got)
	}
	L.RaiseError("%s", err.Error())
}

// failure pushes nil and a message, the Lua convention for recoverable
// errors.
func failure(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

// checkTag accepts a Tag userdata or a string.
func checkTag(L *lua.LState, n int) hb.Tag {
	lv := L.Get(n)
	if s, ok := lv.(lua.LString); ok {
		return hb.TagFromString(string(s))
	}
	return check[hb.Tag](L, n, tagTypeName)
}

// toDirection converts a Direction userdata or a string.
func toDirection(lv lua.LValue) (hb.Direction, bool) {
	if s, ok := lv.(lua.LString); ok {
		return hb.ParseDirection(string(s)), true
	}
	return as[hb.Direction](lv)
}

func toScript(lv lua.LValue) (hb.Script, bool) {
	if s, ok := lv.(lua.LString); ok {
		return hb.ParseScript(string(s)), true
	}
	return as[hb.Script](lv)
}

func toLanguage(lv lua.LValue) (hb.Language, bool) {
	if s, ok := lv.(lua.LString); ok {
		return hb.ParseLanguage(string(s)), true
	}
	return as[hb.Language](lv)
}

// stringList reads a sequence of strings passed as argument arg. A nil
// value yields nil.
func stringList(L *lua.LState, lv lua.LValue, arg int) []string {
	if lv == lua.LNil {
		return nil
	}
	tbl, ok := lv.(*lua.LTable)
	if !ok {
		L.ArgError(arg, "table expected, got "+typeName(lv))
	}
	out := make([]string, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			L.ArgError(arg, fmt.Sprintf("string expected at index %d, got %s", i, typeName(tbl.RawGetInt(i))))
		}
		out = append(out, string(s))
	}
	return out
}
