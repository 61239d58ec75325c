package luahb

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var blobClass = class{
	typeName: blobTypeName,
	field:    "Blob",
	statics: map[string]lua.LGFunction{
		"new":           blobNew,
		"new_from_file": blobNewFromFile,
	},
	methods: map[string]lua.LGFunction{
		"length":   blobLength,
		"get_data": blobGetData,
	},
}

func checkBlob(L *lua.LState, n int) *hb.Blob {
	return check[*hb.Blob](L, n, blobTypeName)
}

// Blob.new(data)
func blobNew(L *lua.LState) int {
	data := L.CheckString(1)
	push(L, hb.NewBlob([]byte(data)), blobTypeName)
	return 1
}

// Blob.new_from_file(path) returns nil and a message when the file cannot
// be read.
func blobNewFromFile(L *lua.LState) int {
	blob, err := hb.NewBlobFromFile(L.CheckString(1))
	if err != nil {
		return failure(L, err)
	}
	push(L, blob, blobTypeName)
	return 1
}

func blobLength(L *lua.LState) int {
	L.Push(lua.LNumber(checkBlob(L, 1).Len()))
	return 1
}

func blobGetData(L *lua.LState) int {
	L.Push(lua.LString(checkBlob(L, 1).Data()))
	return 1
}
