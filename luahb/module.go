// Package luahb exposes the hb object model to Lua scripts running on
// gopher-lua. The module mirrors luaharfbuzz:
//
//	L := lua.NewState()
//	defer L.Close()
//	if err := luahb.Preload(L); err != nil {
//		return err
//	}
//	err := L.DoString(`
//		local harfbuzz = require("harfbuzz")
//		local face = harfbuzz.Face.new("font.ttf")
//		local font = harfbuzz.Font.new(face)
//		local buf = harfbuzz.Buffer.new()
//		buf:add_utf8("Hello")
//		harfbuzz.shape(font, buf, { features = "+kern,-liga" })
//		for _, g in ipairs(buf:get_glyphs()) do print(g.codepoint, g.x_advance) end
//	`)
//
// Handles are userdata whose metatables are registered under
// "harfbuzz.Blob", "harfbuzz.Face" and so on. Method calls check the
// receiver's metatable and raise an argument error on mismatch.
package luahb

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/boxesandglue/luatextshape/hb"
)

// class describes one Lua class table and the metatable of its instances.
type class struct {
	typeName string
	field    string
	statics  map[string]lua.LGFunction
	methods  map[string]lua.LGFunction
	meta     map[string]lua.LGFunction
	// constants are installed after the metatable exists, so they may create
	// instances of the class.
	constants func(L *lua.LState, tbl *lua.LTable)
}

func (c *class) register(L *lua.LState, mod *lua.LTable) {
	mt := L.NewTypeMetatable(c.typeName)
	methods := L.NewTable()
	L.SetFuncs(methods, c.methods)
	L.SetField(mt, "__index", methods)
	L.SetFuncs(mt, c.meta)

	tbl := L.NewTable()
	L.SetFuncs(tbl, c.methods)
	L.SetFuncs(tbl, c.statics)
	if c.constants != nil {
		c.constants(L, tbl)
	}
	L.SetField(mod, c.field, tbl)
}

var classes = []*class{
	&blobClass,
	&faceClass,
	&fontClass,
	&bufferClass,
	&featureClass,
	&tagClass,
	&scriptClass,
	&directionClass,
	&languageClass,
}

// binding carries the configuration into the module functions.
type binding struct {
	cfg *config
	log *zap.Logger
}

func newBinding(opts ...Option) (*binding, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &binding{cfg: cfg, log: cfg.Logger}, nil
}

// Loader returns a loader function for L.PreloadModule or package.loaders.
func Loader(opts ...Option) (lua.LGFunction, error) {
	b, err := newBinding(opts...)
	if err != nil {
		return nil, err
	}
	return b.load, nil
}

// Preload makes the module available to require under its configured name
// and under "luaharfbuzz".
func Preload(L *lua.LState, opts ...Option) error {
	b, err := newBinding(opts...)
	if err != nil {
		return err
	}
	L.PreloadModule(b.cfg.ModuleName, b.load)
	if b.cfg.ModuleName != AliasModuleName {
		L.PreloadModule(AliasModuleName, b.load)
	}
	return nil
}

// Open builds the module table and also stores it as a global named after
// the module.
func Open(L *lua.LState, opts ...Option) (*lua.LTable, error) {
	b, err := newBinding(opts...)
	if err != nil {
		return nil, err
	}
	mod := b.module(L)
	L.SetGlobal(b.cfg.ModuleName, mod)
	return mod, nil
}

func (b *binding) load(L *lua.LState) int {
	L.Push(b.module(L))
	return 1
}

func (b *binding) module(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	for _, c := range classes {
		c.register(L, mod)
	}
	unicode := L.NewTable()
	L.SetFuncs(unicode, unicodeFuncs)
	L.SetField(mod, "unicode", unicode)

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"shape_full":   b.shapeFull,
		"shape":        b.shape,
		"version":      luaVersion,
		"shapers":      luaShapers,
		"list_shapers": luaListShapers,
	})
	b.log.Debug("lua module loaded",
		zap.String("module", b.cfg.ModuleName),
		zap.Int("max_features", b.cfg.Pool.Max()),
		zap.Strings("shapers", b.cfg.Shapers))
	return mod
}

func luaVersion(L *lua.LState) int {
	L.Push(lua.LString(hb.Version()))
	return 1
}

// luaShapers returns one value per shaper, like hb_shape_list_shapers
// walked to its terminator.
func luaShapers(L *lua.LState) int {
	names := hb.Shapers()
	for _, name := range names {
		L.Push(lua.LString(name))
	}
	return len(names)
}

func luaListShapers(L *lua.LState) int {
	tbl := L.NewTable()
	for _, name := range hb.Shapers() {
		tbl.Append(lua.LString(name))
	}
	L.Push(tbl)
	return 1
}
