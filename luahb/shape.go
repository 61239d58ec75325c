package luahb

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/boxesandglue/luatextshape/hb"
)

// optionKeys mark a table passed to shape as an options table.
var optionKeys = []string{"features", "direction", "script", "language", "shapers"}

// shapeFull implements harfbuzz.shape_full(font, buffer, features[, shapers]).
func (b *binding) shapeFull(L *lua.LState) int {
	font := checkFont(L, 1)
	buf := checkBuffer(L, 2)
	features := L.CheckTable(3)
	shapers := b.cfg.Shapers
	if v := L.Get(4); v != lua.LNil {
		shapers = stringList(L, v, 4)
	}
	b.marshal(L, font, buf, features, 3, shapers)
	return 0
}

// marshal copies the Feature userdata in features[1..#features] into a
// pooled scratch array and shapes. #features alone sizes the array and
// bounds the loop; a hole or a foreign value inside that range is an
// argument error, raised before any scratch is taken. The array is
// released however the call ends.
func (b *binding) marshal(L *lua.LState, font *hb.Font, buf *hb.Buffer, features *lua.LTable, arg int, shapers []string) {
	n := 0
	if features != nil {
		n = features.Len()
	}
	for i := 1; i <= n; i++ {
		if lv := features.RawGetInt(i); !isFeature(lv) {
			L.ArgError(arg, fmt.Sprintf("%s expected at index %d, got %s", featureTypeName, i, typeName(lv)))
		}
	}

	scratch, err := b.cfg.Pool.Acquire(n)
	if err != nil {
		b.log.Debug("feature scratch refused", zap.Int("features", n), zap.Error(err))
		raise(L, err)
	}
	defer scratch.Release()

	for i := 1; i <= n; i++ {
		f, _ := as[hb.Feature](features.RawGetInt(i))
		scratch.Set(i-1, f)
	}

	if err := hb.ShapeFull(font, buf, scratch.Features(), shapers); err != nil {
		b.log.Debug("shape_full failed", zap.Error(err))
		raise(L, err)
	}
}

// shape implements harfbuzz.shape(font, buffer[, options]). A table with
// any of optionKeys is an options table; any other table is a feature
// sequence, as for shape_full.
func (b *binding) shape(L *lua.LState) int {
	font := checkFont(L, 1)
	buf := checkBuffer(L, 2)

	lv := L.Get(3)
	if lv == lua.LNil {
		b.marshal(L, font, buf, nil, 3, b.cfg.Shapers)
		return 0
	}
	opts, ok := lv.(*lua.LTable)
	if !ok {
		L.ArgError(3, "table expected, got "+typeName(lv))
	}
	if !isOptions(opts) {
		b.marshal(L, font, buf, opts, 3, b.cfg.Shapers)
		return 0
	}

	if v := opts.RawGetString("language"); v != lua.LNil {
		lang, ok := toLanguage(v)
		if !ok {
			L.ArgError(3, "language: "+languageTypeName+" expected, got "+typeName(v))
		}
		buf.SetLanguage(lang)
	}
	if v := opts.RawGetString("script"); v != lua.LNil {
		s, ok := toScript(v)
		if !ok {
			L.ArgError(3, "script: "+scriptTypeName+" expected, got "+typeName(v))
		}
		buf.SetScript(s)
	}
	if v := opts.RawGetString("direction"); v != lua.LNil {
		d, ok := toDirection(v)
		if !ok {
			L.ArgError(3, "direction: "+directionTypeName+" expected, got "+typeName(v))
		}
		buf.SetDirection(d)
	}
	buf.GuessSegmentProperties()

	features := b.featureOption(L, opts.RawGetString("features"))

	shapers := b.cfg.Shapers
	if v := opts.RawGetString("shapers"); v != lua.LNil {
		shapers = stringList(L, v, 3)
	}
	b.marshal(L, font, buf, features, 3, shapers)
	return 0
}

// featureOption turns the features option into a feature sequence. A string
// is parsed as a comma-separated HarfBuzz feature list.
func (b *binding) featureOption(L *lua.LState, lv lua.LValue) *lua.LTable {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		return v
	case lua.LString:
		parsed, err := hb.ParseFeatures(string(v))
		if err != nil {
			L.ArgError(3, "features: "+err.Error())
		}
		tbl := L.CreateTable(len(parsed), 0)
		for _, f := range parsed {
			tbl.Append(wrap(L, f, featureTypeName))
		}
		return tbl
	}
	L.ArgError(3, "features: string or table expected, got "+typeName(lv))
	return nil
}

func isOptions(tbl *lua.LTable) bool {
	for _, key := range optionKeys {
		if tbl.RawGetString(key) != lua.LNil {
			return true
		}
	}
	return false
}

func isFeature(lv lua.LValue) bool {
	_, ok := as[hb.Feature](lv)
	return ok
}
