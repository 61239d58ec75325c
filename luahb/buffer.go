package luahb

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/boxesandglue/luatextshape/hb"
)

var bufferClass = class{
	typeName: bufferTypeName,
	field:    "Buffer",
	statics: map[string]lua.LGFunction{
		"new": bufferNew,
	},
	methods: map[string]lua.LGFunction{
		"add_utf8":                 bufferAddUTF8,
		"add_codepoints":           bufferAddCodepoints,
		"set_direction":            bufferSetDirection,
		"get_direction":            bufferGetDirection,
		"set_script":               bufferSetScript,
		"get_script":               bufferGetScript,
		"set_language":             bufferSetLanguage,
		"get_language":             bufferGetLanguage,
		"set_cluster_level":        bufferSetClusterLevel,
		"get_cluster_level":        bufferGetClusterLevel,
		"set_flags":                bufferSetFlags,
		"get_flags":                bufferGetFlags,
		"guess_segment_properties": bufferGuessSegmentProperties,
		"get_glyphs":               bufferGetGlyphs,
		"get_length":               bufferGetLength,
		"reverse":                  bufferReverse,
		"reset":                    bufferReset,
		"clear_contents":           bufferClearContents,
	},
	meta: map[string]lua.LGFunction{
		"__len": bufferGetLength,
	},
	constants: func(L *lua.LState, tbl *lua.LTable) {
		for name, v := range map[string]hb.ClusterLevel{
			"CLUSTER_LEVEL_MONOTONE_GRAPHEMES":  hb.ClusterLevelMonotoneGraphemes,
			"CLUSTER_LEVEL_MONOTONE_CHARACTERS": hb.ClusterLevelMonotoneCharacters,
			"CLUSTER_LEVEL_CHARACTERS":          hb.ClusterLevelCharacters,
			"CLUSTER_LEVEL_GRAPHEMES":           hb.ClusterLevelGraphemes,
			"CLUSTER_LEVEL_DEFAULT":             hb.ClusterLevelDefault,
		} {
			tbl.RawSetString(name, lua.LNumber(v))
		}
		for name, v := range map[string]hb.Flags{
			"FLAG_DEFAULT":                     hb.FlagDefault,
			"FLAG_BOT":                         hb.FlagBOT,
			"FLAG_EOT":                         hb.FlagEOT,
			"FLAG_PRESERVE_DEFAULT_IGNORABLES": hb.FlagPreserveDefaultIgnorables,
			"FLAG_REMOVE_DEFAULT_IGNORABLES":   hb.FlagRemoveDefaultIgnorables,
			"FLAG_DO_NOT_INSERT_DOTTED_CIRCLE": hb.FlagDoNotInsertDottedCircle,
		} {
			tbl.RawSetString(name, lua.LNumber(v))
		}
	},
}

func checkBuffer(L *lua.LState, n int) *hb.Buffer {
	return check[*hb.Buffer](L, n, bufferTypeName)
}

func bufferNew(L *lua.LState) int {
	push(L, hb.NewBuffer(), bufferTypeName)
	return 1
}

// buf:add_utf8(text[, item_offset[, item_length]])
func bufferAddUTF8(L *lua.LState) int {
	buf := checkBuffer(L, 1)
	text := L.CheckString(2)
	if err := buf.AddUTF8(text, L.OptInt(3, 0), L.OptInt(4, -1)); err != nil {
		raise(L, err)
	}
	return 0
}

// buf:add_codepoints(codepoints[, item_offset[, item_length]])
func bufferAddCodepoints(L *lua.LState) int {
	buf := checkBuffer(L, 1)
	tbl := L.CheckTable(2)
	cps := make([]rune, tbl.Len())
	for i := range cps {
		n, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			L.ArgError(2, fmt.Sprintf("codepoint expected at index %d, got %s", i+1, typeName(tbl.RawGetInt(i+1))))
		}
		cps[i] = rune(n)
	}
	if err := buf.AddCodepoints(cps, L.OptInt(3, 0), L.OptInt(4, -1)); err != nil {
		raise(L, err)
	}
	return 0
}

func bufferSetDirection(L *lua.LState) int {
	buf := checkBuffer(L, 1)
	d, ok := toDirection(L.Get(2))
	if !ok {
		L.ArgError(2, directionTypeName+" expected, got "+typeName(L.Get(2)))
	}
	buf.SetDirection(d)
	return 0
}

func bufferGetDirection(L *lua.LState) int {
	push(L, checkBuffer(L, 1).Direction(), directionTypeName)
	return 1
}

func bufferSetScript(L *lua.LState) int {
	buf := checkBuffer(L, 1)
	s, ok := toScript(L.Get(2))
	if !ok {
		L.ArgError(2, scriptTypeName+" expected, got "+typeName(L.Get(2)))
	}
	buf.SetScript(s)
	return 0
}

func bufferGetScript(L *lua.LState) int {
	push(L, checkBuffer(L, 1).Script(), scriptTypeName)
	return 1
}

func bufferSetLanguage(L *lua.LState) int {
	buf := checkBuffer(L, 1)
	lang, ok := toLanguage(L.Get(2))
	if !ok {
		L.ArgError(2, languageTypeName+" expected, got "+typeName(L.Get(2)))
	}
	buf.SetLanguage(lang)
	return 0
}

func bufferGetLanguage(L *lua.LState) int {
	push(L, checkBuffer(L, 1).Language(), languageTypeName)
	return 1
}

func bufferSetClusterLevel(L *lua.LState) int {
	buf := checkBuffer(L, 1)
	level := L.CheckInt(2)
	if level < int(hb.ClusterLevelMonotoneGraphemes) || level > int(hb.ClusterLevelGraphemes) {
		L.ArgError(2, "invalid cluster level")
	}
	buf.SetClusterLevel(hb.ClusterLevel(level))
	return 0
}

func bufferGetClusterLevel(L *lua.LState) int {
	L.Push(lua.LNumber(checkBuffer(L, 1).ClusterLevel()))
	return 1
}

func bufferSetFlags(L *lua.LState) int {
	buf := checkBuffer(L, 1)
	buf.SetFlags(hb.Flags(L.CheckInt(2)))
	return 0
}

func bufferGetFlags(L *lua.LState) int {
	L.Push(lua.LNumber(checkBuffer(L, 1).Flags()))
	return 1
}

func bufferGuessSegmentProperties(L *lua.LState) int {
	checkBuffer(L, 1).GuessSegmentProperties()
	return 0
}

// buf:get_glyphs() returns one table per glyph. Before shaping codepoint is
// a character, afterwards a glyph index.
func bufferGetGlyphs(L *lua.LState) int {
	glyphs := checkBuffer(L, 1).Glyphs()
	tbl := L.CreateTable(len(glyphs), 0)
	for _, g := range glyphs {
		entry := L.CreateTable(0, 6)
		entry.RawSetString("codepoint", lua.LNumber(g.Codepoint))
		entry.RawSetString("cluster", lua.LNumber(g.Cluster))
		entry.RawSetString("x_advance", lua.LNumber(g.XAdvance))
		entry.RawSetString("y_advance", lua.LNumber(g.YAdvance))
		entry.RawSetString("x_offset", lua.LNumber(g.XOffset))
		entry.RawSetString("y_offset", lua.LNumber(g.YOffset))
		tbl.Append(entry)
	}
	L.Push(tbl)
	return 1
}

func bufferGetLength(L *lua.LState) int {
	L.Push(lua.LNumber(checkBuffer(L, 1).Len()))
	return 1
}

func bufferReverse(L *lua.LState) int {
	checkBuffer(L, 1).Reverse()
	return 0
}

func bufferReset(L *lua.LState) int {
	checkBuffer(L, 1).Reset()
	return 0
}

func bufferClearContents(L *lua.LState) int {
	checkBuffer(L, 1).ClearContents()
	return 0
}
