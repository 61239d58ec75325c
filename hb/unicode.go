package hb

import (
	"unicode"

	"github.com/boxesandglue/textshape/ot"
)

// ScriptForRune returns the script property of r.
// HarfBuzz equivalent: hb_unicode_script()
func ScriptForRune(r rune) Script {
	if tag := ot.GetScriptTag(ot.Codepoint(r)); tag != 0 {
		return scriptFromEngine(tag)
	}
	// The engine folds these three into "no script".
	switch {
	case unicode.Is(unicode.Inherited, r):
		return ScriptInherited
	case unicode.Is(unicode.Common, r):
		return ScriptCommon
	}
	return ScriptUnknown
}
