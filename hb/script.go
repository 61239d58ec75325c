package hb

import "github.com/boxesandglue/textshape/ot"

// Script is an ISO 15924 script tag in title case ('Latn', 'Arab').
type Script Tag

// ScriptInvalid means "not set"; the buffer guesses the script from its
// contents.
const ScriptInvalid Script = 0

var (
	ScriptCommon    = Script(ot.MakeTag('Z', 'y', 'y', 'y'))
	ScriptInherited = Script(ot.MakeTag('Z', 'i', 'n', 'h'))
	ScriptUnknown   = Script(ot.MakeTag('Z', 'z', 'z', 'z'))
)

// The engine uses the old OpenType spellings for these four scripts.
var engineScriptTags = map[Script]Tag{
	Script(ot.MakeTag('L', 'a', 'o', 'o')): ot.MakeTag('L', 'a', 'o', ' '),
	Script(ot.MakeTag('Y', 'i', 'i', 'i')): ot.MakeTag('Y', 'i', ' ', ' '),
	Script(ot.MakeTag('N', 'k', 'o', 'o')): ot.MakeTag('N', 'k', 'o', ' '),
	Script(ot.MakeTag('V', 'a', 'i', 'i')): ot.MakeTag('V', 'a', 'i', ' '),
}

// ScriptFromISO15924Tag normalizes tag to title case and maps the private-use
// aliases HarfBuzz knows about.
// HarfBuzz equivalent: hb_script_from_iso15924_tag()
func ScriptFromISO15924Tag(tag Tag) Script {
	if tag == TagNone {
		return ScriptInvalid
	}
	switch tag {
	case ot.MakeTag('Q', 'a', 'a', 'i'):
		return ScriptInherited
	case ot.MakeTag('Q', 'a', 'a', 'c'):
		return Script(ot.MakeTag('C', 'o', 'p', 't'))
	}
	// Upper case the first letter, lower case the rest.
	t := uint32(tag)&0xDFDFDFDF | 0x00202020
	for s, engine := range engineScriptTags {
		if Tag(t) == engine {
			return s
		}
	}
	return Script(t)
}

// ParseScript parses an ISO 15924 name such as "latn" or "Arab".
// HarfBuzz equivalent: hb_script_from_string()
func ParseScript(s string) Script {
	return ScriptFromISO15924Tag(TagFromString(s))
}

// ISO15924Tag returns the script's tag.
func (s Script) ISO15924Tag() Tag {
	return Tag(s)
}

// String returns the four-letter code, or "" for ScriptInvalid.
func (s Script) String() string {
	return TagString(Tag(s))
}

// HorizontalDirection returns the direction text in s runs in when set
// horizontally. It is DirectionInvalid for scripts that can go either way.
// HarfBuzz equivalent: hb_script_get_horizontal_direction()
func (s Script) HorizontalDirection() Direction {
	if s == ScriptInvalid {
		return DirectionInvalid
	}
	return Direction(ot.GetHorizontalDirection(s.engineTag()))
}

func (s Script) engineTag() Tag {
	if t, ok := engineScriptTags[s]; ok {
		return t
	}
	return Tag(s)
}

func scriptFromEngine(t Tag) Script {
	for s, engine := range engineScriptTags {
		if engine == t {
			return s
		}
	}
	return Script(t)
}
