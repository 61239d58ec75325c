package hb

import "github.com/boxesandglue/textshape/ot"

// Tag is a 4-byte OpenType tag.
type Tag = ot.Tag

// TagNone is the zero tag.
const TagNone Tag = 0

// TagFromString converts s to a Tag. Strings shorter than four bytes are
// padded with spaces, longer ones are truncated. The empty string yields
// TagNone.
// HarfBuzz equivalent: hb_tag_from_string()
func TagFromString(s string) Tag {
	if s == "" {
		return TagNone
	}
	var b [4]byte
	for i := range b {
		if i < len(s) {
			b[i] = s[i]
		} else {
			b[i] = ' '
		}
	}
	return ot.MakeTag(b[0], b[1], b[2], b[3])
}

// TagString returns the four characters of t, or "" for TagNone.
func TagString(t Tag) string {
	if t == TagNone {
		return ""
	}
	return t.String()
}
