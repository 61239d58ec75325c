package hb

import (
	"strings"

	"github.com/boxesandglue/textshape/ot"
)

// Language is a normalized BCP 47 language tag.
type Language string

// LanguageInvalid is the unset language.
const LanguageInvalid Language = ""

// ParseLanguage normalizes s: ASCII letters are lower cased, '_' becomes '-',
// and the tag ends at the first byte that is neither alphanumeric nor '-'.
// HarfBuzz equivalent: hb_language_from_string()
func ParseLanguage(s string) Language {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		case c == '_':
			b.WriteByte('-')
		default:
			return Language(b.String())
		}
	}
	return Language(b.String())
}

func (l Language) String() string {
	return string(l)
}

// OTTags returns the OpenType language system tags for l in priority order.
func (l Language) OTTags() []Tag {
	if l == LanguageInvalid {
		return nil
	}
	return ot.LanguageToTag(string(l))
}
