// Package hbshape implements the text formats of HarfBuzz's hb-shape tool:
// its command line options, unicode lists, serialized glyph strings and the
// ".tests" files of the HarfBuzz shaping test suite.
package hbshape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boxesandglue/luatextshape/hb"
)

// Options holds the hb-shape options this package understands.
type Options struct {
	FontFile  string
	FaceIndex int
	FontSize  int // 0 means unscaled (scale = upem)

	Text     string
	Unicodes []rune

	Shaper       string // "" lets ShapeFull pick
	Features     []hb.Feature
	Direction    hb.Direction
	Script       hb.Script
	Language     hb.Language
	ClusterLevel hb.ClusterLevel
	BOT          bool
	EOT          bool

	UnicodesBefore []rune
	UnicodesAfter  []rune

	NoPositions  bool
	NoClusters   bool
	NoGlyphNames bool

	// Ignored collects options that were recognized as hb-shape options but
	// have no effect here.
	Ignored []string
}

// ParseOptions parses hb-shape style arguments. Both "--opt=value" and
// "--opt value" are accepted. Arguments that do not start with "--" are
// returned as positional arguments.
func ParseOptions(args []string) (Options, []string, error) {
	var (
		opts Options
		rest []string
	)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			rest = append(rest, arg)
			continue
		}
		name, value, hasValue := strings.Cut(arg[2:], "=")
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				i++
				return args[i], nil
			}
			return "", fmt.Errorf("option --%s needs a value", name)
		}

		var err error
		switch name {
		case "no-positions":
			opts.NoPositions = true
		case "no-clusters":
			opts.NoClusters = true
		case "no-glyph-names":
			opts.NoGlyphNames = true
		case "bot":
			opts.BOT = true
		case "eot":
			opts.EOT = true
		case "font-file", "text", "shaper", "shapers", "features", "direction",
			"script", "language", "face-index", "font-size", "cluster-level",
			"unicodes", "unicodes-before", "unicodes-after":
			var v string
			if v, err = takeValue(); err == nil {
				err = opts.set(name, v)
			}
		default:
			opts.Ignored = append(opts.Ignored, arg)
		}
		if err != nil {
			return opts, nil, err
		}
	}
	return opts, rest, nil
}

func (o *Options) set(name, v string) error {
	var err error
	switch name {
	case "font-file":
		o.FontFile = v
	case "text":
		o.Text = v
	case "shaper", "shapers":
		o.Shaper = v
	case "features":
		o.Features, err = hb.ParseFeatures(v)
	case "direction":
		o.Direction = hb.ParseDirection(v)
		if !o.Direction.IsValid() {
			err = fmt.Errorf("invalid direction %q", v)
		}
	case "script":
		o.Script = hb.ParseScript(v)
	case "language":
		o.Language = hb.ParseLanguage(v)
	case "face-index":
		o.FaceIndex, err = strconv.Atoi(v)
	case "font-size":
		o.FontSize, err = strconv.Atoi(v)
	case "cluster-level":
		var n int
		if n, err = strconv.Atoi(v); err == nil {
			if n < int(hb.ClusterLevelMonotoneGraphemes) || n > int(hb.ClusterLevelGraphemes) {
				err = fmt.Errorf("cluster level %d out of range", n)
			}
			o.ClusterLevel = hb.ClusterLevel(n)
		}
	case "unicodes":
		o.Unicodes, err = ParseUnicodes(v)
	case "unicodes-before":
		o.UnicodesBefore, err = ParseUnicodes(v)
	case "unicodes-after":
		o.UnicodesAfter, err = ParseUnicodes(v)
	}
	if err != nil {
		return fmt.Errorf("--%s: %w", name, err)
	}
	return nil
}

// Shapers returns the shaper list for hb.ShapeFull.
func (o *Options) Shapers() []string {
	if o.Shaper == "" {
		return nil
	}
	return strings.Split(o.Shaper, ",")
}

// Input returns the characters to shape: Unicodes if set, else Text.
func (o *Options) Input() []rune {
	if o.Unicodes != nil {
		return o.Unicodes
	}
	return []rune(o.Text)
}

// Apply fills buf with input and the buffer options. UnicodesBefore and
// UnicodesAfter become the pre- and post-context. Segment properties not set
// by the options are guessed.
func (o *Options) Apply(buf *hb.Buffer, input []rune) error {
	cps := make([]rune, 0, len(o.UnicodesBefore)+len(input)+len(o.UnicodesAfter))
	cps = append(cps, o.UnicodesBefore...)
	cps = append(cps, input...)
	cps = append(cps, o.UnicodesAfter...)
	if err := buf.AddCodepoints(cps, len(o.UnicodesBefore), len(input)); err != nil {
		return err
	}

	var flags hb.Flags
	if o.BOT {
		flags |= hb.FlagBOT
	}
	if o.EOT {
		flags |= hb.FlagEOT
	}
	buf.SetFlags(flags)
	buf.SetClusterLevel(o.ClusterLevel)
	if o.Direction != hb.DirectionInvalid {
		buf.SetDirection(o.Direction)
	}
	if o.Script != hb.ScriptInvalid {
		buf.SetScript(o.Script)
	}
	if o.Language != hb.LanguageInvalid {
		buf.SetLanguage(o.Language)
	}
	buf.GuessSegmentProperties()
	return nil
}

// ParseUnicodes parses a list like "U+0041,U+0042" or "41 42". Entries are
// hexadecimal with an optional "U+" prefix, separated by commas or spaces.
func ParseUnicodes(s string) ([]rune, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]rune, 0, len(fields))
	for _, f := range fields {
		hex := f
		if strings.HasPrefix(f, "U+") || strings.HasPrefix(f, "u+") {
			hex = f[2:]
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || v > 0x10FFFF {
			return nil, fmt.Errorf("invalid unicode value %q", f)
		}
		out = append(out, rune(v))
	}
	return out, nil
}

// FormatUnicodes is the inverse of ParseUnicodes.
func FormatUnicodes(rs []rune) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = fmt.Sprintf("U+%04X", r)
	}
	return strings.Join(parts, ",")
}
