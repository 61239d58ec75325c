package hbshape

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/boxesandglue/luatextshape/hb"
)

// Case is one line of a HarfBuzz ".tests" file:
//
//	font-file;options;unicodes;expected-glyphs
type Case struct {
	FontPath string
	FontHash string // SHA-1 pinned with "font@hash", empty if none
	Options  Options
	Input    []rune
	Expected []Glyph

	// Shapers is the @shapers= restriction in effect for the line.
	Shapers []string

	SourceFile string
	SourceLine int
	Line       string
}

// Name identifies the case in test output.
func (c *Case) Name() string {
	return fmt.Sprintf("%s:%d", c.SourceFile, c.SourceLine)
}

// ParseCase parses a single test line. Paths are resolved against dir.
// Comments, blank lines and directives yield a nil case.
func ParseCase(line, dir string) (*Case, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@") {
		return nil, nil
	}
	parts := strings.Split(line, ";")
	if len(parts) != 4 {
		return nil, fmt.Errorf("expected 4 semicolon-separated fields, got %d", len(parts))
	}

	fontPath, fontHash := splitFontHash(parts[0])
	fontPath = strings.ReplaceAll(fontPath, `\ `, " ")
	if !filepath.IsAbs(fontPath) {
		fontPath = filepath.Join(dir, fontPath)
	}

	opts, rest, err := ParseOptions(strings.Fields(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments %q", rest)
	}
	input, err := ParseUnicodes(parts[2])
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	expected, err := ParseGlyphs(parts[3])
	if err != nil {
		return nil, fmt.Errorf("parse expected: %w", err)
	}
	return &Case{
		FontPath: fontPath,
		FontHash: fontHash,
		Options:  opts,
		Input:    input,
		Expected: expected,
		Line:     line,
	}, nil
}

// splitFontHash strips a trailing "@sha1" pin from a font path.
func splitFontHash(path string) (string, string) {
	idx := strings.LastIndex(path, "@")
	if idx <= 0 {
		return path, ""
	}
	suffix := path[idx+1:]
	if len(suffix) < 8 {
		return path, ""
	}
	for _, c := range suffix {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return path, ""
		}
	}
	return path[:idx], suffix
}

// LoadFile reads all cases of a ".tests" file. Font paths are resolved
// against the parent of the file's directory, where the HarfBuzz suite keeps
// its fonts. An "@shapers=" directive applies to every following line.
func LoadFile(path string) ([]*Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir := filepath.Dir(filepath.Dir(path))
	var (
		cases   []*Case
		shapers []string
		lineNum int
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, "@shapers="); ok {
			if idx := strings.Index(v, "#"); idx >= 0 {
				v = v[:idx]
			}
			shapers = nil
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					shapers = append(shapers, s)
				}
			}
			continue
		}
		c, err := ParseCase(line, dir)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNum, err)
		}
		if c == nil {
			continue
		}
		c.Shapers = shapers
		c.SourceFile = filepath.Base(path)
		c.SourceLine = lineNum
		cases = append(cases, c)
	}
	return cases, sc.Err()
}

// SkipReason reports why c cannot run here, or "" if it can.
func (c *Case) SkipReason() string {
	if names := c.Options.Shapers(); names != nil && !anyAvailable(names) {
		return fmt.Sprintf("none of the shapers %q available", names)
	}
	if len(c.Shapers) > 0 && !anyAvailable(c.Shapers) {
		return fmt.Sprintf("none of the shapers %q available", c.Shapers)
	}
	if _, err := os.Stat(c.FontPath); err != nil {
		return "font not found: " + c.FontPath
	}
	if c.FontHash != "" {
		data, err := os.ReadFile(c.FontPath)
		if err != nil {
			return "font not readable: " + c.FontPath
		}
		sum := sha1.Sum(data)
		if got := hex.EncodeToString(sum[:]); got != c.FontHash {
			return fmt.Sprintf("font hash mismatch: expected %s, got %s", c.FontHash, got)
		}
	}
	return ""
}

func anyAvailable(names []string) bool {
	for _, name := range names {
		for _, s := range hb.Shapers() {
			if s == name {
				return true
			}
		}
	}
	return false
}

// Run shapes c and returns the result and the expectation, both formatted
// with the case's output options.
func (c *Case) Run() (got, want string, err error) {
	face, err := hb.NewFaceFromFile(c.FontPath, c.Options.FaceIndex)
	if err != nil {
		return "", "", err
	}
	font, err := hb.NewFont(face)
	if err != nil {
		return "", "", err
	}

	opts := c.Options
	opts.Unicodes = c.Input
	if opts.Shaper == "" && len(c.Shapers) > 0 {
		opts.Shaper = strings.Join(c.Shapers, ",")
	}
	buf, err := Shape(font, &opts)
	if err != nil {
		return "", "", err
	}

	format := FormatOf(&opts)
	got = FormatGlyphs(GlyphsOf(font, buf, opts.NoGlyphNames), format)
	want = FormatGlyphs(c.Expected, format)
	hb.Logger().Debug("ran shaping case",
		zap.String("case", c.Name()),
		zap.Bool("match", got == want))
	return got, want, nil
}
