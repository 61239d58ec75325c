package hb

import (
	"strconv"
	"strings"

	"github.com/boxesandglue/textshape/ot"
)

// Feature is one OpenType feature setting over a cluster range. It is the
// engine's own record type, so a []Feature is passed to the shaper as is.
type Feature = ot.Feature

const (
	FeatureGlobalStart = ot.FeatureGlobalStart
	FeatureGlobalEnd   = ot.FeatureGlobalEnd
)

// NewFeature returns a feature for the cluster range [start, end).
func NewFeature(tag Tag, value uint32, start, end uint) Feature {
	return Feature{Tag: tag, Value: value, Start: start, End: end}
}

// ParseFeature parses a HarfBuzz feature string ("kern", "-liga",
// "aalt=2", "kern[3:5]=0").
// HarfBuzz equivalent: hb_feature_from_string()
func ParseFeature(s string) (Feature, error) {
	f, ok := ot.FeatureFromString(s)
	if !ok {
		return Feature{}, InvalidInput("feature", "cannot parse "+strconv.Quote(s))
	}
	return f, nil
}

// ParseFeatures parses a comma-separated feature list. Unlike the engine's
// lenient parser it rejects the whole list if any entry is malformed. Empty
// entries are skipped.
func ParseFeatures(s string) ([]Feature, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	features := make([]Feature, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFeature(part)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

// FeatureEqual compares the public fields of two features.
func FeatureEqual(a, b Feature) bool {
	return a.Tag == b.Tag && a.Value == b.Value && a.Start == b.Start && a.End == b.End
}

// FeatureString formats f the way HarfBuzz does ("-liga", "kern[3:5]",
// "aalt=2"). ParseFeature accepts the result.
// HarfBuzz equivalent: hb_feature_to_string()
func FeatureString(f Feature) string {
	var b strings.Builder
	if f.Value == 0 {
		b.WriteByte('-')
	}
	b.WriteString(strings.TrimRight(f.Tag.String(), " "))
	if f.Start != FeatureGlobalStart || f.End != FeatureGlobalEnd {
		b.WriteByte('[')
		if f.Start != FeatureGlobalStart {
			b.WriteString(strconv.FormatUint(uint64(f.Start), 10))
		}
		if f.End != f.Start+1 {
			b.WriteByte(':')
			if f.End != FeatureGlobalEnd {
				b.WriteString(strconv.FormatUint(uint64(f.End), 10))
			}
		}
		b.WriteByte(']')
	}
	if f.Value > 1 {
		b.WriteByte('=')
		b.WriteString(strconv.FormatUint(uint64(f.Value), 10))
	}
	return b.String()
}
