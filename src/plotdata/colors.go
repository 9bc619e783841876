package plotdata

import (
	"fmt"

	"github.com/antmicro/servis/src/logging"
)

// DefaultColor is the color of a lone series when no palette is given.
const DefaultColor = "#E74A3C"

// DefaultPalette colors multiple series when the caller supplies neither a
// palette nor gradient mode. DefaultColor leads so single- and multi-series
// plots agree on the first color.
var DefaultPalette = []string{
	DefaultColor,
	"#4088F4",
	"#01B47E",
	"#332D37",
	"#F15F32",
	"#8C5AC8",
	"#C8A842",
	"#4AB5C4",
}

// AnnotationPalette colors interval tag categories.
var AnnotationPalette = []string{
	"#01B47E",
	"#332D37",
	"#4088F4",
	"#F15F32",
}

// Gradient endpoints: index 0 renders turquoise, index N-1 renders red.
const (
	gradientStart = "#09B194"
	gradientEnd   = "#E74C3E"
)

// AssignColors returns n colors as "#RRGGBB" strings. With an explicit
// palette shorter than n, colors repeat cyclically and a warning is logged.
// In gradient mode colors interpolate between the gradient endpoints in index
// order. Identical inputs always yield an identical sequence.
func AssignColors(n int, palette []string, gradient bool) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	switch {
	case gradient:
		for i := range out {
			t := 0.0
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			out[i] = lerpHex(gradientStart, gradientEnd, t)
		}
	case len(palette) > 0:
		if len(palette) < n {
			logging.Warnf("palette has %d colors for %d series; colors will repeat", len(palette), n)
		}
		for i := range out {
			out[i] = palette[i%len(palette)]
		}
	default:
		for i := range out {
			out[i] = DefaultPalette[i%len(DefaultPalette)]
		}
		if n > len(DefaultPalette) {
			logging.Warnf("default palette has %d colors for %d series; colors will repeat", len(DefaultPalette), n)
		}
	}
	return out
}

// TagColors maps interval tag category names to colors in first-appearance
// order, cycling AnnotationPalette when there are more categories than colors.
func TagColors(tags []Tag) map[string]string {
	out := make(map[string]string)
	next := 0
	for _, t := range tags {
		if _, ok := out[t.Name]; ok {
			continue
		}
		out[t.Name] = AnnotationPalette[next%len(AnnotationPalette)]
		next++
	}
	if next > len(AnnotationPalette) {
		logging.Warnf("annotation palette has %d colors for %d tag categories; colors will repeat", len(AnnotationPalette), next)
	}
	return out
}

// ParseHexColor splits "#RRGGBB" into channel values.
func ParseHexColor(s string) (r, g, b uint8, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", s)
	}
	var rv, gv, bv int
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return uint8(rv), uint8(gv), uint8(bv), nil
}

func lerpHex(a, b string, t float64) string {
	ar, ag, ab, _ := ParseHexColor(a)
	br, bg, bb, _ := ParseHexColor(b)
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", lerp(ar, br), lerp(ag, bg), lerp(ab, bb))
}
