// Package colorutil provides the color primitives shared by the
// segmentation and matting engines: an 8-bit RGB triple, hex parsing,
// and Euclidean color distance.
package colorutil

import (
	"math"
	"regexp"
	"strconv"
)

// RGB is a color with three 8-bit channels and no alpha.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

// ParseHex parses a "#RRGGBB" or "RRGGBB" string. The second return value
// reports whether the input matched; on a non-match the zero RGB is
// returned and callers are expected to keep their previous color.
func ParseHex(s string) (RGB, bool) {
	m := hexPattern.FindStringSubmatch(s)
	if m == nil {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, true
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	const digits = "0123456789abcdef"
	out := make([]byte, 7)
	out[0] = '#'
	for i, ch := range []uint8{c.R, c.G, c.B} {
		out[1+i*2] = digits[ch>>4]
		out[2+i*2] = digits[ch&0x0f]
	}
	return string(out)
}

// Distance returns the Euclidean distance between two colors in RGB space.
// It is used as a fuzzy equality test: two colors closer than a threshold
// are treated as the same color.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// DistanceRGB8 is Distance over raw channel bytes, avoiding an RGB
// allocation in per-pixel loops.
func DistanceRGB8(r, g, b uint8, target RGB) float64 {
	dr := float64(r) - float64(target.R)
	dg := float64(g) - float64(target.G)
	db := float64(b) - float64(target.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
