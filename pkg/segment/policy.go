// Package segment classifies pixels as background or foreground and
// partitions the foreground into connected regions with bounding boxes.
package segment

import (
	"github.com/menta2k/batch-cropper/pkg/colorutil"
	"github.com/menta2k/batch-cropper/pkg/pixel"
)

// Pixels with alpha below this count as background under the transparent
// policy. Not user-configurable.
const alphaThreshold = 10

// Color-key distance used by auto-detection.
const detectColorThreshold = 35

// PolicyMode selects how a pixel is judged against the background.
type PolicyMode int

const (
	// ModeTransparent treats low-alpha pixels as background.
	ModeTransparent PolicyMode = iota
	// ModeColorKey treats pixels near a key color as background.
	ModeColorKey
)

// Policy decides, per pixel, whether it counts as background.
type Policy struct {
	Mode      PolicyMode
	Key       colorutil.RGB
	Threshold float64
}

// TransparentPolicy matches pixels whose alpha is below the fixed
// transparency threshold.
func TransparentPolicy() Policy {
	return Policy{Mode: ModeTransparent}
}

// ColorKeyPolicy matches pixels within the standard detection distance of
// the key color. Alpha is ignored.
func ColorKeyPolicy(key colorutil.RGB) Policy {
	return Policy{Mode: ModeColorKey, Key: key, Threshold: detectColorThreshold}
}

// ColorKeyPolicyWithThreshold is ColorKeyPolicy with an explicit distance.
func ColorKeyPolicyWithThreshold(key colorutil.RGB, threshold float64) Policy {
	return Policy{Mode: ModeColorKey, Key: key, Threshold: threshold}
}

// IsBackground reports whether the pixel at (x, y) counts as background
// under the policy. Pure predicate: safe to call for every pixel of a
// large image, no state retained between calls.
func (p Policy) IsBackground(buf *pixel.Buffer, x, y int) bool {
	r, g, b, a := buf.RGBA(x, y)
	switch p.Mode {
	case ModeTransparent:
		return a < alphaThreshold
	case ModeColorKey:
		return colorutil.DistanceRGB8(r, g, b, p.Key) < p.Threshold
	}
	return false
}
