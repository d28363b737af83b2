// Package matte removes a chosen background color from an image by
// border-seeded flood fill and softens the resulting matte edge with a
// feathering pass.
//
// The fill only flows through pixels that match the target color and are
// reachable from the image border. A same-colored region fully enclosed by
// foreground keeps its alpha: on a white-background photo of a face, only
// the border-connected white is removed, not a white eye. That asymmetry is
// deliberate and covered by tests.
package matte

import (
	"github.com/menta2k/batch-cropper/pkg/colorutil"
	"github.com/menta2k/batch-cropper/pkg/pixel"
)

// Border pixels within this distance of the target color seed the fill,
// and the fill only grows through pixels within it.
const matchThreshold = 20

// MaxFeather bounds the feather width accepted by RemoveBackground.
const MaxFeather = 100

// RemoveBackground returns a new buffer in which the connected background
// region matching target and reachable from the image border is fully
// transparent. feather (0..100 color-distance units) controls the edge
// falloff of pass 2; 0 disables it. The input buffer is never mutated.
func RemoveBackground(src *pixel.Buffer, target colorutil.RGB, feather int) *pixel.Buffer {
	if feather < 0 {
		feather = 0
	}
	if feather > MaxFeather {
		feather = MaxFeather
	}

	out := src.Clone()
	width, height := out.Width(), out.Height()
	if width <= 0 || height <= 0 {
		return out
	}

	clearConnectedBackground(out, target)

	if feather > 0 {
		featherEdges(out, src, target, feather)
	}

	return out
}

// clearConnectedBackground is pass 1: a flood fill seeded from every
// matching border pixel, growing through matching pixels only, setting
// each reached pixel's alpha to 0.
func clearConnectedBackground(buf *pixel.Buffer, target colorutil.RGB) {
	width, height := buf.Width(), buf.Height()
	visited := make([]bool, width*height)
	var queue []int

	seed := func(x, y int) {
		idx := y*width + x
		if visited[idx] {
			return
		}
		if !matches(buf, x, y, target) {
			return
		}
		visited[idx] = true
		queue = append(queue, idx)
	}

	for x := 0; x < width; x++ {
		seed(x, 0)
		seed(x, height-1)
	}
	for y := 0; y < height; y++ {
		seed(0, y)
		seed(width-1, y)
	}

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		px, py := p%width, p/width
		buf.SetAlpha(px, py, 0)

		for _, n := range [4][2]int{{px, py - 1}, {px, py + 1}, {px - 1, py}, {px + 1, py}} {
			nx, ny := n[0], n[1]
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			nidx := ny*width + nx
			if visited[nidx] || !matches(buf, nx, ny, target) {
				continue
			}
			visited[nidx] = true
			queue = append(queue, nidx)
		}
	}
}

// featherEdges is pass 2. It works from two snapshots: the alpha plane as
// pass 1 left it, and the original pre-removal colors. A pixel that is
// still opaque but touches a fully transparent 4-neighbor gets its alpha
// scaled by distance/feather when its original color sits closer than
// feather units to the target; farther pixels keep full opacity. Writing
// into buf while reading the snapshots keeps the falloff a single pixel
// deep per edge rather than cascading inward.
func featherEdges(buf *pixel.Buffer, original *pixel.Buffer, target colorutil.RGB, feather int) {
	width, height := buf.Width(), buf.Height()
	alpha := buf.AlphaSnapshot()

	transparent := func(x, y int) bool {
		return x >= 0 && x < width && y >= 0 && y < height && alpha[y*width+x] == 0
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if alpha[y*width+x] == 0 {
				continue
			}
			if !transparent(x, y-1) && !transparent(x, y+1) && !transparent(x-1, y) && !transparent(x+1, y) {
				continue
			}

			r, g, b, a := original.RGBA(x, y)
			d := colorutil.DistanceRGB8(r, g, b, target)
			if d >= float64(feather) {
				continue
			}
			buf.SetAlpha(x, y, uint8(float64(a)*d/float64(feather)))
		}
	}
}

func matches(buf *pixel.Buffer, x, y int, target colorutil.RGB) bool {
	r, g, b, _ := buf.RGBA(x, y)
	return colorutil.DistanceRGB8(r, g, b, target) < matchThreshold
}
