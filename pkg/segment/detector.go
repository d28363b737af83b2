package segment

import (
	"github.com/menta2k/batch-cropper/pkg/pixel"
	"github.com/menta2k/batch-cropper/pkg/types"
)

// Regions smaller than this span in either dimension are dropped as noise
// specks: a box is kept only when maxX-minX and maxY-minY both exceed it.
const minRegionSpan = 5

// DetectRegions scans the buffer row-major from (0, 0) and returns one
// bounding box per connected foreground region, in the order regions are
// first encountered. Connectivity is 4-directional; diagonal neighbors do
// not join regions. Every pixel is visited exactly once, so the whole scan
// is linear in the pixel count. An empty result means nothing was detected
// and is not an error.
func DetectRegions(buf *pixel.Buffer, policy Policy) []types.CropRect {
	width, height := buf.Width(), buf.Height()
	if width <= 0 || height <= 0 {
		return nil
	}

	visited := make([]bool, width*height)
	var regions []types.CropRect

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if visited[idx] {
				continue
			}
			if policy.IsBackground(buf, x, y) {
				// Background never grows into a region.
				visited[idx] = true
				continue
			}

			// Growable queue walked by head index; pixels are marked
			// visited when enqueued so each enters the queue once.
			queue := []int{idx}
			visited[idx] = true
			minX, minY, maxX, maxY := x, y, x, y

			for head := 0; head < len(queue); head++ {
				p := queue[head]
				px, py := p%width, p/width

				if px < minX {
					minX = px
				}
				if px > maxX {
					maxX = px
				}
				if py < minY {
					minY = py
				}
				if py > maxY {
					maxY = py
				}

				for _, n := range [4][2]int{{px, py - 1}, {px, py + 1}, {px - 1, py}, {px + 1, py}} {
					nx, ny := n[0], n[1]
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					nidx := ny*width + nx
					if visited[nidx] {
						continue
					}
					if policy.IsBackground(buf, nx, ny) {
						visited[nidx] = true
						continue
					}
					visited[nidx] = true
					queue = append(queue, nidx)
				}
			}

			if maxX-minX > minRegionSpan && maxY-minY > minRegionSpan {
				regions = append(regions, types.CropRect{
					X:      minX,
					Y:      minY,
					Width:  maxX - minX + 1,
					Height: maxY - minY + 1,
				})
			}
		}
	}

	return regions
}
