// Package viewport projects a crop rectangle into a display viewport for
// previews, using cover fitting: the crop always fills the viewport
// completely, cropping overflow on the longer axis.
package viewport

import "github.com/menta2k/batch-cropper/pkg/types"

// Size is a destination viewport in display pixels.
type Size struct {
	Width  int
	Height int
}

// Projection describes how to draw the full source image so that the crop
// lands covering the viewport: draw at Scale, translated by TranslateX and
// TranslateY.
type Projection struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

// Project computes the cover-fit projection of crop into view. The second
// return value is false for degenerate input (non-positive crop or
// viewport dimensions); callers show a placeholder instead of dividing by
// zero.
func Project(crop types.CropRect, view Size) (Projection, bool) {
	if crop.Width <= 0 || crop.Height <= 0 || view.Width <= 0 || view.Height <= 0 {
		return Projection{}, false
	}

	cropAspect := float64(crop.Width) / float64(crop.Height)
	viewAspect := float64(view.Width) / float64(view.Height)

	var scale float64
	if cropAspect > viewAspect {
		// Crop is wider than the viewport: match heights, overflow X.
		scale = float64(view.Height) / float64(crop.Height)
	} else {
		scale = float64(view.Width) / float64(crop.Width)
	}

	return Projection{
		Scale:      scale,
		TranslateX: -(float64(crop.X) * scale) + (float64(view.Width)-float64(crop.Width)*scale)/2,
		TranslateY: -(float64(crop.Y) * scale) + (float64(view.Height)-float64(crop.Height)*scale)/2,
	}, true
}
