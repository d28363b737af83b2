// Package batchcropper crops batches of raster images using one or more
// rectangular regions, optionally auto-discovered, and optionally
// background-stripped before export.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		batchcropper "github.com/menta2k/batch-cropper"
//		"github.com/menta2k/batch-cropper/pkg/processing"
//		"github.com/menta2k/batch-cropper/pkg/types"
//	)
//
//	func main() {
//		engine := batchcropper.New()
//		proc := processing.NewProcessor()
//
//		buf, err := proc.LoadBuffer("photo.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//		rec := types.NewImageRecord("photo.png", buf)
//
//		// Auto-detect subjects against a white background
//		crops := engine.DetectRegionsByColor(rec, "#ffffff")
//		if len(crops) == 0 {
//			log.Fatal("nothing detected, add crops manually")
//		}
//
//		// Strip the background with a soft edge, then export
//		rec = engine.RemoveBackground(rec, "#ffffff", 40)
//		archives := engine.ExportCrops(crops, []types.ImageRecord{rec}, func(done, total int) {
//			fmt.Printf("%d/%d\n", done, total)
//		})
//		fmt.Printf("%d archives\n", len(archives))
//	}
//
// The package consists of five core components:
//
// 1. Segment (pkg/segment): background classification and region detection
// 2. Matte (pkg/matte): border-seeded background removal with feathering
// 3. Export (pkg/export): the crop/export pipeline with progress accounting
// 4. Viewport (pkg/viewport): cover-fit preview projection
// 5. Processing (pkg/processing): image decoding and encoding
//
// The engine is stateless between calls: image and crop collections belong
// to the caller and are passed into each operation.
package batchcropper

import (
	"github.com/menta2k/batch-cropper/pkg/colorutil"
	"github.com/menta2k/batch-cropper/pkg/export"
	"github.com/menta2k/batch-cropper/pkg/matte"
	"github.com/menta2k/batch-cropper/pkg/pixel"
	"github.com/menta2k/batch-cropper/pkg/segment"
	"github.com/menta2k/batch-cropper/pkg/types"
	"github.com/menta2k/batch-cropper/pkg/viewport"
)

// Version of the batch cropper library
const Version = "1.0.0"

// Engine is the high-level interface to the cropping core.
type Engine struct {
	pipeline *export.Pipeline
}

// New creates an Engine with the default export pipeline.
func New() *Engine {
	return &Engine{pipeline: export.New()}
}

// Pipeline exposes the export pipeline for callers that tune archive
// naming or the settle delay.
func (e *Engine) Pipeline() *export.Pipeline {
	return e.pipeline
}

// DetectRegions finds connected foreground regions under the given policy
// and returns their bounding boxes, without identities, in scan order. It
// never fails for a decodable image; an empty result means nothing was
// detected and callers fall back to manual crop entry.
func (e *Engine) DetectRegions(rec types.ImageRecord, policy segment.Policy) []types.CropRect {
	if rec.Source == nil {
		return nil
	}
	buf, err := rec.Source.Pixels()
	if err != nil {
		return nil
	}
	return segment.DetectRegions(buf, policy)
}

// DetectRegionsByColor is DetectRegions with a color-key policy parsed
// from a hex string. A malformed color yields no regions.
func (e *Engine) DetectRegionsByColor(rec types.ImageRecord, colorHex string) []types.CropRect {
	key, ok := colorutil.ParseHex(colorHex)
	if !ok {
		return nil
	}
	return e.DetectRegions(rec, segment.ColorKeyPolicy(key))
}

// DetectRegionsTransparent is DetectRegions with the alpha-transparency
// policy, for images that already carry an alpha channel.
func (e *Engine) DetectRegionsTransparent(rec types.ImageRecord) []types.CropRect {
	return e.DetectRegions(rec, segment.TransparentPolicy())
}

// RemoveBackground strips the border-connected region matching colorHex
// from the record's image and feathers the matte edge. It returns a new
// record with the same identity and name but a fresh pixel source; the
// input record's buffer is untouched. If colorHex does not parse as
// #RRGGBB/RRGGBB, or the pixels cannot be obtained, the input record is
// returned unchanged.
func (e *Engine) RemoveBackground(rec types.ImageRecord, colorHex string, feather int) types.ImageRecord {
	target, ok := colorutil.ParseHex(colorHex)
	if !ok || rec.Source == nil {
		return rec
	}
	buf, err := rec.Source.Pixels()
	if err != nil {
		return rec
	}
	return rec.WithSource(matte.RemoveBackground(buf, target, feather))
}

// ExportCrops applies every crop to every image, crop-major, and returns
// one archive per crop. See export.Pipeline.Export for the ordering,
// progress and partial-failure contract.
func (e *Engine) ExportCrops(crops []types.CropRect, images []types.ImageRecord, onProgress types.ProgressFunc) []types.Archive {
	return e.pipeline.Export(crops, images, onProgress)
}

// ProjectCropToViewport computes the cover-fit projection used by crop
// previews. ok is false for degenerate input.
func (e *Engine) ProjectCropToViewport(crop types.CropRect, view viewport.Size) (proj viewport.Projection, ok bool) {
	return viewport.Project(crop, view)
}

// NewImageRecord wraps a decoded buffer in a session record.
func NewImageRecord(name string, buf *pixel.Buffer) types.ImageRecord {
	return types.NewImageRecord(name, buf)
}

// GetVersion returns the library version.
func GetVersion() string {
	return Version
}
