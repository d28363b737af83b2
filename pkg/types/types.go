// Package types holds the records shared between the core engines and
// their callers: uploaded images, crop rectangles, and export results.
package types

import (
	"github.com/google/uuid"

	"github.com/menta2k/batch-cropper/pkg/pixel"
)

// ImageRecord identifies one decoded image in a session. Records are
// replaced, never mutated in place: background removal produces a fresh
// record with a new pixel source and the same identity and name.
type ImageRecord struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Source pixel.Source `json:"-"`
}

// NewImageRecord creates a record for a decoded buffer. Width and height
// are taken from the buffer and are always positive for a decodable image.
func NewImageRecord(name string, buf *pixel.Buffer) ImageRecord {
	return ImageRecord{
		ID:     uuid.NewString(),
		Name:   name,
		Width:  buf.Width(),
		Height: buf.Height(),
		Source: pixel.NewMemorySource(buf),
	}
}

// NewLazyImageRecord creates a record whose pixels are produced on demand,
// e.g. decoded from disk per export pass.
func NewLazyImageRecord(name string, width, height int, src pixel.Source) ImageRecord {
	return ImageRecord{
		ID:     uuid.NewString(),
		Name:   name,
		Width:  width,
		Height: height,
		Source: src,
	}
}

// WithSource returns a copy of the record pointing at a new pixel source,
// keeping identity and display name. Dimensions are refreshed from the
// given buffer.
func (r ImageRecord) WithSource(buf *pixel.Buffer) ImageRecord {
	out := r
	out.Width = buf.Width()
	out.Height = buf.Height()
	out.Source = pixel.NewMemorySource(buf)
	return out
}

// CropRect is an axis-aligned crop region in source-image pixel space.
// Rectangles are defined against the session's reference image and reused
// across every image in an export.
type CropRect struct {
	ID     string `json:"id,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewCropRect creates an identified rectangle.
func NewCropRect(x, y, width, height int) CropRect {
	return CropRect{ID: uuid.NewString(), X: x, Y: y, Width: width, Height: height}
}

// Clamp forces the rectangle back inside an imageWidth by imageHeight
// image: width and height at least 1 and at most the image size, origin
// never negative, far edge never past the image edge. Callers re-clamp
// after every mutation.
func (c *CropRect) Clamp(imageWidth, imageHeight int) {
	if c.Width < 1 {
		c.Width = 1
	}
	if c.Height < 1 {
		c.Height = 1
	}
	if c.Width > imageWidth {
		c.Width = imageWidth
	}
	if c.Height > imageHeight {
		c.Height = imageHeight
	}
	if c.X < 0 {
		c.X = 0
	}
	if c.Y < 0 {
		c.Y = 0
	}
	if c.X+c.Width > imageWidth {
		c.X = imageWidth - c.Width
	}
	if c.Y+c.Height > imageHeight {
		c.Y = imageHeight - c.Height
	}
}

// ArchiveFile is one encoded image inside an export archive.
type ArchiveFile struct {
	Name string
	Data []byte
}

// Archive groups the cropped outputs of one rectangle across all images.
type Archive struct {
	Name  string
	Files []ArchiveFile
}

// ProgressFunc receives (processed, total) after every crop/image pair
// during an export.
type ProgressFunc func(processed, total int)
