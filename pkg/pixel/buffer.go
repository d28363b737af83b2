// Package pixel provides the raw RGBA8 grid that every pixel algorithm in
// this module operates on. A Buffer wraps a non-premultiplied *image.NRGBA
// so that alpha edits never disturb the stored color channels.
package pixel

import (
	"image"
	"image/draw"
)

// Buffer is an addressable RGBA8 pixel grid for one image.
type Buffer struct {
	img *image.NRGBA
}

// New creates a fully transparent buffer of the given size.
func New(width, height int) *Buffer {
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// FromImage copies an arbitrary image into a zero-origin NRGBA buffer.
func FromImage(src image.Image) *Buffer {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Buffer{img: dst}
}

// FromNRGBA wraps an existing NRGBA image without copying. The image must
// have zero-origin bounds.
func FromNRGBA(img *image.NRGBA) *Buffer {
	return &Buffer{img: img}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Image exposes the underlying NRGBA image for encoding.
func (b *Buffer) Image() *image.NRGBA { return b.img }

// Clone returns a deep copy. Algorithms that mutate pixels work on a clone
// so the caller's buffer is never touched.
func (b *Buffer) Clone() *Buffer {
	dst := image.NewNRGBA(b.img.Rect)
	copy(dst.Pix, b.img.Pix)
	return &Buffer{img: dst}
}

// RGBA returns the four channels of the pixel at (x, y).
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := b.img.PixOffset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA overwrites the pixel at (x, y).
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	i := b.img.PixOffset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = r, g, bl, a
}

// Alpha returns only the alpha channel of the pixel at (x, y).
func (b *Buffer) Alpha(x, y int) uint8 {
	return b.img.Pix[b.img.PixOffset(x, y)+3]
}

// SetAlpha overwrites only the alpha channel, leaving color intact.
func (b *Buffer) SetAlpha(x, y int, a uint8) {
	b.img.Pix[b.img.PixOffset(x, y)+3] = a
}

// AlphaSnapshot copies the alpha plane into a flat width*height slice,
// indexed y*width+x. The matting engine uses it to freeze pass-1 results
// before the feathering pass reads them.
func (b *Buffer) AlphaSnapshot() []uint8 {
	w, h := b.Width(), b.Height()
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := b.img.Pix[y*b.img.Stride : y*b.img.Stride+w*4]
		for x := 0; x < w; x++ {
			out[y*w+x] = row[x*4+3]
		}
	}
	return out
}

// Sample copies the sub-rectangle (x, y, width, height) into a new buffer
// of exactly width by height. Areas of the rectangle that fall outside the
// source stay transparent, matching what a drawing surface does when a
// crop defined against a larger reference image is applied to a smaller one.
func (b *Buffer) Sample(x, y, width, height int) *Buffer {
	out := New(width, height)
	src := image.Rect(x, y, x+width, y+height).Intersect(b.img.Rect)
	if src.Empty() {
		return out
	}
	dst := src.Sub(image.Pt(x, y))
	draw.Draw(out.img, dst, b.img, src.Min, draw.Src)
	return out
}
