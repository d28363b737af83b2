package types

import (
	"testing"

	"github.com/menta2k/batch-cropper/pkg/pixel"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   CropRect
		want CropRect
	}{
		{
			"already valid",
			CropRect{X: 10, Y: 10, Width: 20, Height: 20},
			CropRect{X: 10, Y: 10, Width: 20, Height: 20},
		},
		{
			"negative origin",
			CropRect{X: -5, Y: -3, Width: 20, Height: 20},
			CropRect{X: 0, Y: 0, Width: 20, Height: 20},
		},
		{
			"exceeds far edge",
			CropRect{X: 90, Y: 95, Width: 20, Height: 20},
			CropRect{X: 80, Y: 80, Width: 20, Height: 20},
		},
		{
			"zero size",
			CropRect{X: 10, Y: 10, Width: 0, Height: 0},
			CropRect{X: 10, Y: 10, Width: 1, Height: 1},
		},
		{
			"larger than image",
			CropRect{X: 0, Y: 0, Width: 500, Height: 500},
			CropRect{X: 0, Y: 0, Width: 100, Height: 100},
		},
	}

	for _, tt := range tests {
		got := tt.in
		got.Clamp(100, 100)
		if got.X != tt.want.X || got.Y != tt.want.Y || got.Width != tt.want.Width || got.Height != tt.want.Height {
			t.Errorf("%s: Clamp = %+v, want %+v", tt.name, got, tt.want)
		}

		// Invariants hold regardless of input.
		if got.X < 0 || got.Y < 0 || got.Width < 1 || got.Height < 1 ||
			got.X+got.Width > 100 || got.Y+got.Height > 100 {
			t.Errorf("%s: invariant violated: %+v", tt.name, got)
		}
	}
}

func TestNewImageRecord(t *testing.T) {
	buf := pixel.New(12, 8)
	rec := NewImageRecord("test.png", buf)

	if rec.ID == "" {
		t.Error("record should have an id")
	}
	if rec.Width != 12 || rec.Height != 8 {
		t.Errorf("size = %dx%d, want 12x8", rec.Width, rec.Height)
	}
	got, err := rec.Source.Pixels()
	if err != nil || got != buf {
		t.Error("source should return the wrapped buffer")
	}
}

func TestWithSourceKeepsIdentity(t *testing.T) {
	rec := NewImageRecord("test.png", pixel.New(10, 10))
	next := rec.WithSource(pixel.New(6, 4))

	if next.ID != rec.ID || next.Name != rec.Name {
		t.Error("replacement record must keep identity and name")
	}
	if next.Width != 6 || next.Height != 4 {
		t.Errorf("size = %dx%d, want 6x4", next.Width, next.Height)
	}

	// The original record still sees its old buffer.
	old, _ := rec.Source.Pixels()
	if old.Width() != 10 {
		t.Error("original record's source changed")
	}
}

func TestNewCropRectHasIdentity(t *testing.T) {
	a := NewCropRect(0, 0, 10, 10)
	b := NewCropRect(0, 0, 10, 10)
	if a.ID == "" || a.ID == b.ID {
		t.Error("crop rects should carry unique ids")
	}
}
