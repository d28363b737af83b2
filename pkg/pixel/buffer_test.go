package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.Set(1, 2, color.RGBA{10, 20, 30, 255})

	buf := FromImage(src)
	if buf.Width() != 4 || buf.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", buf.Width(), buf.Height())
	}
	r, g, b, a := buf.RGBA(1, 2)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("pixel = (%d,%d,%d,%d), want (10,20,30,255)", r, g, b, a)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	buf := New(2, 2)
	buf.SetRGBA(0, 0, 1, 2, 3, 4)

	clone := buf.Clone()
	clone.SetRGBA(0, 0, 9, 9, 9, 9)

	r, _, _, _ := buf.RGBA(0, 0)
	if r != 1 {
		t.Errorf("original mutated through clone: r = %d, want 1", r)
	}
}

func TestSetAlphaKeepsColor(t *testing.T) {
	buf := New(1, 1)
	buf.SetRGBA(0, 0, 100, 150, 200, 255)
	buf.SetAlpha(0, 0, 0)

	r, g, b, a := buf.RGBA(0, 0)
	if a != 0 {
		t.Errorf("alpha = %d, want 0", a)
	}
	if r != 100 || g != 150 || b != 200 {
		t.Errorf("color = (%d,%d,%d), want (100,150,200)", r, g, b)
	}
}

func TestSample(t *testing.T) {
	buf := New(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			buf.SetRGBA(x, y, uint8(x), uint8(y), 0, 255)
		}
	}

	out := buf.Sample(2, 3, 4, 5)
	if out.Width() != 4 || out.Height() != 5 {
		t.Fatalf("sample size = %dx%d, want 4x5", out.Width(), out.Height())
	}
	r, g, _, a := out.RGBA(0, 0)
	if r != 2 || g != 3 || a != 255 {
		t.Errorf("sample origin = (%d,%d,a=%d), want (2,3,a=255)", r, g, a)
	}
	r, g, _, _ = out.RGBA(3, 4)
	if r != 5 || g != 7 {
		t.Errorf("sample corner = (%d,%d), want (5,7)", r, g)
	}
}

func TestSampleBeyondBoundsStaysTransparent(t *testing.T) {
	buf := New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			buf.SetRGBA(x, y, 255, 0, 0, 255)
		}
	}

	// Crop extends past the right and bottom edges.
	out := buf.Sample(2, 2, 4, 4)
	if out.Width() != 4 || out.Height() != 4 {
		t.Fatalf("sample size = %dx%d, want 4x4", out.Width(), out.Height())
	}
	if _, _, _, a := out.RGBA(0, 0); a != 255 {
		t.Errorf("in-bounds pixel alpha = %d, want 255", a)
	}
	if _, _, _, a := out.RGBA(3, 3); a != 0 {
		t.Errorf("out-of-bounds pixel alpha = %d, want 0", a)
	}
}

func TestAlphaSnapshot(t *testing.T) {
	buf := New(3, 2)
	buf.SetAlpha(1, 0, 10)
	buf.SetAlpha(2, 1, 20)

	snap := buf.AlphaSnapshot()
	if len(snap) != 6 {
		t.Fatalf("snapshot length = %d, want 6", len(snap))
	}
	if snap[0*3+1] != 10 || snap[1*3+2] != 20 {
		t.Errorf("snapshot = %v", snap)
	}

	// Later edits must not leak into the snapshot.
	buf.SetAlpha(1, 0, 99)
	if snap[0*3+1] != 10 {
		t.Errorf("snapshot mutated: %d, want 10", snap[0*3+1])
	}
}

func TestMemorySource(t *testing.T) {
	buf := New(2, 2)
	src := NewMemorySource(buf)
	got, err := src.Pixels()
	if err != nil {
		t.Fatalf("Pixels() error: %v", err)
	}
	if got != buf {
		t.Error("memory source returned a different buffer")
	}
}
