package batchcropper

import (
	"bytes"
	"testing"

	"github.com/menta2k/batch-cropper/pkg/pixel"
	"github.com/menta2k/batch-cropper/pkg/types"
	"github.com/menta2k/batch-cropper/pkg/viewport"
)

// sceneRecord builds a white-background image with one red block.
func sceneRecord(t *testing.T) types.ImageRecord {
	t.Helper()
	buf := pixel.New(40, 30)
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			buf.SetRGBA(x, y, 255, 255, 255, 255)
		}
	}
	for y := 8; y < 22; y++ {
		for x := 10; x < 28; x++ {
			buf.SetRGBA(x, y, 180, 20, 20, 255)
		}
	}
	return NewImageRecord("scene.png", buf)
}

func TestEngineDetectRegionsByColor(t *testing.T) {
	engine := New()
	rec := sceneRecord(t)

	regions := engine.DetectRegionsByColor(rec, "#ffffff")
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.X != 10 || r.Y != 8 || r.Width != 18 || r.Height != 14 {
		t.Errorf("region = %+v, want {10 8 18 14}", r)
	}
	if r.ID != "" {
		t.Errorf("detected regions carry no identity, got %q", r.ID)
	}
}

func TestEngineDetectRegionsBadColor(t *testing.T) {
	engine := New()
	if regions := engine.DetectRegionsByColor(sceneRecord(t), "notacolor"); len(regions) != 0 {
		t.Errorf("expected no regions for a malformed color, got %d", len(regions))
	}
}

func TestEngineRemoveBackgroundBadColorIsNoOp(t *testing.T) {
	engine := New()
	rec := sceneRecord(t)
	before, _ := rec.Source.Pixels()

	out := engine.RemoveBackground(rec, "notacolor", 10)

	after, _ := out.Source.Pixels()
	if !bytes.Equal(before.Image().Pix, after.Image().Pix) {
		t.Error("malformed color must leave the image unchanged")
	}
	if out.ID != rec.ID {
		t.Error("record identity changed")
	}
}

func TestEngineRemoveBackgroundReplacesSource(t *testing.T) {
	engine := New()
	rec := sceneRecord(t)

	out := engine.RemoveBackground(rec, "#ffffff", 0)

	if out.ID != rec.ID || out.Name != rec.Name {
		t.Error("replacement record must keep identity and name")
	}

	oldBuf, _ := rec.Source.Pixels()
	newBuf, _ := out.Source.Pixels()
	if oldBuf == newBuf {
		t.Fatal("expected a distinct pixel source")
	}
	if a := oldBuf.Alpha(0, 0); a != 255 {
		t.Error("old buffer was mutated")
	}
	if a := newBuf.Alpha(0, 0); a != 0 {
		t.Error("background was not removed in the new buffer")
	}
	if a := newBuf.Alpha(15, 15); a != 255 {
		t.Error("foreground lost opacity")
	}
}

func TestEngineExportRoundTrip(t *testing.T) {
	engine := New()
	engine.Pipeline().SettleDelay = 0
	rec := sceneRecord(t)

	crops := engine.DetectRegionsByColor(rec, "#ffffff")
	if len(crops) != 1 {
		t.Fatalf("expected 1 crop, got %d", len(crops))
	}

	var calls int
	archives := engine.ExportCrops(crops, []types.ImageRecord{rec}, func(done, total int) {
		calls++
		if total != 1 {
			t.Errorf("total = %d, want 1", total)
		}
	})

	if calls != 1 {
		t.Errorf("progress called %d times, want 1", calls)
	}
	if len(archives) != 1 || len(archives[0].Files) != 1 {
		t.Fatalf("expected 1 archive with 1 file, got %+v", archives)
	}
	if archives[0].Files[0].Name != "scene.png" {
		t.Errorf("file name = %q, want scene.png", archives[0].Files[0].Name)
	}
}

func TestEngineProjectCropToViewport(t *testing.T) {
	engine := New()

	proj, ok := engine.ProjectCropToViewport(
		types.CropRect{X: 0, Y: 0, Width: 100, Height: 100},
		viewport.Size{Width: 50, Height: 50},
	)
	if !ok {
		t.Fatal("expected a valid projection")
	}
	if proj.Scale != 0.5 {
		t.Errorf("scale = %f, want 0.5", proj.Scale)
	}

	if _, ok := engine.ProjectCropToViewport(types.CropRect{}, viewport.Size{Width: 50, Height: 50}); ok {
		t.Error("degenerate crop should yield the placeholder state")
	}
}
