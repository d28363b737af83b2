// Package export applies a set of crop rectangles to a set of images and
// bundles the results into per-crop archives with progress accounting.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/menta2k/batch-cropper/pkg/processing"
	"github.com/menta2k/batch-cropper/pkg/types"
)

// DefaultSettleDelay is the pause inserted between archives so the
// environment can flush the previous download before the next one starts.
const DefaultSettleDelay = 500 * time.Millisecond

// Pipeline runs crop exports. The zero value is not usable; call New.
type Pipeline struct {
	proc *processing.Processor

	// ArchiveBaseName names the archives; a 1-based index suffix is
	// appended when more than one crop is exported.
	ArchiveBaseName string

	// SettleDelay is slept between archives. Tests set it to zero.
	SettleDelay time.Duration
}

// New creates a pipeline with default naming and settle delay.
func New() *Pipeline {
	return &Pipeline{
		proc:            processing.NewProcessor(),
		ArchiveBaseName: "crops",
		SettleDelay:     DefaultSettleDelay,
	}
}

// Export produces one archive per crop. For every crop (outer loop) and
// every image (inner loop, in the order given), the crop's sub-rectangle
// is sampled into a fresh buffer of exactly crop.Width by crop.Height and
// PNG-encoded as "<base-name>.png". onProgress, if non-nil, is called
// after every pair with (processed, total = crops x images).
//
// Export never fails as a whole: an image whose pixels cannot be obtained
// or encoded is counted toward progress and left out of its archive, and
// an archive with no surviving files is still returned. This matches the
// no-throw contract of the download path. Image buffers are pulled from
// their sources one at a time, so lazy sources keep at most one decoded
// image resident.
func (p *Pipeline) Export(crops []types.CropRect, images []types.ImageRecord, onProgress types.ProgressFunc) []types.Archive {
	total := len(crops) * len(images)
	processed := 0

	archives := make([]types.Archive, 0, len(crops))
	for i, crop := range crops {
		if i > 0 && p.SettleDelay > 0 {
			time.Sleep(p.SettleDelay)
		}

		archive := types.Archive{Name: p.archiveName(i, len(crops))}
		for _, rec := range images {
			data, err := p.renderOne(crop, rec)
			processed++
			if onProgress != nil {
				onProgress(processed, total)
			}
			if err != nil {
				// Per-item failure: skip the file, keep the job going.
				continue
			}
			archive.Files = append(archive.Files, types.ArchiveFile{
				Name: outputName(rec.Name),
				Data: data,
			})
		}
		archives = append(archives, archive)
	}

	return archives
}

func (p *Pipeline) renderOne(crop types.CropRect, rec types.ImageRecord) ([]byte, error) {
	if crop.Width <= 0 || crop.Height <= 0 {
		return nil, fmt.Errorf("zero-area crop")
	}
	if rec.Source == nil {
		return nil, fmt.Errorf("image %s has no pixel source", rec.Name)
	}
	buf, err := rec.Source.Pixels()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain pixels for %s: %w", rec.Name, err)
	}
	sample := buf.Sample(crop.X, crop.Y, crop.Width, crop.Height)
	return p.proc.EncodePNG(sample.Image())
}

func (p *Pipeline) archiveName(index, count int) string {
	if count > 1 {
		return fmt.Sprintf("%s_%d", p.ArchiveBaseName, index+1)
	}
	return p.ArchiveBaseName
}

// outputName maps a source display name to its archive entry name:
// the original base name with a .png extension.
func outputName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".png"
}
