package server

import (
	"sync"

	"github.com/menta2k/batch-cropper/pkg/types"
)

// Session owns the mutable state the UI edits: the uploaded images and the
// crop rectangle set. All mutations replace whole collections under the
// lock, so readers never observe a partially updated session.
type Session struct {
	mu     sync.RWMutex
	images []types.ImageRecord
	crops  []types.CropRect
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Images returns a snapshot of the image records.
func (s *Session) Images() []types.ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ImageRecord, len(s.images))
	copy(out, s.images)
	return out
}

// Crops returns a snapshot of the crop rectangles.
func (s *Session) Crops() []types.CropRect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.CropRect, len(s.crops))
	copy(out, s.crops)
	return out
}

// AddImages appends records, publishing a new collection.
func (s *Session) AddImages(recs []types.ImageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]types.ImageRecord, 0, len(s.images)+len(recs))
	next = append(next, s.images...)
	next = append(next, recs...)
	s.images = next
}

// ReplaceImage swaps the record with the given id for a new one, keeping
// its position. It reports whether the id was found.
func (s *Session) ReplaceImage(id string, rec types.ImageRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.images {
		if s.images[i].ID == id {
			next := make([]types.ImageRecord, len(s.images))
			copy(next, s.images)
			next[i] = rec
			s.images = next
			return true
		}
	}
	return false
}

// FindImage looks a record up by id.
func (s *Session) FindImage(id string) (types.ImageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.images {
		if rec.ID == id {
			return rec, true
		}
	}
	return types.ImageRecord{}, false
}

// Reference returns the first image, the one crop rectangles are defined
// against.
func (s *Session) Reference() (types.ImageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.images) == 0 {
		return types.ImageRecord{}, false
	}
	return s.images[0], true
}

// SetCrops replaces the crop set after clamping every rectangle against
// the reference image. Rectangles are dropped only when there is no
// reference image at all.
func (s *Session) SetCrops(crops []types.CropRect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) == 0 {
		s.crops = nil
		return
	}
	ref := s.images[0]
	next := make([]types.CropRect, len(crops))
	copy(next, crops)
	for i := range next {
		next[i].Clamp(ref.Width, ref.Height)
	}
	s.crops = next
}

// Clear empties the session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = nil
	s.crops = nil
}
