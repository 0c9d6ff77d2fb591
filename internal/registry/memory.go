package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/technoflash/technoflash/internal/model"
)

// MemoryRegistry keeps image lists in process memory. Used by tests and
// ephemeral development runs.
type MemoryRegistry struct { // implements Registry
	mu     sync.RWMutex
	images map[model.DocumentID][]model.ImageRecord
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		images: make(map[model.DocumentID][]model.ImageRecord),
	}
}

func (m *MemoryRegistry) Attach(documentID model.DocumentID, url, caption, altText string) (*model.ImageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := 0
	for _, img := range m.images[documentID] {
		if img.DisplayOrder >= next {
			next = img.DisplayOrder + 1
		}
	}

	record := model.ImageRecord{
		ID:           model.ImageID(uuid.New().String()),
		DocumentID:   documentID,
		URL:          url,
		Caption:      caption,
		AltText:      altText,
		DisplayOrder: next,
		CreatedDate:  time.Now().UTC(),
	}
	m.images[documentID] = append(m.images[documentID], record)

	return &record, nil
}

func (m *MemoryRegistry) List(documentID model.DocumentID) ([]model.ImageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Records are appended in display order and never renumbered, so the
	// stored slice is already sorted.
	images := make([]model.ImageRecord, len(m.images[documentID]))
	copy(images, m.images[documentID])
	return images, nil
}

func (m *MemoryRegistry) Remove(id model.ImageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for documentID, images := range m.images {
		for i, img := range images {
			if img.ID == id {
				m.images[documentID] = append(images[:i:i], images[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: image %s", model.ErrNotFound, id)
}

func (m *MemoryRegistry) RemoveAll(documentID model.DocumentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, documentID)
	return nil
}
