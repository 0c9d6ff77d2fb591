// Package registry maintains, per document, the ordered list of attached images.
package registry

import (
	"github.com/rs/zerolog"
	"github.com/technoflash/technoflash/internal/model"
)

var registryLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	registryLogger = l
}

type Registry interface {
	// Attach appends an image at the next available display order
	// (max existing + 1, or 0 if none exist). Existing records are never
	// renumbered.
	Attach(documentID model.DocumentID, url, caption, altText string) (*model.ImageRecord, error)

	// List returns the document's images sorted ascending by display order.
	// A document with no images yields an empty list, not an error.
	List(documentID model.DocumentID) ([]model.ImageRecord, error)

	// Remove deletes one image record. The remaining records keep their
	// display orders, so gaps are expected after deletions.
	Remove(id model.ImageID) error

	// RemoveAll clears a document's image list. Idempotent.
	RemoveAll(documentID model.DocumentID) error
}
