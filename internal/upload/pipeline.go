// Package upload implements the image ingestion pipeline: validate, store, register.
package upload

import (
	"context"
	"path"

	"github.com/rs/zerolog"
	"github.com/technoflash/technoflash/internal/blob"
	"github.com/technoflash/technoflash/internal/model"
	"github.com/technoflash/technoflash/internal/registry"
)

var uploadLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	uploadLogger = l
}

// Pipeline runs one upload through validation, blob storage and metadata
// registration as a single sequential pass. It performs no retries; a failed
// request is reported once with its precise reason.
type Pipeline struct {
	store    blob.Store
	registry registry.Registry
}

func NewPipeline(store blob.Store, reg registry.Registry) *Pipeline {
	return &Pipeline{
		store:    store,
		registry: reg,
	}
}

// Ingest stores the payload and, when the request names a document, attaches
// the resulting URL to that document's ordered image list.
func (p *Pipeline) Ingest(ctx context.Context, req model.UploadRequest) (*model.UploadResult, error) {
	stored, err := p.store.Put(ctx, blob.PutRequest{
		Payload:  req.Payload,
		Name:     req.Filename,
		MimeType: req.MimeType,
		Folder:   req.Folder,
	})
	if err != nil {
		return nil, err
	}

	result := &model.UploadResult{
		URL:      stored.URL,
		Path:     stored.Path,
		Size:     stored.Size,
		MimeType: stored.MimeType,
		Name:     path.Base(stored.Path),
	}

	if req.DocumentID != "" {
		record, err := p.registry.Attach(req.DocumentID, stored.URL, req.Caption, req.AltText)
		if err != nil {
			// The blob is already written; reporting the registration failure
			// beats deleting the object and pretending nothing happened.
			return nil, err
		}
		result.Image = record
	}

	uploadLogger.Info().
		Str("path", stored.Path).
		Str("type", stored.MimeType).
		Int64("size", stored.Size).
		Str("document_id", string(req.DocumentID)).
		Msg("Upload ingested")

	return result, nil
}
