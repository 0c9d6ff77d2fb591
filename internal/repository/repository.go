// Package repository loads and persists content documents.
package repository

import (
	"github.com/rs/zerolog"
	"github.com/technoflash/technoflash/internal/model"
)

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

type DocumentRepository interface {
	Init()
	GetDocuments() ([]model.Document, map[string]*model.Document, error)
	GetDocumentList() []model.Document
	ReadDocument(id model.DocumentID) (*model.Document, error)
	ReloadDocuments()

	NewDocument() *model.Document
	SaveDocument(doc *model.Document) error
	SetDocumentContent(doc *model.Document) error

	// SetReloadNotifier sets a function that will be called when a document's
	// content is detected to have changed.
	SetReloadNotifier(notifier func(model.DocumentID))
}
