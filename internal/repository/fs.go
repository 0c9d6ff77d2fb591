package repository

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/technoflash/technoflash/internal/cache"
	"github.com/technoflash/technoflash/internal/model"
	"github.com/technoflash/technoflash/internal/util"
)

// FSDocumentRepository serves block documents straight from a directory of
// .json files. It is read-only: saves are the database repository's job.
type FSDocumentRepository struct { // implements DocumentRepository
	documentsPath string

	documentsCache *cache.Cache[string, *model.Document]

	// mu guards documentsCacheSorted against the reload goroutine.
	mu                   sync.RWMutex
	documentsCacheSorted []model.Document

	reloadNotifier func(model.DocumentID)
}

func NewFSDocumentRepository(documentsPath string) *FSDocumentRepository {
	return &FSDocumentRepository{
		documentsPath:  documentsPath,
		documentsCache: cache.NewCache[string, *model.Document](),
	}
}

func (r *FSDocumentRepository) SetReloadNotifier(notifier func(model.DocumentID)) {
	r.reloadNotifier = notifier
}

func (r *FSDocumentRepository) notifyDocumentReload(documentID model.DocumentID) {
	if r.reloadNotifier != nil {
		r.reloadNotifier(documentID)
	}
}

func (r *FSDocumentRepository) Init() {
	documents, documentMap, err := r.GetDocuments()
	if err != nil {
		repoLogger.Fatal().Err(err).Msg("Error initializing documents")
	}

	r.mu.Lock()
	r.documentsCacheSorted = documents
	r.mu.Unlock()
	r.documentsCache.SetTo(documentMap)

	go r.ReloadDocuments()
}

func (r *FSDocumentRepository) GetDocumentList() []model.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.documentsCacheSorted
}

func (r *FSDocumentRepository) GetDocuments() ([]model.Document, map[string]*model.Document, error) {
	entries, err := os.ReadDir(r.documentsPath)
	if err != nil {
		return nil, nil, err
	}

	var documents []model.Document
	documentMap := make(map[string]*model.Document)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		content, err := os.ReadFile(filepath.Join(r.documentsPath, entry.Name()))
		if err != nil {
			return nil, nil, err
		}

		fileInfo, err := entry.Info()
		if err != nil {
			return nil, nil, err
		}

		doc := model.Document{
			ID:           model.DocumentID(util.ContentHashString(name)),
			Title:        name,
			Content:      content,
			ContentHash:  util.ContentHash(content),
			ModifiedDate: fileInfo.ModTime(),
		}

		documents = append(documents, doc)
		documentMap[string(doc.ID)] = &doc
	}

	slices.SortStableFunc(documents, func(a, b model.Document) int {
		return -a.ModifiedDate.Compare(b.ModifiedDate)
	})

	return documents, documentMap, nil
}

func (r *FSDocumentRepository) ReadDocument(id model.DocumentID) (*model.Document, error) {
	if doc, ok := r.documentsCache.Get(string(id)); ok && doc.Content != nil {
		return doc, nil
	}
	return nil, model.ErrNotFound
}

func (r *FSDocumentRepository) ReloadDocuments() {
	for {
		r.reloadOnce()
		time.Sleep(1 * time.Second)
	}
}

func (r *FSDocumentRepository) reloadOnce() {
	documents, documentMap, err := r.GetDocuments()
	if err != nil {
		repoLogger.Error().Err(err).Msg("Error reloading documents")
		return
	}

	r.mu.RLock()
	cached := r.documentsCacheSorted
	r.mu.RUnlock()

	for _, doc := range cached {
		if newDoc, ok := documentMap[string(doc.ID)]; ok {
			if newDoc.ContentHash != doc.ContentHash {
				repoLogger.Info().
					Str("document_id", string(doc.ID)).
					Str("title", doc.Title).
					Msg("Reloading document")
				go r.notifyDocumentReload(doc.ID)
			}
		}
	}

	r.mu.Lock()
	r.documentsCacheSorted = documents
	r.mu.Unlock()
	r.documentsCache.SetTo(documentMap)
}

func (r *FSDocumentRepository) NewDocument() *model.Document {
	return &model.Document{}
}

func (r *FSDocumentRepository) SetDocumentContent(doc *model.Document) error {
	return nil
}

func (r *FSDocumentRepository) SaveDocument(doc *model.Document) error {
	return nil
}
