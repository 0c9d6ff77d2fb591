package repository

import (
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/technoflash/technoflash/internal/cache"
	"github.com/technoflash/technoflash/internal/db"
	"github.com/technoflash/technoflash/internal/model"
	"github.com/technoflash/technoflash/internal/util"
	"github.com/technoflash/technoflash/internal/util/compression"
)

type DBDocumentRepository struct { // implements DocumentRepository
	documentsCache *cache.Cache[string, *model.Document]

	// mu guards documentsCacheSorted and lastModifiedTime, which the reload
	// goroutine swaps while request handlers read them.
	mu                   sync.RWMutex
	documentsCacheSorted []model.Document
	lastModifiedTime     *time.Time

	reloadNotifier func(model.DocumentID)

	reloadInterval time.Duration

	db         db.DB
	compressor compression.Compressor
}

func NewDBDocumentRepository(db db.DB, compressor compression.Compressor, reloadInterval time.Duration) *DBDocumentRepository {
	if reloadInterval <= 0 {
		reloadInterval = 10 * time.Second
	}

	return &DBDocumentRepository{
		documentsCache: cache.NewCache[string, *model.Document](),

		reloadInterval: reloadInterval,

		db:         db,
		compressor: compressor,
	}
}

func (r *DBDocumentRepository) Init() {
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

func (r *DBDocumentRepository) GetLatestModifiedTime() (*time.Time, error) {
	var latestTimeStr sql.NullString
	row := r.db.QueryRow(`SELECT MAX(modified_at) FROM documents`)
	err := row.Scan(&latestTimeStr)
	if err != nil {
		return nil, fmt.Errorf("error scanning latest modified time: %w", err)
	}

	if !latestTimeStr.Valid {
		return nil, nil // It was NULL, so no documents or no valid timestamps.
	}

	// The go-sqlite3 driver returns a string for MAX(), so we must parse it.
	// It can be in a format with a space separator.
	timeFormats := []string{
		"2006-01-02 15:04:05.999999999-07:00", // Space separator with timezone
		time.RFC3339Nano,                      // 'T' separator with timezone
		time.RFC3339,                          // 'T' separator, no nanos
	}

	var latestTime time.Time
	var parseErr error
	for _, format := range timeFormats {
		latestTime, parseErr = time.Parse(format, latestTimeStr.String)
		if parseErr == nil {
			return &latestTime, nil
		}
	}

	return nil, fmt.Errorf("error parsing latest modified time '%s' with any known format: %w", latestTimeStr.String, parseErr)
}

func (r *DBDocumentRepository) GetDocuments() ([]model.Document, map[string]*model.Document, error) {
	rows, err := r.db.Query(`SELECT id, title, author, content, content_hash, created_at, modified_at FROM documents`)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying documents: %w", err)
	}
	defer rows.Close()

	documents := make([]model.Document, 0)
	documentMap := make(map[string]*model.Document)
	var latestModTime *time.Time

	for rows.Next() {
		var doc model.Document
		var compressed []byte

		err := rows.Scan(&doc.ID, &doc.Title, &doc.Author, &compressed, &doc.ContentHash, &doc.CreatedDate, &doc.ModifiedDate)
		if err != nil {
			return nil, nil, fmt.Errorf("error scanning document: %w", err)
		}

		// Track the latest modification time
		if latestModTime == nil || doc.ModifiedDate.After(*latestModTime) {
			latestModTime = &doc.ModifiedDate
		}

		content, err := r.compressor.Decompress(compressed)
		if err != nil {
			return nil, nil, fmt.Errorf("error decompressing content: %w", err)
		}
		doc.Content = content

		documents = append(documents, doc)
		documentMap[string(doc.ID)] = &doc
	}

	// Update our tracked modification time
	r.mu.Lock()
	r.lastModifiedTime = latestModTime
	r.mu.Unlock()

	// Sort the documents by modification date, newest first
	slices.SortStableFunc(documents, func(a, b model.Document) int {
		return -a.ModifiedDate.Compare(b.ModifiedDate)
	})

	return documents, documentMap, nil
}

func (r *DBDocumentRepository) GetDocumentList() []model.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.documentsCacheSorted
}

func (r *DBDocumentRepository) ReadDocument(id model.DocumentID) (*model.Document, error) {
	doc, ok := r.documentsCache.Get(string(id))
	if !ok {
		return nil, fmt.Errorf("%w: document %s", model.ErrNotFound, id)
	}
	return doc, nil
}

func (r *DBDocumentRepository) ReloadDocuments() {
	for {
		r.reloadOnce()
		time.Sleep(r.reloadInterval)
	}
}

// reloadOnce runs one change check and, when something changed, a full reload.
func (r *DBDocumentRepository) reloadOnce() {
	// First, do a lightweight check to see if anything has changed
	latestTime, err := r.GetLatestModifiedTime()
	if err != nil {
		repoLogger.Error().Err(err).Msg("Error checking latest modification time")
		return
	}

	r.mu.RLock()
	lastModified := r.lastModifiedTime
	r.mu.RUnlock()

	// If we have a cached time and nothing has changed, skip
	if lastModified != nil && latestTime != nil && !latestTime.After(*lastModified) {
		repoLogger.Debug().Msg("No documents modified, skipping reload")
		return
	}

	repoLogger.Debug().Msg("Documents may have changed, performing full reload")

	documents, documentMap, err := r.GetDocuments()
	if err != nil {
		repoLogger.Error().Err(err).Msg("Error reloading documents")
		return
	}

	r.mu.RLock()
	cached := r.documentsCacheSorted
	r.mu.RUnlock()

	// Check if any documents have changed by comparing content hashes
	hasChanges := false

	cachedDocuments := make(map[string]*model.Document)
	for i := range cached {
		cachedDocuments[string(cached[i].ID)] = &cached[i]
	}

	for _, newDoc := range documents {
		if cachedDoc, exists := cachedDocuments[string(newDoc.ID)]; exists {
			if newDoc.ContentHash != cachedDoc.ContentHash {
				hasChanges = true
				repoLogger.Info().
					Str("document_id", string(newDoc.ID)).
					Str("title", newDoc.Title).
					Msg("Document content changed, reloading")
				if r.reloadNotifier != nil {
					go r.reloadNotifier(newDoc.ID)
				}
			}
		} else {
			// New document detected
			hasChanges = true
			repoLogger.Info().
				Str("document_id", string(newDoc.ID)).
				Str("title", newDoc.Title).
				Msg("New document detected")
		}
	}

	// Check for deleted documents
	if len(documents) != len(cached) {
		hasChanges = true
		repoLogger.Info().Msg("Number of documents changed")
	}

	if hasChanges {
		repoLogger.Info().Msg("Documents have changed, updating cache")
		r.mu.Lock()
		r.documentsCacheSorted = documents
		r.mu.Unlock()
		r.documentsCache.SetTo(documentMap)
	}
}

func (r *DBDocumentRepository) SetReloadNotifier(notifier func(model.DocumentID)) {
	r.reloadNotifier = notifier
}

func (r *DBDocumentRepository) NewDocument() *model.Document {
	now := time.Now().UTC()

	return &model.Document{
		ID: model.DocumentID(uuid.New().String()),

		CreatedDate:  now,
		ModifiedDate: now,
	}
}

func (r *DBDocumentRepository) SetDocumentContent(doc *model.Document) error {
	compressed, err := r.compressor.Compress(doc.Content)
	if err != nil {
		return fmt.Errorf("error compressing content: %w", err)
	}

	// The hash covers the compressed content and is used for cache busting.
	doc.ContentHash = util.ContentHash(compressed)

	res, err := r.db.Exec(
		`UPDATE documents SET title = ?, author = ?, content = ?, content_hash = ?, modified_at = ? WHERE id = ?`,
		doc.Title, doc.Author, compressed, doc.ContentHash, time.Now().UTC(), string(doc.ID),
	)

	if err != nil {
		return fmt.Errorf("error saving document: %w", err)
	}

	repoLogger.Debug().Interface("result", res).Msg("Document content set")

	return nil
}

func (r *DBDocumentRepository) SaveDocument(doc *model.Document) error {
	compressed, err := r.compressor.Compress(doc.Content)
	if err != nil {
		return fmt.Errorf("error compressing content: %w", err)
	}

	doc.ContentHash = util.ContentHash(compressed)

	res, err := r.db.Exec(
		`INSERT INTO documents (id, title, author, content, content_hash, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(doc.ID), doc.Title, doc.Author, compressed, doc.ContentHash, doc.CreatedDate, doc.ModifiedDate,
	)

	if err != nil {
		return fmt.Errorf("error saving document: %w", err)
	}

	repoLogger.Debug().Interface("result", res).Msg("Document saved")

	return nil
}
