package registry

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/technoflash/technoflash/internal/db"
	"github.com/technoflash/technoflash/internal/model"
)

type SQLRegistry struct { // implements Registry
	db db.DB
}

func NewSQLRegistry(db db.DB) *SQLRegistry {
	return &SQLRegistry{db: db}
}

func (r *SQLRegistry) Attach(documentID model.DocumentID, url, caption, altText string) (*model.ImageRecord, error) {
	// The next-order read and the insert are not one statement; the unique
	// (document_id, display_order) constraint turns a lost race into an error
	// instead of silent duplicate ordering.
	var next sql.NullInt64
	row := r.db.QueryRow(`SELECT MAX(display_order) + 1 FROM images WHERE document_id = ?`, string(documentID))
	if err := row.Scan(&next); err != nil {
		return nil, fmt.Errorf("%w: error scanning next display order: %v", model.ErrStorage, err)
	}

	record := &model.ImageRecord{
		ID:           model.ImageID(uuid.New().String()),
		DocumentID:   documentID,
		URL:          url,
		Caption:      caption,
		AltText:      altText,
		DisplayOrder: int(next.Int64), // NULL scans as 0: first image of the document
		CreatedDate:  time.Now().UTC(),
	}

	_, err := r.db.Exec(
		`INSERT INTO images (id, document_id, url, caption, alt_text, display_order, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(record.ID), string(record.DocumentID), record.URL, record.Caption, record.AltText, record.DisplayOrder, record.CreatedDate,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: error saving image record: %v", model.ErrStorage, err)
	}

	registryLogger.Debug().
		Str("document_id", string(documentID)).
		Str("image_id", string(record.ID)).
		Int("display_order", record.DisplayOrder).
		Msg("Image attached")

	return record, nil
}

func (r *SQLRegistry) List(documentID model.DocumentID) ([]model.ImageRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, document_id, url, caption, alt_text, display_order, created_at FROM images WHERE document_id = ? ORDER BY display_order ASC`,
		string(documentID),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: error querying images: %v", model.ErrStorage, err)
	}
	defer rows.Close()

	images := make([]model.ImageRecord, 0)
	for rows.Next() {
		var img model.ImageRecord
		err := rows.Scan(&img.ID, &img.DocumentID, &img.URL, &img.Caption, &img.AltText, &img.DisplayOrder, &img.CreatedDate)
		if err != nil {
			return nil, fmt.Errorf("%w: error scanning image record: %v", model.ErrStorage, err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating image records: %v", model.ErrStorage, err)
	}

	return images, nil
}

func (r *SQLRegistry) Remove(id model.ImageID) error {
	res, err := r.db.Exec(`DELETE FROM images WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("%w: error deleting image record: %v", model.ErrStorage, err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: image %s", model.ErrNotFound, id)
	}
	return nil
}

func (r *SQLRegistry) RemoveAll(documentID model.DocumentID) error {
	_, err := r.db.Exec(`DELETE FROM images WHERE document_id = ?`, string(documentID))
	if err != nil {
		return fmt.Errorf("%w: error clearing image records: %v", model.ErrStorage, err)
	}
	return nil
}
