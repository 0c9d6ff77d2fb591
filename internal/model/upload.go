package model

// UploadRequest carries one file through the ingestion pipeline.
type UploadRequest struct {
	Payload  []byte
	Filename string
	// MimeType is the declared content type. Absent or generic types are
	// corrected from the filename extension before storage.
	MimeType string
	Folder   string

	// DocumentID, when set, attaches the stored image to that document's
	// ordered image list.
	DocumentID DocumentID
	Caption    string
	AltText    string
}

// UploadResult reports a completed ingestion.
type UploadResult struct {
	URL      string
	Path     string
	Size     int64
	MimeType string
	Name     string

	// Image is set when the upload was attached to a document.
	Image *ImageRecord
}
