package model

import "time"

type ImageID string

// ImageRecord associates an uploaded blob with a document. DisplayOrder is
// unique within a document but may contain gaps after deletions; placeholder
// resolution goes by ordinal position in the fetched list, not by this value.
type ImageRecord struct {
	ID         ImageID
	DocumentID DocumentID

	URL     string
	Caption string
	AltText string

	DisplayOrder int

	CreatedDate time.Time
}
