package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HIfNoneMatch  = "If-None-Match"

	CTypeHTML = "text/html"
	CTypeJSON = "application/json"
	CTypeText = "text/plain"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	// Multipart form fields accepted by the image upload endpoint.
	FormFieldFile       = "file"
	FormFieldFolder     = "folder"
	FormFieldDocumentID = "document-id"
	FormFieldCaption    = "caption"
	FormFieldAltText    = "alt-text"
)
