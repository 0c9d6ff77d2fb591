// Package routes defines HTTP route constants for the application.
package routes

// API Routes
const (
	RobotsPath  = "/robots.txt"
	HealthzPath = "/healthz"

	// Media served by the filesystem blob store (dev mode).
	MediaPath = "/media/"

	// Documents
	DocumentsPath    = "/documents/"
	PartialsDocument = "/partials/document"

	// SSE
	SSEPath = "/sse"

	// Root
	RootPath = "/"

	// Editor
	PartialsDraftPreview = "/partials/draft/preview"

	// API
	APIImages         = "/api/images"
	APIDocumentImages = "/api/documents/{id}/images"
	APIDocuments      = "/api/documents/{id}"
)
