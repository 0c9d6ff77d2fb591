package upload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/technoflash/technoflash/internal/blob"
	"github.com/technoflash/technoflash/internal/config"
	"github.com/technoflash/technoflash/internal/model"
	"github.com/technoflash/technoflash/internal/registry"
)

// Handler exposes the ingestion pipeline and the per-document image list over HTTP.
type Handler struct {
	pipeline   *Pipeline
	registry   registry.Registry
	maxPayload int64
}

// NewHandler builds the HTTP boundary. maxPayload bounds the multipart read;
// it should match the store's configured ceiling. Non-positive falls back to
// the package default.
func NewHandler(pipeline *Pipeline, reg registry.Registry, maxPayload int64) *Handler {
	if maxPayload <= 0 {
		maxPayload = blob.MaxPayloadBytes
	}
	return &Handler{
		pipeline:   pipeline,
		registry:   reg,
		maxPayload: maxPayload,
	}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Path    string `json:"path,omitempty"`
	Size    int64  `json:"size,omitempty"`
	Type    string `json:"type,omitempty"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error,omitempty"`
}

type imageResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Caption      string `json:"caption"`
	AltText      string `json:"altText"`
	DisplayOrder int    `json:"displayOrder"`
}

// ServeUpload handles POST multipart uploads: fields "file" (binary) and
// "folder", plus optional "document-id", "caption" and "alt-text".
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	// Bound the form parse; the pipeline enforces the exact payload ceiling.
	if err := r.ParseMultipartForm(h.maxPayload + 1); err != nil {
		writeUploadError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(config.FormFieldFile)
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, config.ErrFileFieldRequired)
		return
	}
	defer file.Close()

	// Read one byte past the ceiling so oversized payloads fail validation
	// instead of being silently truncated.
	payload, err := io.ReadAll(io.LimitReader(file, h.maxPayload+1))
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, "could not read file")
		return
	}

	result, err := h.pipeline.Ingest(r.Context(), model.UploadRequest{
		Payload:    payload,
		Filename:   header.Filename,
		MimeType:   header.Header.Get(config.HCType),
		Folder:     r.FormValue(config.FormFieldFolder),
		DocumentID: model.DocumentID(r.FormValue(config.FormFieldDocumentID)),
		Caption:    r.FormValue(config.FormFieldCaption),
		AltText:    r.FormValue(config.FormFieldAltText),
	})
	if err != nil {
		writeUploadError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		URL:     result.URL,
		Path:    result.Path,
		Size:    result.Size,
		Type:    result.MimeType,
		Name:    result.Name,
	})
}

// ServeDocumentImages handles the per-document image list: GET returns the
// ordered list, DELETE clears it (re-seed flows).
func (h *Handler) ServeDocumentImages(w http.ResponseWriter, r *http.Request) {
	documentID := model.DocumentID(r.PathValue("id"))
	if documentID == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		images, err := h.registry.List(documentID)
		if err != nil {
			http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
			return
		}

		out := make([]imageResponse, 0, len(images))
		for _, img := range images {
			out = append(out, imageResponse{
				ID:           string(img.ID),
				URL:          img.URL,
				Caption:      img.Caption,
				AltText:      img.AltText,
				DisplayOrder: img.DisplayOrder,
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodDelete:
		if err := h.registry.RemoveAll(documentID); err != nil {
			http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeUploadError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, uploadResponse{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		uploadLogger.Error().Err(err).Msg("Error encoding response")
	}
}
