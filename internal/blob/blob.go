// Package blob persists opaque binary payloads and hands back stable public URLs.
package blob

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/technoflash/technoflash/internal/model"
)

var blobLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	blobLogger = l
}

// MaxPayloadBytes is the upload size ceiling used when the configuration
// doesn't set one. Payloads over the ceiling are rejected before any write is
// attempted.
const MaxPayloadBytes int64 = 10 << 20

// DefaultFolder receives uploads that don't name a folder, unless the
// configuration names a different one.
const DefaultFolder = "uploads"

// limits carries the configured upload constraints shared by every backend.
type limits struct {
	maxPayload    int64
	defaultFolder string
}

func newLimits(maxPayload int64, defaultFolder string) limits {
	if maxPayload <= 0 {
		maxPayload = MaxPayloadBytes
	}
	if defaultFolder == "" {
		defaultFolder = DefaultFolder
	}
	return limits{maxPayload: maxPayload, defaultFolder: defaultFolder}
}

type Store interface {
	// Put writes exactly one object to the store. It performs at most one
	// attempt; retry policy belongs to the caller.
	Put(ctx context.Context, req PutRequest) (PutResult, error)
}

type PutRequest struct {
	Payload []byte
	// Name is the declared filename, used only for extension-based MIME correction.
	Name string
	// MimeType is the declared content type, corrected when absent or generic.
	MimeType string
	Folder   string
}

type PutResult struct {
	URL      string
	Path     string
	MimeType string
	Size     int64
}

// allowedTypes is the image MIME allow-list with canonical extensions.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// extToMime corrects generic or missing declared types from the filename.
var extToMime = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// NormalizeMimeType resolves the effective content type for an upload.
// Generic declared types fall back to the filename extension, and unknown
// extensions default to JPEG.
func NormalizeMimeType(declared, filename string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared != "" && declared != "application/octet-stream" && declared != "binary/octet-stream" {
		return declared
	}

	ext := strings.ToLower(path.Ext(filename))
	if mimeType, ok := extToMime[ext]; ok {
		return mimeType
	}
	return "image/jpeg"
}

// prepare validates a request and produces the object key and corrected MIME
// type. All failures here are caller-fixable and wrap model.ErrValidation.
func prepare(req PutRequest, lim limits) (key, mimeType string, err error) {
	if len(req.Payload) == 0 {
		return "", "", fmt.Errorf("%w: empty payload", model.ErrValidation)
	}
	if int64(len(req.Payload)) > lim.maxPayload {
		return "", "", fmt.Errorf("%w: payload of %d bytes exceeds limit of %d", model.ErrValidation, len(req.Payload), lim.maxPayload)
	}

	mimeType = NormalizeMimeType(req.MimeType, req.Name)
	ext, ok := allowedTypes[mimeType]
	if !ok {
		return "", "", fmt.Errorf("%w: unsupported image type %q", model.ErrValidation, mimeType)
	}

	folder := strings.Trim(req.Folder, "/")
	if folder == "" {
		folder = lim.defaultFolder
	}

	return folder + "/" + objectName(ext), mimeType, nil
}

// objectName combines a timestamp with a short random token so that
// collisions are practically impossible without a uniqueness check against
// the store.
func objectName(ext string) string {
	token := make([]byte, 4)
	rand.Read(token)
	return fmt.Sprintf("%d-%s%s", time.Now().UTC().UnixNano(), hex.EncodeToString(token), ext)
}

func publicURL(baseURL, key string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + key
}
