// Package render converts authored block documents into HTML.
package render

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog"
	"github.com/technoflash/technoflash/internal/cache"
	"github.com/technoflash/technoflash/internal/model"
	"github.com/technoflash/technoflash/internal/util"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// Renderer is a pure transformation from decoded content plus an ordered
// image list to HTML. It holds no mutable state; per-render state (heading ID
// dedup) lives in a context created for each call.
type Renderer struct {
	syntaxTheme string
	cacheHTML   bool
}

func NewRenderer(syntaxTheme string, cacheHTML bool) *Renderer {
	return &Renderer{
		syntaxTheme: syntaxTheme,
		cacheHTML:   cacheHTML,
	}
}

// RenderDocument decodes a raw authored payload and renders it. Undecodable
// payloads degrade to a single "no content" node; this function never fails.
func (r *Renderer) RenderDocument(raw []byte, images []model.ImageRecord) []byte {
	content, err := model.DecodeContent(raw)
	if err != nil {
		renderLogger.Warn().Err(err).Msg("Undecodable document content, rendering fallback")
		return []byte(noContentNode)
	}
	return r.Render(content, images)
}

// Render walks the block sequence and produces one HTML node per block, in
// order. Legacy flat-string content is emitted verbatim (escaped) in a single
// paragraph node. Empty content yields a single "no content" node.
func (r *Renderer) Render(content *model.DocumentContent, images []model.ImageRecord) []byte {
	if content == nil {
		return []byte(noContentNode)
	}

	if content.Legacy != "" {
		var buf bytes.Buffer
		renderLegacy(&buf, content.Legacy)
		return buf.Bytes()
	}

	if len(content.Blocks) == 0 {
		return []byte(noContentNode)
	}

	ctx := newRenderContext(r.syntaxTheme)
	var buf bytes.Buffer
	for _, block := range content.Blocks {
		renderBlock(&buf, ctx, block, images)
	}
	return buf.Bytes()
}

// Mutex to protect the check-render-set operation in RenderDocumentCached
var renderCacheMutex sync.Mutex

// RenderDocumentCached renders through the shared rendered-document cache.
// The cache key covers the content hash, the theme and the image list, since
// attaching or recaptioning an image changes the output for the same content.
// With HTML caching disabled in the configuration it renders directly.
func (r *Renderer) RenderDocumentCached(raw []byte, contentHash string, images []model.ImageRecord) []byte {
	if !r.cacheHTML {
		return r.RenderDocument(raw, images)
	}

	if contentHash == "" {
		renderLogger.Warn().Msg("Content hash is empty, skipping cache check")
		return r.RenderDocument(raw, images)
	}

	key := contentHash + ":" + imagesFingerprint(images)

	// First check cache without locking (fast path for cache hits)
	if cached, found := cache.GetRenderedDocument(key, r.syntaxTheme); found {
		renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", r.syntaxTheme).Msg("Cache hit for rendered document")
		return cached.HTML
	}

	renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", r.syntaxTheme).Msg("Cache miss for rendered document")
	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	html := r.RenderDocument(raw, images)
	cache.SetRenderedDocument(key, r.syntaxTheme, html)

	return html
}

func imagesFingerprint(images []model.ImageRecord) string {
	if len(images) == 0 {
		return "none"
	}
	var buf bytes.Buffer
	for _, img := range images {
		buf.WriteString(img.URL)
		buf.WriteByte('\x00')
		buf.WriteString(img.Caption)
		buf.WriteByte('\x00')
		buf.WriteString(img.AltText)
		buf.WriteByte('\x00')
	}
	return util.ContentHash(buf.Bytes())
}
