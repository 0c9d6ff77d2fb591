package cache

// RenderedDocument is cached rendered HTML for one content hash and syntax theme.
type RenderedDocument struct {
	HTML []byte
}

var renderedDocumentCache = NewCache[string, *RenderedDocument]()

func GetRenderedDocument(contentHash, syntaxTheme string) (*RenderedDocument, bool) {
	key := contentHash + ":" + syntaxTheme
	return renderedDocumentCache.Get(key)
}

func SetRenderedDocument(contentHash, syntaxTheme string, html []byte) {
	key := contentHash + ":" + syntaxTheme
	renderedDocumentCache.Set(key, &RenderedDocument{
		HTML: html,
	})
}

func ClearRenderedDocumentCache() {
	renderedDocumentCache.Clear()
}
