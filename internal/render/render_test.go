package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/technoflash/technoflash/internal/cache"
	"github.com/technoflash/technoflash/internal/model"
)

func setupTest() {
	SetLogger(zerolog.Nop())
	cache.ClearRenderedDocumentCache()
}

func TestRenderDocumentEndToEnd(t *testing.T) {
	setupTest()

	raw := []byte(`{"blocks":[
		{"type":"header","data":{"level":1,"text":"Title"}},
		{"type":"paragraph","data":{"text":"See [image:1] below."}}
	]}`)
	images := []model.ImageRecord{
		{URL: "https://x/a.png", Caption: "A", DisplayOrder: 0},
	}

	r := NewRenderer("gruvbox", true)
	out := string(r.RenderDocument(raw, images))

	if !strings.Contains(out, `<h1 id="title">Title</h1>`) {
		t.Errorf("Expected level-1 heading node, got %q", out)
	}
	if !strings.Contains(out, `<img src="https://x/a.png" alt="A" loading="lazy">`) {
		t.Errorf("Expected placeholder replaced with image node, got %q", out)
	}
	if !strings.Contains(out, "<figcaption>A</figcaption>") {
		t.Errorf("Expected image caption, got %q", out)
	}
	if strings.Contains(out, "[image:1]") {
		t.Errorf("Placeholder was not substituted: %q", out)
	}
	if !strings.Contains(out, "<p>See ") || !strings.Contains(out, " below.</p>") {
		t.Errorf("Expected surrounding paragraph text preserved, got %q", out)
	}

	headerIdx := strings.Index(out, "<h1")
	paraIdx := strings.Index(out, "<p>")
	if headerIdx == -1 || paraIdx == -1 || headerIdx > paraIdx {
		t.Errorf("Expected heading before paragraph, got %q", out)
	}
}

func TestRenderIsPure(t *testing.T) {
	setupTest()

	raw := []byte(`{"blocks":[
		{"type":"header","data":{"level":2,"text":"Same"}},
		{"type":"header","data":{"level":2,"text":"Same"}},
		{"type":"paragraph","data":{"text":"Body with [image:1] and [image:9]."}},
		{"type":"code","data":{"code":"fmt.Println(42)","language":"go"}}
	]}`)
	images := []model.ImageRecord{{URL: "https://x/a.png", Caption: "A"}}

	r := NewRenderer("gruvbox", true)
	first := r.RenderDocument(raw, images)
	second := r.RenderDocument(raw, images)

	if !bytes.Equal(first, second) {
		t.Error("Render must produce identical output for identical input")
	}
}

func TestRenderHeadingDedupIsPerRender(t *testing.T) {
	setupTest()

	raw := []byte(`{"blocks":[
		{"type":"header","data":{"level":2,"text":"Intro"}},
		{"type":"header","data":{"level":2,"text":"Intro"}}
	]}`)

	r := NewRenderer("gruvbox", true)
	out := string(r.RenderDocument(raw, nil))

	if !strings.Contains(out, `id="intro"`) || !strings.Contains(out, `id="intro-2"`) {
		t.Errorf("Expected deduplicated heading IDs within one render, got %q", out)
	}

	// A second render of the same document must not see the first render's IDs.
	again := string(r.RenderDocument(raw, nil))
	if again != out {
		t.Errorf("Heading dedup state leaked between renders:\nfirst:  %q\nsecond: %q", out, again)
	}
}

func TestRenderLegacyString(t *testing.T) {
	setupTest()

	r := NewRenderer("gruvbox", true)
	out := string(r.RenderDocument([]byte("Hello <world>\nBye"), nil))

	want := "<p>Hello &lt;world&gt;<br>\nBye</p>\n"
	if out != want {
		t.Errorf("Legacy content mismatch.\nExpected %q\nGot      %q", want, out)
	}
}

func TestRenderNoContent(t *testing.T) {
	setupTest()

	r := NewRenderer("gruvbox", true)

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty payload", raw: []byte("")},
		{name: "whitespace payload", raw: []byte("  \n\t")},
		{name: "empty blocks", raw: []byte(`{"blocks":[]}`)},
		{name: "blocks not a sequence", raw: []byte(`{"blocks":{"bogus":true}}`)},
		{name: "truncated json", raw: []byte(`{"blocks":[`)},
		{name: "missing blocks field", raw: []byte(`{"time":123}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(r.RenderDocument(tt.raw, nil))
			if out != noContentNode {
				t.Errorf("Expected the no-content node, got %q", out)
			}
		})
	}
}

func TestRenderDocumentCached(t *testing.T) {
	setupTest()

	raw := []byte(`{"blocks":[{"type":"paragraph","data":{"text":"Cached."}}]}`)
	r := NewRenderer("gruvbox", true)

	first := r.RenderDocumentCached(raw, "hash-1", nil)
	second := r.RenderDocumentCached(raw, "hash-1", nil)

	if !bytes.Equal(first, second) {
		t.Error("Cache hit should return identical HTML")
	}
}

func TestRenderDocumentCachedDisabled(t *testing.T) {
	setupTest()

	raw := []byte(`{"blocks":[{"type":"paragraph","data":{"text":"Uncached."}}]}`)
	r := NewRenderer("gruvbox", false)

	out := r.RenderDocumentCached(raw, "hash-off", nil)
	if len(out) == 0 {
		t.Fatal("Expected rendered output with caching disabled")
	}

	key := "hash-off:" + imagesFingerprint(nil)
	if _, found := cache.GetRenderedDocument(key, "gruvbox"); found {
		t.Error("Caching disabled must not populate the rendered-document cache")
	}
}

func TestRenderDocumentCachedKeyIncludesImages(t *testing.T) {
	setupTest()

	raw := []byte(`{"blocks":[{"type":"paragraph","data":{"text":"See [image:1]."}}]}`)
	r := NewRenderer("gruvbox", true)

	without := string(r.RenderDocumentCached(raw, "hash-2", nil))
	with := string(r.RenderDocumentCached(raw, "hash-2", []model.ImageRecord{
		{URL: "https://x/b.png", Caption: "B"},
	}))

	if without == with {
		t.Error("Attaching an image must change the cached output for the same content hash")
	}
	if !strings.Contains(with, "https://x/b.png") {
		t.Errorf("Expected resolved image in output, got %q", with)
	}
}

func TestRenderMarkdownPreview(t *testing.T) {
	setupTest()

	out := string(RenderMarkdown([]byte("# Draft\n\nSome `code` here."), "gruvbox"))
	if !strings.Contains(out, "Draft") {
		t.Errorf("Expected rendered heading text, got %q", out)
	}
	if !strings.Contains(out, "<h1") {
		t.Errorf("Expected heading markup, got %q", out)
	}
}

func TestRenderMarkdownHighlightsCode(t *testing.T) {
	setupTest()

	out := string(RenderMarkdown([]byte("```go\nfunc main() {}\n```"), "gruvbox"))
	if !strings.Contains(out, `<div class="highlight">`) {
		t.Errorf("Expected highlighted code block, got %q", out)
	}
}
