package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/technoflash/technoflash/internal/model"
)

func renderOne(t *testing.T, blockJSON string, images []model.ImageRecord) string {
	t.Helper()

	var block model.Block
	if err := json.Unmarshal([]byte(blockJSON), &block); err != nil {
		t.Fatalf("Failed to unmarshal block: %v", err)
	}

	var buf bytes.Buffer
	renderBlock(&buf, newRenderContext("gruvbox"), block, images)
	return buf.String()
}

func TestRenderBlockVariants(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
	}{
		{
			name:  "paragraph",
			block: `{"type":"paragraph","data":{"text":"Hello <b>there</b>"}}`,
			want:  "<p>Hello <b>there</b></p>\n",
		},
		{
			name:  "header",
			block: `{"type":"header","data":{"level":3,"text":"Section"}}`,
			want:  "<h3 id=\"section\">Section</h3>\n",
		},
		{
			name:  "header level clamped high",
			block: `{"type":"header","data":{"level":9,"text":"Deep"}}`,
			want:  "<h6 id=\"deep\">Deep</h6>\n",
		},
		{
			name:  "header level clamped low",
			block: `{"type":"header","data":{"level":0,"text":"Flat"}}`,
			want:  "<h1 id=\"flat\">Flat</h1>\n",
		},
		{
			name:  "unordered list",
			block: `{"type":"list","data":{"style":"unordered","items":["one","two"]}}`,
			want:  "<ul><li>one</li><li>two</li></ul>\n",
		},
		{
			name:  "ordered list",
			block: `{"type":"list","data":{"style":"ordered","items":["first","second"]}}`,
			want:  "<ol><li>first</li><li>second</li></ol>\n",
		},
		{
			name:  "quote with caption",
			block: `{"type":"quote","data":{"text":"Stay hungry","caption":"Jobs"}}`,
			want:  "<blockquote><p>Stay hungry</p><cite>Jobs</cite></blockquote>\n",
		},
		{
			name:  "quote without caption",
			block: `{"type":"quote","data":{"text":"Less is more"}}`,
			want:  "<blockquote><p>Less is more</p></blockquote>\n",
		},
		{
			name:  "delimiter",
			block: `{"type":"delimiter","data":{}}`,
			want:  "<hr class=\"delimiter\">\n",
		},
		{
			name:  "image block uses its own url",
			block: `{"type":"image","data":{"file":{"url":"https://cdn/x.png"},"caption":"Fig"}}`,
			want:  "<figure class=\"image\"><img src=\"https://cdn/x.png\" alt=\"Fig\" loading=\"lazy\"><figcaption>Fig</figcaption></figure>\n",
		},
		{
			name:  "image block legacy flat url",
			block: `{"type":"image","data":{"url":"https://cdn/y.png"}}`,
			want:  "<figure class=\"image\"><img src=\"https://cdn/y.png\" alt=\"\" loading=\"lazy\"></figure>\n",
		},
		{
			name:  "warning",
			block: `{"type":"warning","data":{"title":"Careful","message":"Hot surface"}}`,
			want:  "<div class=\"warning\"><strong>Careful</strong><p>Hot surface</p></div>\n",
		},
		{
			name:  "warning without title",
			block: `{"type":"warning","data":{"message":"Just a note"}}`,
			want:  "<div class=\"warning\"><p>Just a note</p></div>\n",
		},
		{
			name:  "embed",
			block: `{"type":"embed","data":{"embed":"https://yt/e/1","source":"https://yt/w?v=1","caption":"Clip"}}`,
			want:  "<figure class=\"embed\"><iframe src=\"https://yt/e/1\" allowfullscreen></iframe><figcaption>Clip</figcaption></figure>\n",
		},
		{
			name:  "table",
			block: `{"type":"table","data":{"content":[["a","b"],["c","d"]]}}`,
			want:  "<table><tbody><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></tbody></table>\n",
		},
		{
			name:  "table with headings",
			block: `{"type":"table","data":{"withHeadings":true,"content":[["h1","h2"],["v1","v2"]]}}`,
			want:  "<table><thead><tr><th>h1</th><th>h2</th></tr></thead><tbody><tr><td>v1</td><td>v2</td></tr></tbody></table>\n",
		},
		{
			name:  "ragged table renders rows as given",
			block: `{"type":"table","data":{"content":[["a","b","c"],["d"]]}}`,
			want:  "<table><tbody><tr><td>a</td><td>b</td><td>c</td></tr><tr><td>d</td></tr></tbody></table>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderOne(t, tt.block, nil)
			if got != tt.want {
				t.Errorf("Block render mismatch.\nExpected %q\nGot      %q", tt.want, got)
			}
		})
	}
}

func TestRenderBlockCode(t *testing.T) {
	got := renderOne(t, `{"type":"code","data":{"code":"func main() {}","language":"go"}}`, nil)
	if !strings.Contains(got, `<div class="highlight">`) {
		t.Errorf("Expected highlighted code wrapper, got %q", got)
	}
	if !strings.Contains(got, "main") {
		t.Errorf("Expected code content in output, got %q", got)
	}
}

// Fallback totality: every block, including malformed and unknown-type ones,
// produces exactly one visible node and never panics.
func TestRenderBlockFallbackTotality(t *testing.T) {
	tests := []struct {
		name  string
		block string
	}{
		{name: "unknown type", block: `{"type":"checklist","data":{"items":[{"text":"x","checked":true}]}}`},
		{name: "empty type", block: `{"type":"","data":{"text":"orphan"}}`},
		{name: "paragraph without data", block: `{"type":"paragraph"}`},
		{name: "header with wrong data shape", block: `{"type":"header","data":{"level":"two","text":5}}`},
		{name: "list without data", block: `{"type":"list"}`},
		{name: "table without data", block: `{"type":"table"}`},
		{name: "image without data", block: `{"type":"image"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderOne(t, tt.block, nil)

			if strings.Count(got, "\n") != 1 {
				t.Errorf("Expected exactly one output node, got %q", got)
			}
			if !strings.Contains(got, `class="block-fallback"`) {
				t.Errorf("Expected a visible fallback node, got %q", got)
			}
		})
	}
}

func TestRenderBlockFallbackKeepsRawData(t *testing.T) {
	got := renderOne(t, `{"type":"checklist","data":{"items":["buy milk"]}}`, nil)

	if !strings.Contains(got, `data-block-type="checklist"`) {
		t.Errorf("Expected the block's type name in the fallback, got %q", got)
	}
	if !strings.Contains(got, "buy milk") {
		t.Errorf("Expected the raw data to stay visible, got %q", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Hello World", want: "hello-world"},
		{in: "What's new in Go 1.22?", want: "what-s-new-in-go-1-22"},
		{in: "<em>Styled</em> heading", want: "styled-heading"},
		{in: "---", want: ""},
		{in: "  spaced  out  ", want: "spaced-out"},
	}

	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
