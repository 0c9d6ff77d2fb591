package render

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/technoflash/technoflash/internal/model"
)

const noContentNode = `<p class="no-content">No content</p>` + "\n"

// renderContext carries per-render state. Heading ID deduplication is scoped
// here so that concurrent or successive renders of unrelated documents cannot
// leak anchors into each other.
type renderContext struct {
	syntaxTheme    string
	usedHeadingIDs map[string]int
}

func newRenderContext(syntaxTheme string) *renderContext {
	return &renderContext{
		syntaxTheme:    syntaxTheme,
		usedHeadingIDs: make(map[string]int),
	}
}

// renderBlock writes exactly one output node for the given block. Malformed
// or unrecognized blocks produce a visible fallback node; nothing here can
// fail past this function.
func renderBlock(buf *bytes.Buffer, ctx *renderContext, b model.Block, images []model.ImageRecord) {
	switch b.Type {
	case model.BlockParagraph:
		if b.Paragraph == nil {
			renderFallback(buf, b)
			return
		}
		fmt.Fprintf(buf, "<p>%s</p>\n", expandPlaceholders(b.Paragraph.Text, images))

	case model.BlockHeader:
		if b.Header == nil {
			renderFallback(buf, b)
			return
		}
		level := b.Header.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		text := expandPlaceholders(b.Header.Text, images)
		fmt.Fprintf(buf, "<h%d id=\"%s\">%s</h%d>\n", level, ctx.headingID(b.Header.Text), text, level)

	case model.BlockList:
		if b.List == nil {
			renderFallback(buf, b)
			return
		}
		tag := "ul"
		if b.List.Ordered {
			tag = "ol"
		}
		fmt.Fprintf(buf, "<%s>", tag)
		for _, item := range b.List.Items {
			// Items are flat strings; nested block parsing is out of contract.
			fmt.Fprintf(buf, "<li>%s</li>", item)
		}
		fmt.Fprintf(buf, "</%s>\n", tag)

	case model.BlockQuote:
		if b.Quote == nil {
			renderFallback(buf, b)
			return
		}
		buf.WriteString("<blockquote><p>")
		buf.WriteString(b.Quote.Text)
		buf.WriteString("</p>")
		if b.Quote.Caption != "" {
			fmt.Fprintf(buf, "<cite>%s</cite>", b.Quote.Caption)
		}
		buf.WriteString("</blockquote>\n")

	case model.BlockCode:
		if b.Code == nil {
			renderFallback(buf, b)
			return
		}
		highlighted, err := HighlightCode(b.Code.Code, b.Code.Language, ctx.syntaxTheme)
		if err != nil {
			fmt.Fprintf(buf, "<pre><code>%s</code></pre>\n", html.EscapeString(b.Code.Code))
			return
		}
		fmt.Fprintf(buf, "<div class=\"highlight\">%s</div>\n", highlighted)

	case model.BlockDelimiter:
		buf.WriteString("<hr class=\"delimiter\">\n")

	case model.BlockImage:
		if b.Image == nil {
			renderFallback(buf, b)
			return
		}
		// The block's own URL is used directly; the placeholder resolver is
		// only for inline [image:N] markers in text blocks.
		buf.WriteString(imageNode(b.Image.SourceURL(), b.Image.Caption, b.Image.Caption))
		buf.WriteByte('\n')

	case model.BlockTable:
		if b.Table == nil {
			renderFallback(buf, b)
			return
		}
		renderTable(buf, b.Table)

	case model.BlockWarning:
		if b.Warning == nil {
			renderFallback(buf, b)
			return
		}
		buf.WriteString("<div class=\"warning\">")
		if b.Warning.Title != "" {
			fmt.Fprintf(buf, "<strong>%s</strong>", b.Warning.Title)
		}
		fmt.Fprintf(buf, "<p>%s</p></div>\n", b.Warning.Message)

	case model.BlockEmbed:
		if b.Embed == nil {
			renderFallback(buf, b)
			return
		}
		src := b.Embed.SourceURL()
		fmt.Fprintf(buf, "<figure class=\"embed\"><iframe src=\"%s\" allowfullscreen></iframe>", html.EscapeString(src))
		if b.Embed.Caption != "" {
			fmt.Fprintf(buf, "<figcaption>%s</figcaption>", b.Embed.Caption)
		}
		buf.WriteString("</figure>\n")

	default:
		renderFallback(buf, b)
	}
}

// renderTable renders rows exactly as given: ragged rows keep their own cell
// counts, no padding or validation.
func renderTable(buf *bytes.Buffer, t *model.TableData) {
	buf.WriteString("<table>")
	rows := t.Rows
	if t.WithHeadings && len(rows) > 0 {
		buf.WriteString("<thead><tr>")
		for _, cell := range rows[0] {
			fmt.Fprintf(buf, "<th>%s</th>", cell)
		}
		buf.WriteString("</tr></thead>")
		rows = rows[1:]
	}
	buf.WriteString("<tbody>")
	for _, row := range rows {
		buf.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(buf, "<td>%s</td>", cell)
		}
		buf.WriteString("</tr>")
	}
	buf.WriteString("</tbody></table>\n")
}

// renderFallback makes unrecognized or malformed blocks visible instead of
// silently dropping them.
func renderFallback(buf *bytes.Buffer, b model.Block) {
	fmt.Fprintf(buf, "<div class=\"block-fallback\" data-block-type=\"%s\"><pre>%s</pre></div>\n",
		html.EscapeString(string(b.Type)), html.EscapeString(string(b.Raw)))
}

// renderLegacy emits flat-string content verbatim in one paragraph node,
// escaped, with authored line breaks preserved.
func renderLegacy(buf *bytes.Buffer, text string) {
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
	fmt.Fprintf(buf, "<p>%s</p>\n", escaped)
}

func imageNode(url, caption, altText string) string {
	if altText == "" {
		altText = caption
	}
	var sb strings.Builder
	sb.WriteString(`<figure class="image"><img src="`)
	sb.WriteString(html.EscapeString(url))
	sb.WriteString(`" alt="`)
	sb.WriteString(html.EscapeString(altText))
	sb.WriteString(`" loading="lazy">`)
	if caption != "" {
		sb.WriteString("<figcaption>")
		sb.WriteString(html.EscapeString(caption))
		sb.WriteString("</figcaption>")
	}
	sb.WriteString("</figure>")
	return sb.String()
}

func missingImageNode(index string) string {
	return `<span class="image-missing" data-image-index="` + html.EscapeString(index) + `"></span>`
}

var tagSeparator = strings.NewReplacer("<", " <") // split words glued to tags before stripping

// headingID derives a stable anchor from the heading text and deduplicates it
// within the current render.
func (ctx *renderContext) headingID(text string) string {
	slug := slugify(text)
	if slug == "" {
		slug = "heading"
	}

	n := ctx.usedHeadingIDs[slug]
	ctx.usedHeadingIDs[slug] = n + 1
	if n == 0 {
		return slug
	}
	return slug + "-" + strconv.Itoa(n+1)
}

func slugify(text string) string {
	text = stripTags(tagSeparator.Replace(text))

	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}

func stripTags(text string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
