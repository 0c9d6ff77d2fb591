package model

import (
	"encoding/json"
	"strings"
)

type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeader    BlockType = "header"
	BlockList      BlockType = "list"
	BlockQuote     BlockType = "quote"
	BlockCode      BlockType = "code"
	BlockDelimiter BlockType = "delimiter"
	BlockImage     BlockType = "image"
	BlockTable     BlockType = "table"
	BlockWarning   BlockType = "warning"
	BlockEmbed     BlockType = "embed"
)

// Block is one typed unit of authored content. Exactly one of the data
// pointers matching Type is set; unrecognized types keep only Raw so the
// renderer can emit a visible fallback instead of dropping the block.
type Block struct {
	Type BlockType

	Paragraph *ParagraphData
	Header    *HeaderData
	List      *ListData
	Quote     *QuoteData
	Code      *CodeData
	Image     *ImageData
	Table     *TableData
	Warning   *WarningData
	Embed     *EmbedData

	// Raw is the block's original data payload, kept for fallback rendering.
	Raw json.RawMessage
}

type ParagraphData struct {
	Text string `json:"text"`
}

type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type ListData struct {
	Ordered bool
	Items   []string
}

// listDataJSON accepts both the editor's wire shape ("style": "ordered") and
// the flat shape ("ordered": true). Items may be plain strings or objects
// carrying a "content" field, depending on the editor plugin version.
type listDataJSON struct {
	Style   string            `json:"style"`
	Ordered bool              `json:"ordered"`
	Items   []json.RawMessage `json:"items"`
}

func (l *ListData) UnmarshalJSON(data []byte) error {
	var wire listDataJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	l.Ordered = wire.Ordered || wire.Style == "ordered"
	l.Items = make([]string, 0, len(wire.Items))
	for _, item := range wire.Items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			l.Items = append(l.Items, s)
			continue
		}
		var obj struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			l.Items = append(l.Items, obj.Content)
			continue
		}
		// Nested or unknown item shapes render as empty items rather than failing the block.
		l.Items = append(l.Items, "")
	}
	return nil
}

type QuoteData struct {
	Text    string `json:"text"`
	Caption string `json:"caption"`
}

type CodeData struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type ImageData struct {
	File    ImageFile `json:"file"`
	URL     string    `json:"url"`
	Caption string    `json:"caption"`
}

type ImageFile struct {
	URL string `json:"url"`
}

// SourceURL returns the image location, preferring the nested file shape the
// editor writes over the flat legacy shape.
func (d *ImageData) SourceURL() string {
	if d.File.URL != "" {
		return d.File.URL
	}
	return d.URL
}

type TableData struct {
	WithHeadings bool
	Rows         [][]string
}

// tableDataJSON accepts the editor's "content" key as well as plain "rows".
type tableDataJSON struct {
	WithHeadings bool       `json:"withHeadings"`
	Content      [][]string `json:"content"`
	Rows         [][]string `json:"rows"`
}

func (t *TableData) UnmarshalJSON(data []byte) error {
	var wire tableDataJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	t.WithHeadings = wire.WithHeadings
	t.Rows = wire.Content
	if t.Rows == nil {
		t.Rows = wire.Rows
	}
	return nil
}

type WarningData struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type EmbedData struct {
	Service string `json:"service"`
	Source  string `json:"source"`
	Embed   string `json:"embed"`
	Caption string `json:"caption"`
}

// SourceURL returns the embeddable location, preferring the pre-built embed
// URL over the original source link.
func (d *EmbedData) SourceURL() string {
	if d.Embed != "" {
		return d.Embed
	}
	return d.Source
}

type blockJSON struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var wire blockJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	b.Type = BlockType(strings.ToLower(wire.Type))
	b.Raw = wire.Data

	// A block whose data payload doesn't decode keeps its Raw form and renders
	// as a fallback node, so per-variant decode errors are deliberately dropped.
	switch b.Type {
	case BlockParagraph:
		b.Paragraph = decodeData[ParagraphData](wire.Data)
	case BlockHeader:
		b.Header = decodeData[HeaderData](wire.Data)
	case BlockList:
		b.List = decodeData[ListData](wire.Data)
	case BlockQuote:
		b.Quote = decodeData[QuoteData](wire.Data)
	case BlockCode:
		b.Code = decodeData[CodeData](wire.Data)
	case BlockImage:
		b.Image = decodeData[ImageData](wire.Data)
	case BlockTable:
		b.Table = decodeData[TableData](wire.Data)
	case BlockWarning:
		b.Warning = decodeData[WarningData](wire.Data)
	case BlockEmbed:
		b.Embed = decodeData[EmbedData](wire.Data)
	case BlockDelimiter:
		// No data fields.
	}
	return nil
}

func decodeData[T any](raw json.RawMessage) *T {
	if len(raw) == 0 {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func (b Block) MarshalJSON() ([]byte, error) {
	var data any
	switch b.Type {
	case BlockParagraph:
		data = b.Paragraph
	case BlockHeader:
		data = b.Header
	case BlockList:
		data = marshalList(b.List)
	case BlockQuote:
		data = b.Quote
	case BlockCode:
		data = b.Code
	case BlockImage:
		data = b.Image
	case BlockTable:
		data = marshalTable(b.Table)
	case BlockWarning:
		data = b.Warning
	case BlockEmbed:
		data = b.Embed
	}

	if data == nil || isNilPointer(data) {
		if len(b.Raw) > 0 {
			return json.Marshal(blockJSON{Type: string(b.Type), Data: b.Raw})
		}
		return json.Marshal(blockJSON{Type: string(b.Type), Data: json.RawMessage(`{}`)})
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockJSON{Type: string(b.Type), Data: encoded})
}

func marshalList(l *ListData) any {
	if l == nil {
		return nil
	}
	style := "unordered"
	if l.Ordered {
		style = "ordered"
	}
	return map[string]any{"style": style, "items": l.Items}
}

func marshalTable(t *TableData) any {
	if t == nil {
		return nil
	}
	return map[string]any{"withHeadings": t.WithHeadings, "content": t.Rows}
}

func isNilPointer(v any) bool {
	switch p := v.(type) {
	case *ParagraphData:
		return p == nil
	case *HeaderData:
		return p == nil
	case *QuoteData:
		return p == nil
	case *CodeData:
		return p == nil
	case *ImageData:
		return p == nil
	case *WarningData:
		return p == nil
	case *EmbedData:
		return p == nil
	default:
		return false
	}
}
