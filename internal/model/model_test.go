package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeContent(t *testing.T) {
	t.Run("block envelope", func(t *testing.T) {
		content, err := DecodeContent([]byte(`{"time":1700000000,"blocks":[{"type":"paragraph","data":{"text":"hi"}}],"version":"2.28.0"}`))
		if err != nil {
			t.Fatalf("DecodeContent failed: %v", err)
		}
		if len(content.Blocks) != 1 || content.Blocks[0].Type != BlockParagraph {
			t.Errorf("Unexpected blocks: %+v", content.Blocks)
		}
		if content.Legacy != "" {
			t.Errorf("Legacy should be empty for block content, got %q", content.Legacy)
		}
	})

	t.Run("bare block array", func(t *testing.T) {
		content, err := DecodeContent([]byte(`[{"type":"delimiter","data":{}}]`))
		if err != nil {
			t.Fatalf("DecodeContent failed: %v", err)
		}
		if len(content.Blocks) != 1 || content.Blocks[0].Type != BlockDelimiter {
			t.Errorf("Unexpected blocks: %+v", content.Blocks)
		}
	})

	t.Run("legacy flat string", func(t *testing.T) {
		content, err := DecodeContent([]byte("Plain old text\nwith a line break"))
		if err != nil {
			t.Fatalf("DecodeContent failed: %v", err)
		}
		if content.Legacy != "Plain old text\nwith a line break" {
			t.Errorf("Legacy content mangled: %q", content.Legacy)
		}
		if len(content.Blocks) != 0 {
			t.Errorf("Legacy content must not produce blocks: %+v", content.Blocks)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		content, err := DecodeContent(nil)
		if err != nil {
			t.Fatalf("DecodeContent failed: %v", err)
		}
		if len(content.Blocks) != 0 || content.Legacy != "" {
			t.Errorf("Expected empty content, got %+v", content)
		}
	})

	t.Run("malformed json object", func(t *testing.T) {
		_, err := DecodeContent([]byte(`{"blocks":[`))
		if !errors.Is(err, ErrMalformedContent) {
			t.Errorf("Expected a malformed-content error, got %v", err)
		}
	})

	t.Run("object without blocks", func(t *testing.T) {
		_, err := DecodeContent([]byte(`{"time":1700000000}`))
		if !errors.Is(err, ErrMalformedContent) {
			t.Errorf("Expected a malformed-content error, got %v", err)
		}
	})

	t.Run("blocks not a sequence", func(t *testing.T) {
		_, err := DecodeContent([]byte(`{"blocks":"nope"}`))
		if !errors.Is(err, ErrMalformedContent) {
			t.Errorf("Expected a malformed-content error, got %v", err)
		}
	})
}

func TestBlockUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, b Block)
	}{
		{
			name: "paragraph",
			raw:  `{"type":"paragraph","data":{"text":"hello"}}`,
			check: func(t *testing.T, b Block) {
				if b.Paragraph == nil || b.Paragraph.Text != "hello" {
					t.Errorf("Unexpected paragraph: %+v", b.Paragraph)
				}
			},
		},
		{
			name: "type is case-insensitive",
			raw:  `{"type":"Header","data":{"level":2,"text":"Hi"}}`,
			check: func(t *testing.T, b Block) {
				if b.Type != BlockHeader || b.Header == nil || b.Header.Level != 2 {
					t.Errorf("Unexpected header: type=%q data=%+v", b.Type, b.Header)
				}
			},
		},
		{
			name: "list with style key",
			raw:  `{"type":"list","data":{"style":"ordered","items":["a","b"]}}`,
			check: func(t *testing.T, b Block) {
				if b.List == nil || !b.List.Ordered || len(b.List.Items) != 2 {
					t.Errorf("Unexpected list: %+v", b.List)
				}
			},
		},
		{
			name: "list with ordered flag",
			raw:  `{"type":"list","data":{"ordered":true,"items":["a"]}}`,
			check: func(t *testing.T, b Block) {
				if b.List == nil || !b.List.Ordered {
					t.Errorf("Unexpected list: %+v", b.List)
				}
			},
		},
		{
			name: "list items as objects",
			raw:  `{"type":"list","data":{"style":"unordered","items":[{"content":"wrapped"},"flat"]}}`,
			check: func(t *testing.T, b Block) {
				if b.List == nil || len(b.List.Items) != 2 {
					t.Fatalf("Unexpected list: %+v", b.List)
				}
				if b.List.Items[0] != "wrapped" || b.List.Items[1] != "flat" {
					t.Errorf("Unexpected items: %v", b.List.Items)
				}
			},
		},
		{
			name: "table with content key",
			raw:  `{"type":"table","data":{"withHeadings":true,"content":[["a"],["b"]]}}`,
			check: func(t *testing.T, b Block) {
				if b.Table == nil || !b.Table.WithHeadings || len(b.Table.Rows) != 2 {
					t.Errorf("Unexpected table: %+v", b.Table)
				}
			},
		},
		{
			name: "table with rows key",
			raw:  `{"type":"table","data":{"rows":[["x","y"]]}}`,
			check: func(t *testing.T, b Block) {
				if b.Table == nil || len(b.Table.Rows) != 1 || len(b.Table.Rows[0]) != 2 {
					t.Errorf("Unexpected table: %+v", b.Table)
				}
			},
		},
		{
			name: "image nested file url",
			raw:  `{"type":"image","data":{"file":{"url":"https://x/n.png"},"url":"https://x/flat.png"}}`,
			check: func(t *testing.T, b Block) {
				if b.Image == nil || b.Image.SourceURL() != "https://x/n.png" {
					t.Errorf("Expected the nested URL preferred, got %+v", b.Image)
				}
			},
		},
		{
			name: "image flat url only",
			raw:  `{"type":"image","data":{"url":"https://x/flat.png"}}`,
			check: func(t *testing.T, b Block) {
				if b.Image == nil || b.Image.SourceURL() != "https://x/flat.png" {
					t.Errorf("Expected the flat URL, got %+v", b.Image)
				}
			},
		},
		{
			name: "embed prefers embed url",
			raw:  `{"type":"embed","data":{"embed":"https://yt/e","source":"https://yt/s"}}`,
			check: func(t *testing.T, b Block) {
				if b.Embed == nil || b.Embed.SourceURL() != "https://yt/e" {
					t.Errorf("Expected the embed URL preferred, got %+v", b.Embed)
				}
			},
		},
		{
			name: "unknown type keeps raw data",
			raw:  `{"type":"checklist","data":{"items":[]}}`,
			check: func(t *testing.T, b Block) {
				if b.Type != "checklist" {
					t.Errorf("Unexpected type %q", b.Type)
				}
				if string(b.Raw) != `{"items":[]}` {
					t.Errorf("Raw data lost: %q", b.Raw)
				}
			},
		},
		{
			name: "malformed data keeps raw and nils the variant",
			raw:  `{"type":"header","data":{"level":"two"}}`,
			check: func(t *testing.T, b Block) {
				if b.Header != nil {
					t.Errorf("Undecodable data must leave the variant nil, got %+v", b.Header)
				}
				if len(b.Raw) == 0 {
					t.Error("Raw data must survive for fallback rendering")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Block
			if err := json.Unmarshal([]byte(tt.raw), &b); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			tt.check(t, b)
		})
	}
}

func TestBlockMarshalRoundTrip(t *testing.T) {
	raw := []byte(`{"blocks":[
		{"type":"header","data":{"level":2,"text":"Hi"}},
		{"type":"list","data":{"style":"ordered","items":["a","b"]}},
		{"type":"table","data":{"withHeadings":false,"content":[["x"]]}},
		{"type":"checklist","data":{"items":["keep me"]}}
	]}`)

	content, err := DecodeContent(raw)
	if err != nil {
		t.Fatalf("DecodeContent failed: %v", err)
	}

	encoded, err := json.Marshal(content.Blocks)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	again, err := DecodeContent(encoded)
	if err != nil {
		t.Fatalf("Re-decode failed: %v", err)
	}

	if len(again.Blocks) != len(content.Blocks) {
		t.Fatalf("Block count changed: %d vs %d", len(again.Blocks), len(content.Blocks))
	}
	if again.Blocks[0].Header == nil || again.Blocks[0].Header.Text != "Hi" {
		t.Errorf("Header lost in round trip: %+v", again.Blocks[0])
	}
	if again.Blocks[1].List == nil || !again.Blocks[1].List.Ordered {
		t.Errorf("List lost in round trip: %+v", again.Blocks[1])
	}
	if string(again.Blocks[3].Raw) != `{"items":["keep me"]}` {
		t.Errorf("Unknown block's raw data lost: %q", again.Blocks[3].Raw)
	}
}
