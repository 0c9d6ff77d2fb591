// Package model defines core data structures and types for the content platform.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"
)

type DocumentID string

// Document is one authored piece of content. The authoring tool replaces the
// content wholesale on each edit; readers (the renderer included) never patch it.
type Document struct {
	ID DocumentID

	Title  string
	Author string

	// Content is the raw authored payload: an editor block JSON envelope or a
	// legacy flat string from before the block editor existed.
	Content []byte

	// Used for cache busting.
	// We cannot use the rendered output hash because rendering depends on the theme.
	ContentHash string

	// HTML holds the rendered output when a handler has rendered the document.
	HTML template.HTML

	CreatedDate  time.Time
	ModifiedDate time.Time
}

// DocumentContent is the decoded form of a document's authored payload.
// Exactly one of Blocks or Legacy carries the content.
type DocumentContent struct {
	Blocks []Block

	// Legacy is set when the payload is a flat string. It is displayed
	// verbatim and never parsed as blocks.
	Legacy string
}

// blockEnvelope mirrors the editor's document JSON: {"time":..,"blocks":[..],"version":..}.
type blockEnvelope struct {
	Blocks json.RawMessage `json:"blocks"`
}

// DecodeContent interprets a raw authored payload. A payload that starts with
// a JSON object or array is decoded as block content; anything else is legacy
// flat-string content. A JSON-looking payload that fails to decode reports
// ErrMalformedContent so that callers can degrade instead of guessing.
func DecodeContent(raw []byte) (*DocumentContent, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &DocumentContent{}, nil
	}

	switch trimmed[0] {
	case '{':
		var envelope blockEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
		}
		if len(envelope.Blocks) == 0 {
			return nil, fmt.Errorf("%w: missing blocks field", ErrMalformedContent)
		}
		blocks, err := decodeBlocks(envelope.Blocks)
		if err != nil {
			return nil, err
		}
		return &DocumentContent{Blocks: blocks}, nil
	case '[':
		blocks, err := decodeBlocks(trimmed)
		if err != nil {
			return nil, err
		}
		return &DocumentContent{Blocks: blocks}, nil
	default:
		return &DocumentContent{Legacy: string(raw)}, nil
	}
}

func decodeBlocks(raw json.RawMessage) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("%w: blocks is not a sequence: %v", ErrMalformedContent, err)
	}
	return blocks, nil
}
