// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the writing-desk core:
// document snapshots, bibliography entries, originality reports, assignment
// validation and submission records.
package types

import "strings"

// BlockKind tags which variant a Block holds.
type BlockKind string

const (
	// BlockPlain is a block whose content is a single string.
	BlockPlain BlockKind = "plain"

	// BlockRich is a block whose content is an ordered list of inline spans.
	BlockRich BlockKind = "rich"
)

// InlineSpan is a run of text inside a rich block.
type InlineSpan struct {
	// Text is the span's literal text.
	Text string `json:"text" yaml:"text"`

	// Styles lists editor marks applied to the span (bold, italic, ...).
	// The core never interprets them.
	Styles []string `json:"styles,omitempty" yaml:"styles,omitempty"`
}

// Block is one paragraph-level unit of an editor snapshot. It holds either
// plain text or a list of inline spans, never both; Kind says which.
type Block struct {
	// ID is the editor's block identifier, carried through unchanged.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Kind selects the variant.
	Kind BlockKind `json:"kind" yaml:"kind"`

	// Text is the content of a plain block.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Spans is the content of a rich block.
	Spans []InlineSpan `json:"spans,omitempty" yaml:"spans,omitempty"`
}

// PlainText returns a plain block holding s.
func PlainText(s string) Block {
	return Block{Kind: BlockPlain, Text: s}
}

// RichSpans returns a rich block holding spans.
func RichSpans(spans ...InlineSpan) Block {
	return Block{Kind: BlockRich, Spans: spans}
}

// Content returns the block's text with inline spans concatenated.
func (b Block) Content() string {
	if b.Kind == BlockRich {
		var sb strings.Builder
		for _, s := range b.Spans {
			sb.WriteString(s.Text)
		}
		return sb.String()
	}
	return b.Text
}

// Document is a read-only snapshot of the editor's content.
type Document struct {
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Clone returns a deep copy so callers can rewrite blocks without touching
// the original snapshot.
func (d Document) Clone() Document {
	out := Document{Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		nb := b
		if b.Spans != nil {
			nb.Spans = make([]InlineSpan, len(b.Spans))
			copy(nb.Spans, b.Spans)
		}
		out.Blocks[i] = nb
	}
	return out
}
