// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DraftProject is the on-disk form of a draft used by the CLI: the editor
// snapshot, its bibliography, and the writer session it belongs to.
type DraftProject struct {
	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// SessionID is the writer session UUID. Assigned on first save.
	SessionID string `json:"session_id" yaml:"session_id"`

	// FileName is reported to the submission service (default "<slug>.txt").
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`

	// Content is the document snapshot.
	Content Document `json:"content" yaml:"content"`

	// Bibliography lists the registry entries in number order.
	Bibliography []BibliographyEntry `json:"bibliography" yaml:"bibliography"`

	// Sources is the writer's article library, citable by ID.
	Sources []Source `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// DraftSave is the payload handed to the draft-persistence collaborator on a
// manual save.
type DraftSave struct {
	Title         string  `json:"title" yaml:"title"`
	ContentBlocks []Block `json:"contentBlocks" yaml:"content_blocks"`
	WordCount     int     `json:"wordCount" yaml:"word_count"`
}
