// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Source is the external article a writer cites. Its metadata seeds a new
// BibliographyEntry the first time it is cited.
type Source struct {
	// ID identifies the article in the writer's library. Empty for ad-hoc sources.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Author     string `json:"author" yaml:"author"`
	Title      string `json:"title" yaml:"title"`
	Year       string `json:"year" yaml:"year"`
	Journal    string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Publisher  string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Volume     string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue      string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages      string `json:"pages,omitempty" yaml:"pages,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
	Edition    string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Conference string `json:"conference,omitempty" yaml:"conference,omitempty"`
}

// BibliographyEntry is a structured reference bound to a citation number.
// Entries are owned by the bibliography registry.
type BibliographyEntry struct {
	// ID is a UUID assigned when the entry is created.
	ID string `json:"id" yaml:"id"`

	// SourceID links the entry to Source.ID when the citation came from the library.
	SourceID string `json:"source_id,omitempty" yaml:"source_id,omitempty"`

	// Number is the citation number; unique within a writer session.
	Number int `json:"number" yaml:"number"`

	Author     string `json:"author" yaml:"author"`
	Title      string `json:"title" yaml:"title"`
	Year       string `json:"year" yaml:"year"`
	Journal    string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Publisher  string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Volume     string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue      string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages      string `json:"pages,omitempty" yaml:"pages,omitempty"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
	Edition    string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Conference string `json:"conference,omitempty" yaml:"conference,omitempty"`

	// CreatedAt records when the entry was first cited.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
