// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft loads and saves draft projects and adapts them to the
// bibliography engine's editor interface.
package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/writing-desk/internal/bibliography"
	"github.com/pdiddy/writing-desk/internal/content"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// LoadProject reads a YAML draft project. A project without a session ID
// gets a new one.
func LoadProject(path string) (*types.DraftProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}
	var p types.DraftProject
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	if p.SessionID == "" {
		p.SessionID = uuid.New().String()
	}
	if p.FileName == "" {
		p.FileName = FileName(p.Title, path)
	}
	return &p, nil
}

// SaveProject writes p to path, replacing the file atomically.
func SaveProject(path string, p *types.DraftProject) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".draft-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing project: %w", err)
	}
	return nil
}

// FileName derives the submission file name from the title, falling back
// to the project file's base name.
func FileName(title, projectPath string) string {
	slug := slugify(title)
	if slug == "" {
		slug = slugify(strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath)))
	}
	if slug == "" {
		slug = "draft"
	}
	return slug + ".txt"
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Buffer is an in-memory editor over a project's document. The cursor is
// always at the end of the last block.
type Buffer struct {
	mu  sync.Mutex
	doc types.Document
}

// NewBuffer returns a Buffer holding a copy of doc.
func NewBuffer(doc types.Document) *Buffer {
	return &Buffer{doc: doc.Clone()}
}

// Snapshot implements bibliography.Editor.
func (b *Buffer) Snapshot() types.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc.Clone()
}

// InsertAtCursor implements bibliography.Editor.
func (b *Buffer) InsertAtCursor(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.doc.Blocks) == 0 {
		b.doc.Blocks = append(b.doc.Blocks, types.PlainText(text))
		return
	}
	last := &b.doc.Blocks[len(b.doc.Blocks)-1]
	if last.Kind == types.BlockRich {
		last.Spans = append(last.Spans, types.InlineSpan{Text: text})
		return
	}
	last.Text += text
}

// Replace implements bibliography.Editor.
func (b *Buffer) Replace(doc types.Document) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = doc.Clone()
}

var _ bibliography.Editor = (*Buffer)(nil)

// Save builds the manual-save payload for a document.
func Save(title string, doc types.Document) types.DraftSave {
	return types.DraftSave{
		Title:         title,
		ContentBlocks: doc.Clone().Blocks,
		WordCount:     content.WordCount(content.PlainText(doc)),
	}
}

// DanglingMarkers returns the cited numbers that have no bibliography entry,
// ascending.
func DanglingMarkers(doc types.Document, entries []types.BibliographyEntry) []int {
	known := make(map[int]bool, len(entries))
	for _, e := range entries {
		known[e.Number] = true
	}
	var missing []int
	for _, n := range content.Extract(doc).Numbers() {
		if !known[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

// citationKey builds a BibTeX key from the first author's surname, the
// year, and the citation number.
func citationKey(e types.BibliographyEntry) string {
	surname := e.Author
	if i := strings.IndexAny(surname, ",;&"); i >= 0 {
		surname = surname[:i]
	}
	if fields := strings.Fields(surname); len(fields) > 0 {
		surname = fields[len(fields)-1]
	}
	key := slugify(surname) + e.Year
	if key == "" {
		key = "ref"
	}
	return fmt.Sprintf("%s-%d", strings.ReplaceAll(key, "-", ""), e.Number)
}

// GenerateBibTeX produces BibTeX content for entries in number order.
func GenerateBibTeX(entries []types.BibliographyEntry) string {
	sorted := append([]types.BibliographyEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	var b strings.Builder
	for _, e := range sorted {
		kind := "misc"
		switch bibliography.StyleOf(e) {
		case bibliography.StyleJournal:
			kind = "article"
		case bibliography.StyleBook:
			kind = "book"
		case bibliography.StyleWeb:
			kind = "online"
		}
		if e.Conference != "" {
			kind = "inproceedings"
		}
		fmt.Fprintf(&b, "@%s{%s,\n", kind, citationKey(e))
		fmt.Fprintf(&b, "  title = {%s},\n", e.Title)
		field := func(name, value string) {
			if value != "" {
				fmt.Fprintf(&b, "  %s = {%s},\n", name, value)
			}
		}
		field("author", e.Author)
		field("year", e.Year)
		field("journal", e.Journal)
		field("booktitle", e.Conference)
		field("volume", e.Volume)
		field("number", e.Issue)
		field("pages", e.Pages)
		field("publisher", e.Publisher)
		field("address", e.City)
		field("edition", e.Edition)
		field("doi", e.DOI)
		field("url", e.URL)
		fmt.Fprintf(&b, "}\n\n")
	}
	return b.String()
}
