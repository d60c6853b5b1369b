// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/writing-desk/internal/bibliography"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	PublisherPlace string    `yaml:"publisher-place,omitempty"`
	Edition        string    `yaml:"edition,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes entries as a CSL-YAML list to w, in number order. Item
// IDs are the citation numbers so [n] markers map onto them directly.
func FormatCSL(entries []types.BibliographyEntry, w io.Writer) error {
	sorted := append([]types.BibliographyEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	items := make([]CSLItem, len(sorted))
	for i, e := range sorted {
		items[i] = toCSLItem(e)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(e types.BibliographyEntry) CSLItem {
	item := CSLItem{
		ID:             strconv.Itoa(e.Number),
		Title:          strings.TrimSuffix(strings.TrimSpace(e.Title), "."),
		Volume:         e.Volume,
		Issue:          e.Issue,
		Page:           e.Pages,
		Publisher:      e.Publisher,
		PublisherPlace: e.City,
		Edition:        e.Edition,
		DOI:            e.DOI,
		URL:            e.URL,
	}

	switch bibliography.StyleOf(e) {
	case bibliography.StyleJournal:
		item.Type = "article-journal"
		item.ContainerTitle = e.Journal
	case bibliography.StyleBook:
		item.Type = "book"
	case bibliography.StyleWeb:
		item.Type = "webpage"
	default:
		item.Type = "document"
	}
	if e.Conference != "" {
		item.Type = "paper-conference"
		item.ContainerTitle = e.Conference
	}

	for _, a := range splitAuthors(e.Author) {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if y, err := strconv.Atoi(strings.TrimSpace(e.Year)); err == nil && y > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// splitAuthors splits an author string on "&", " and " and ";". A comma
// separates names only when every comma-separated piece is a full name
// ("Jane Smith, Bob Lee"), so "Smith, J." stays one author.
func splitAuthors(s string) []string {
	s = strings.NewReplacer(" and ", ";", "&", ";").Replace(s)
	var out []string
	for _, part := range strings.Split(s, ";") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		pieces := strings.Split(p, ",")
		full := len(pieces) > 1
		for i := range pieces {
			pieces[i] = strings.TrimSpace(pieces[i])
			if !strings.Contains(pieces[i], " ") {
				full = false
			}
		}
		if full {
			out = append(out, pieces...)
		} else {
			out = append(out, p)
		}
	}
	return out
}

// parseAuthorName splits a name into CSL family/given parts. "Family,
// Given" is honoured; otherwise the last token is the family name. Single
// tokens use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), ","))
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
