// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/writing-desk/pkg/types"
)

// Style identifies the citation layout chosen for an entry.
type Style string

const (
	StyleJournal Style = "journal"
	StyleBook    Style = "book"
	StyleWeb     Style = "web"
	StyleGeneric Style = "generic"
)

// StyleOf picks the layout from the populated fields, in priority order
// journal, book, web, generic.
func StyleOf(e types.BibliographyEntry) Style {
	switch {
	case e.Journal != "":
		return StyleJournal
	case e.Publisher != "":
		return StyleBook
	case e.URL != "":
		return StyleWeb
	default:
		return StyleGeneric
	}
}

// FormatEntry renders e as a single reference line without its number.
func FormatEntry(e types.BibliographyEntry) string {
	head := fmt.Sprintf("%s (%s). %s", e.Author, e.Year, trimTitle(e.Title))

	switch StyleOf(e) {
	case StyleJournal:
		var b strings.Builder
		b.WriteString(head)
		b.WriteString(". ")
		b.WriteString(e.Journal)
		switch {
		case e.Volume != "":
			fmt.Fprintf(&b, ", %s", e.Volume)
			if e.Issue != "" {
				fmt.Fprintf(&b, "(%s)", e.Issue)
			}
		case e.Issue != "":
			fmt.Fprintf(&b, ", (%s)", e.Issue)
		}
		if e.Pages != "" {
			fmt.Fprintf(&b, ", %s", e.Pages)
		}
		b.WriteString(".")
		if e.DOI != "" {
			fmt.Fprintf(&b, " https://doi.org/%s", strings.TrimPrefix(e.DOI, "https://doi.org/"))
		}
		return b.String()

	case StyleBook:
		var b strings.Builder
		b.WriteString(head)
		if e.Edition != "" {
			fmt.Fprintf(&b, " (%s ed.)", e.Edition)
		}
		b.WriteString(".")
		if e.City != "" {
			fmt.Fprintf(&b, " %s: %s.", e.City, e.Publisher)
		} else {
			fmt.Fprintf(&b, " %s.", e.Publisher)
		}
		return b.String()

	case StyleWeb:
		return fmt.Sprintf("%s. Retrieved from %s", head, e.URL)

	default:
		return head + "."
	}
}

// RenderBibliography renders entries ascending by number as "[n] entry",
// separated by blank lines.
func RenderBibliography(entries []types.BibliographyEntry) string {
	sorted := make([]types.BibliographyEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	lines := make([]string, len(sorted))
	for i, e := range sorted {
		lines[i] = fmt.Sprintf("[%d] %s", e.Number, FormatEntry(e))
	}
	return strings.Join(lines, "\n\n")
}

// trimTitle drops a trailing full stop so styles can add their own.
func trimTitle(title string) string {
	return strings.TrimRight(strings.TrimSpace(title), ".")
}
