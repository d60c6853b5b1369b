// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography owns the numbered citation entries of a writer session
// and keeps them consistent with the [n] markers in the document.
// registry.go holds the entries; engine.go reconciles them with the editor;
// format.go renders them.
package bibliography

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/writing-desk/pkg/types"
)

// Registry is the ordered set of bibliography entries for one session.
// NextNumber is always one more than the highest number held, or 1 when
// empty, so a number vacated by pruning the maximum can be handed out again.
type Registry struct {
	mu      sync.Mutex
	entries []types.BibliographyEntry
	next    int

	now   func() time.Time
	newID func() string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		next:  1,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// AddOrCite returns the entry for src, creating it with the next free number
// when src has not been cited before. created reports whether a new entry
// was appended. Citing the same source twice never creates a duplicate.
func (r *Registry) AddOrCite(src types.Source) (entry types.BibliographyEntry, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sourceKey(src)
	for _, e := range r.entries {
		if entryKey(e) == key {
			return e, false
		}
	}

	entry = types.BibliographyEntry{
		ID:         r.newID(),
		SourceID:   src.ID,
		Number:     r.next,
		Author:     src.Author,
		Title:      src.Title,
		Year:       src.Year,
		Journal:    src.Journal,
		Publisher:  src.Publisher,
		Volume:     src.Volume,
		Issue:      src.Issue,
		Pages:      src.Pages,
		URL:        src.URL,
		DOI:        src.DOI,
		City:       src.City,
		Edition:    src.Edition,
		Conference: src.Conference,
		CreatedAt:  r.now().UTC(),
	}
	r.entries = append(r.entries, entry)
	r.recomputeNext()
	return entry, true
}

// Remove deletes the entry numbered n.
func (r *Registry) Remove(n int) (types.BibliographyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.Number == n {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			r.recomputeNext()
			return e, nil
		}
	}
	return types.BibliographyEntry{}, fmt.Errorf("removing [%d]: %w", n, ErrEntryNotFound)
}

// Retain keeps only the entries whose number is in cited and returns the
// numbers that were dropped, ascending. The entry list is replaced only when
// something was dropped.
func (r *Registry) Retain(cited map[int]bool) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]types.BibliographyEntry, 0, len(r.entries))
	var pruned []int
	for _, e := range r.entries {
		if cited[e.Number] {
			kept = append(kept, e)
		} else {
			pruned = append(pruned, e.Number)
		}
	}
	if len(kept) != len(r.entries) {
		r.entries = kept
	}
	r.recomputeNext()
	sort.Ints(pruned)
	return pruned
}

// Restore replaces the registry contents with entries, typically loaded
// from a saved draft. Numbers must be positive and unique.
func (r *Registry) Restore(entries []types.BibliographyEntry) error {
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.Number <= 0 {
			return fmt.Errorf("restoring %q: %w", e.Title, ErrInvalidNumber)
		}
		if seen[e.Number] {
			return fmt.Errorf("restoring [%d]: %w", e.Number, ErrDuplicateNumber)
		}
		seen[e.Number] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make([]types.BibliographyEntry, len(entries))
	copy(r.entries, entries)
	for i := range r.entries {
		if r.entries[i].ID == "" {
			r.entries[i].ID = r.newID()
		}
	}
	r.recomputeNext()
	return nil
}

// Entries returns a copy of the entries sorted by number.
func (r *Registry) Entries() []types.BibliographyEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.BibliographyEntry, len(r.entries))
	copy(out, r.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Lookup returns the entry numbered n.
func (r *Registry) Lookup(n int) (types.BibliographyEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Number == n {
			return e, true
		}
	}
	return types.BibliographyEntry{}, false
}

// NextNumber returns the number the next new entry will receive.
func (r *Registry) NextNumber() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// recomputeNext must be called with mu held.
func (r *Registry) recomputeNext() {
	highest := 0
	for _, e := range r.entries {
		if e.Number > highest {
			highest = e.Number
		}
	}
	r.next = highest + 1
}

// sourceKey is the identity used to detect repeat citations: the library ID
// when present, otherwise the normalised title and year.
func sourceKey(src types.Source) string {
	if src.ID != "" {
		return "id:" + src.ID
	}
	return titleKey(src.Title, src.Year)
}

func entryKey(e types.BibliographyEntry) string {
	if e.SourceID != "" {
		return "id:" + e.SourceID
	}
	return titleKey(e.Title, e.Year)
}

func titleKey(title, year string) string {
	t := strings.Join(strings.Fields(strings.ToLower(title)), " ")
	return "title:" + t + "|" + strings.TrimSpace(year)
}
