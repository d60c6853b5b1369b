// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/writing-desk/internal/debounce"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// --- test helpers ---

// memEditor is an Editor whose cursor sits at the end of the last block.
type memEditor struct {
	mu  sync.Mutex
	doc types.Document

	// beforeSnapshot runs inside Snapshot, used to simulate reentrant syncs.
	beforeSnapshot func()
}

func newMemEditor(blocks ...types.Block) *memEditor {
	return &memEditor{doc: types.Document{Blocks: blocks}}
}

func (m *memEditor) Snapshot() types.Document {
	if m.beforeSnapshot != nil {
		m.beforeSnapshot()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone()
}

func (m *memEditor) InsertAtCursor(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.doc.Blocks) == 0 {
		m.doc.Blocks = append(m.doc.Blocks, types.PlainText(""))
	}
	last := &m.doc.Blocks[len(m.doc.Blocks)-1]
	if last.Kind == types.BlockRich {
		last.Spans = append(last.Spans, types.InlineSpan{Text: text})
		return
	}
	last.Text += text
}

func (m *memEditor) Replace(doc types.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc.Clone()
}

func (m *memEditor) setText(blocks ...types.Block) {
	m.Replace(types.Document{Blocks: blocks})
}

func numbers(entries []types.BibliographyEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Number
	}
	return out
}

var (
	srcVaswani = types.Source{ID: "vaswani2017", Author: "Vaswani, A.", Title: "Attention Is All You Need", Year: "2017", Journal: "NeurIPS"}
	srcKnuth   = types.Source{ID: "knuth1984", Author: "Knuth, D.", Title: "The TeXbook", Year: "1984", Publisher: "Addison-Wesley", City: "Reading"}
	srcBlog    = types.Source{ID: "blog", Author: "Doe, J.", Title: "A Post", Year: "2020", URL: "https://example.com/post"}
)

// --- Registry ---

func TestRegistry_AddOrCiteAllocatesSequentialNumbers(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 1, r.NextNumber())

	e1, created1 := r.AddOrCite(srcVaswani)
	e2, created2 := r.AddOrCite(srcKnuth)

	assert.True(t, created1)
	assert.True(t, created2)
	assert.Equal(t, 1, e1.Number)
	assert.Equal(t, 2, e2.Number)
	assert.Equal(t, 3, r.NextNumber())
	assert.Equal(t, "vaswani2017", e1.SourceID)
	assert.NotEmpty(t, e1.ID)
	assert.False(t, e1.CreatedAt.IsZero())
}

func TestRegistry_AddOrCiteSameSourceTwice(t *testing.T) {
	r := NewRegistry()
	first, _ := r.AddOrCite(srcVaswani)
	second, created := r.AddOrCite(srcVaswani)

	assert.False(t, created)
	assert.Equal(t, first.Number, second.Number)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_AddOrCiteWithoutIDMatchesTitleAndYear(t *testing.T) {
	r := NewRegistry()
	a := types.Source{Author: "Roe", Title: "Deep  Learning", Year: "2015"}
	b := types.Source{Author: "Roe", Title: "deep learning", Year: "2015"}
	c := types.Source{Author: "Roe", Title: "deep learning", Year: "2016"}

	_, _ = r.AddOrCite(a)
	_, created := r.AddOrCite(b)
	assert.False(t, created)
	_, created = r.AddOrCite(c)
	assert.True(t, created)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.AddOrCite(srcVaswani)
	r.AddOrCite(srcKnuth)

	removed, err := r.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, "The TeXbook", removed.Title)
	assert.Equal(t, 2, r.NextNumber(), "next number recomputed from survivors")

	_, err = r.Remove(7)
	assert.True(t, errors.Is(err, ErrEntryNotFound))
}

func TestRegistry_RetainRecomputesNextNumber(t *testing.T) {
	r := NewRegistry()
	r.AddOrCite(srcVaswani)
	r.AddOrCite(srcKnuth)
	r.AddOrCite(srcBlog)

	pruned := r.Retain(map[int]bool{1: true, 2: true})
	assert.Equal(t, []int{3}, pruned)
	assert.Equal(t, 3, r.NextNumber())

	// A vacated number is handed to the next, unrelated source.
	e, _ := r.AddOrCite(types.Source{ID: "other", Title: "Other", Year: "2001"})
	assert.Equal(t, 3, e.Number)
}

func TestRegistry_RetainEmpty(t *testing.T) {
	r := NewRegistry()
	r.AddOrCite(srcVaswani)
	assert.Equal(t, []int{1}, r.Retain(nil))
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, r.NextNumber())
}

func TestRegistry_Restore(t *testing.T) {
	tests := []struct {
		name     string
		entries  []types.BibliographyEntry
		wantNext int
		wantErr  error
	}{
		{"empty", nil, 1, nil},
		{"gapped", []types.BibliographyEntry{{Number: 4, Title: "a"}, {Number: 2, Title: "b"}}, 5, nil},
		{"duplicate", []types.BibliographyEntry{{Number: 1}, {Number: 1}}, 0, ErrDuplicateNumber},
		{"non positive", []types.BibliographyEntry{{Number: 0}}, 0, ErrInvalidNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Restore(tt.entries)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, r.NextNumber())
			for _, e := range r.Entries() {
				assert.NotEmpty(t, e.ID)
			}
		})
	}
}

// --- Engine ---

func newTestEngine(t *testing.T, ed *memEditor, opts ...Option) (*Engine, *debounce.ManualClock) {
	t.Helper()
	clock := debounce.NewManualClock()
	opts = append([]Option{WithClock(clock), WithLogger(zaptest.NewLogger(t))}, opts...)
	e := NewEngine(NewRegistry(), ed, types.CitationConfig{SyncDelay: 500 * time.Millisecond}, opts...)
	t.Cleanup(e.Close)
	return e, clock
}

func TestEngine_CiteInsertsMarker(t *testing.T) {
	ed := newMemEditor(types.PlainText("Transformers changed NLP "))
	e, _ := newTestEngine(t, ed)

	entry := e.Cite(srcVaswani)
	assert.Equal(t, 1, entry.Number)
	assert.Equal(t, "Transformers changed NLP [1]", ed.Snapshot().Blocks[0].Text)

	// Citing again reuses the number and inserts it again.
	again := e.Cite(srcVaswani)
	assert.Equal(t, 1, again.Number)
	assert.Equal(t, "Transformers changed NLP [1][1]", ed.Snapshot().Blocks[0].Text)
	assert.Equal(t, 1, e.Registry().Len())
}

func TestEngine_RemoveWalksAllBlocks(t *testing.T) {
	ed := newMemEditor()
	e, _ := newTestEngine(t, ed)
	e.Cite(srcVaswani)
	e.Cite(srcKnuth)
	ed.setText(
		types.PlainText("One [1] two [2]."),
		types.RichSpans(types.InlineSpan{Text: "Rich [1]"}, types.InlineSpan{Text: "[1]"}),
		types.PlainText("Three [1]."),
	)

	removed, err := e.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "vaswani2017", removed.SourceID)

	doc := ed.Snapshot()
	assert.Equal(t, "One  two [2].", doc.Blocks[0].Text)
	assert.Equal(t, []types.InlineSpan{{Text: "Rich "}}, doc.Blocks[1].Spans)
	assert.Equal(t, "Three .", doc.Blocks[2].Text)
	assert.Equal(t, []int{2}, numbers(e.Registry().Entries()))
}

func TestEngine_RemoveUnknown(t *testing.T) {
	ed := newMemEditor(types.PlainText("text [1]"))
	e, _ := newTestEngine(t, ed)

	_, err := e.Remove(1)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.Equal(t, "text [1]", ed.Snapshot().Blocks[0].Text, "document untouched")
}

func TestEngine_SyncNowPrunesExactly(t *testing.T) {
	ed := newMemEditor(types.PlainText("A "))
	e, _ := newTestEngine(t, ed)
	e.Cite(srcVaswani)
	e.Cite(srcKnuth)
	e.Cite(srcBlog)
	ed.setText(types.PlainText("A [1] B [2] C [3]"))

	res := e.SyncNow()
	assert.Empty(t, res.Pruned)

	ed.setText(types.PlainText("A [1] B  C [3]"))
	res = e.SyncNow()
	assert.Equal(t, []int{2}, res.Pruned)
	assert.Equal(t, []int{1, 3}, numbers(e.Registry().Entries()))
	assert.Equal(t, 4, res.NextNumber)
}

func TestEngine_SyncIdempotent(t *testing.T) {
	ed := newMemEditor(types.PlainText("x "))
	e, _ := newTestEngine(t, ed)
	e.Cite(srcVaswani)
	e.Cite(srcKnuth)
	ed.setText(types.PlainText("only [2]"))

	first := e.SyncNow()
	entriesAfterFirst := e.Registry().Entries()

	second := e.SyncNow()
	assert.Equal(t, []int{1}, first.Pruned)
	assert.Empty(t, second.Pruned)
	assert.Equal(t, entriesAfterFirst, e.Registry().Entries())
	assert.Equal(t, first.NextNumber, second.NextNumber)
}

func TestEngine_SyncPrunesMaxAndRecomputes(t *testing.T) {
	ed := newMemEditor(types.PlainText(""))
	e, _ := newTestEngine(t, ed)
	e.Cite(srcVaswani)
	e.Cite(srcKnuth)
	ed.setText(types.PlainText("[1]"))

	res := e.SyncNow()
	assert.Equal(t, 2, res.NextNumber)
}

func TestEngine_SyncDebounced(t *testing.T) {
	ed := newMemEditor(types.PlainText(""))
	var results []SyncResult
	e, clock := newTestEngine(t, ed, WithSyncHook(func(r SyncResult) { results = append(results, r) }))
	e.Cite(srcVaswani)
	ed.setText(types.PlainText("no markers"))

	e.Sync()
	clock.Advance(200 * time.Millisecond)
	e.Sync()
	clock.Advance(200 * time.Millisecond)
	e.Sync()
	assert.Empty(t, results)
	assert.Equal(t, 1, e.Registry().Len(), "nothing pruned before the delay")

	clock.Advance(500 * time.Millisecond)
	require.Len(t, results, 1, "burst coalesced into one run")
	assert.Equal(t, []int{1}, results[0].Pruned)
	assert.Equal(t, 0, e.Registry().Len())
}

func TestEngine_SyncSingleFlightDropsReentrantCall(t *testing.T) {
	ed := newMemEditor(types.PlainText(""))
	e, _ := newTestEngine(t, ed)
	e.Cite(srcVaswani)
	ed.setText(types.PlainText("gone"))

	var inner SyncResult
	calls := 0
	ed.beforeSnapshot = func() {
		calls++
		if calls == 1 {
			inner = e.SyncNow()
		}
	}

	outer := e.SyncNow()
	assert.True(t, inner.Skipped)
	assert.False(t, outer.Skipped)
	assert.Equal(t, []int{1}, outer.Pruned)

	// Latch released afterwards.
	ed.beforeSnapshot = nil
	assert.False(t, e.SyncNow().Skipped)
}

func TestEngine_Bibliography(t *testing.T) {
	ed := newMemEditor(types.PlainText(""))
	e, _ := newTestEngine(t, ed)
	e.Cite(srcKnuth)
	e.Cite(srcVaswani)

	out := e.Bibliography()
	lines := strings.Split(out, "\n\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[1] Knuth"))
	assert.True(t, strings.HasPrefix(lines[1], "[2] Vaswani"))
}
