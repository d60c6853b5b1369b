// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/content"
	"github.com/pdiddy/writing-desk/internal/debounce"
	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/internal/metrics"
	"github.com/pdiddy/writing-desk/pkg/types"
)

const defaultSyncDelay = 500 * time.Millisecond

// Editor is the document editor the engine works against.
type Editor interface {
	// Snapshot returns the current document content.
	Snapshot() types.Document

	// InsertAtCursor inserts text at the editor's cursor.
	InsertAtCursor(text string)

	// Replace swaps the document content for doc.
	Replace(doc types.Document)
}

// SyncResult describes one sync run.
type SyncResult struct {
	// Pruned lists the numbers of entries removed, ascending.
	Pruned []int

	// Skipped is true when another sync held the latch and this run did nothing.
	Skipped bool

	// NextNumber is the registry's next number after the run.
	NextNumber int
}

// Engine keeps a Registry consistent with the citation markers in an
// Editor's document. Sync, Cite and Remove are the only mutators.
type Engine struct {
	registry  *Registry
	editor    Editor
	debouncer *debounce.Debouncer
	logger    *zap.Logger
	onSync    func(SyncResult)

	// syncing is the single-flight latch; a sync arriving while it is held
	// is dropped.
	syncing atomic.Bool
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	clock  debounce.Clock
	logger *zap.Logger
	onSync func(SyncResult)
}

// WithClock sets the clock used for the sync debounce.
func WithClock(c debounce.Clock) Option {
	return func(o *engineOptions) { o.clock = c }
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithSyncHook registers fn to be called after every debounced sync.
func WithSyncHook(fn func(SyncResult)) Option {
	return func(o *engineOptions) { o.onSync = fn }
}

// NewEngine returns an engine over reg and editor. A zero SyncDelay uses 500ms.
func NewEngine(reg *Registry, editor Editor, cfg types.CitationConfig, opts ...Option) *Engine {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	delay := cfg.SyncDelay
	if delay <= 0 {
		delay = defaultSyncDelay
	}
	return &Engine{
		registry:  reg,
		editor:    editor,
		debouncer: debounce.New(delay, o.clock),
		logger:    logging.OrNop(o.logger),
		onSync:    o.onSync,
	}
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Cite inserts the marker for src at the cursor, creating a bibliography
// entry on first citation and reusing the existing number afterwards.
func (e *Engine) Cite(src types.Source) types.BibliographyEntry {
	entry, created := e.registry.AddOrCite(src)
	marker := content.Marker(entry.Number)
	e.editor.InsertAtCursor(marker)

	kind := "reused"
	if created {
		kind = "new"
	}
	metrics.CitationsAdded.WithLabelValues(kind).Inc()
	e.logger.Debug("citation inserted",
		zap.Int("number", entry.Number),
		zap.String("source_id", src.ID),
		zap.Bool("created", created),
	)
	return entry
}

// Remove strips every [n] marker from every block of the document and then
// deletes entry n from the registry.
func (e *Engine) Remove(n int) (types.BibliographyEntry, error) {
	if _, ok := e.registry.Lookup(n); !ok {
		return types.BibliographyEntry{}, fmt.Errorf("removing [%d]: %w", n, ErrEntryNotFound)
	}
	e.editor.Replace(content.StripMarker(e.editor.Snapshot(), n))
	entry, err := e.registry.Remove(n)
	if err != nil {
		return types.BibliographyEntry{}, err
	}
	e.logger.Debug("citation removed", zap.Int("number", n))
	return entry, nil
}

// Sync schedules a reconciliation after the debounce delay. Each call
// restarts the delay, so only the last call of a burst runs.
func (e *Engine) Sync() {
	e.debouncer.Trigger(func() {
		res := e.SyncNow()
		if e.onSync != nil {
			e.onSync(res)
		}
	})
}

// SyncNow reconciles immediately: entries whose number no longer appears
// in the document text are pruned. If a sync is already running the call
// returns at once with Skipped set.
func (e *Engine) SyncNow() SyncResult {
	if !e.syncing.CompareAndSwap(false, true) {
		metrics.CitationSyncs.WithLabelValues("skipped").Inc()
		e.logger.Debug("sync skipped, already running")
		return SyncResult{Skipped: true, NextNumber: e.registry.NextNumber()}
	}
	defer e.syncing.Store(false)

	ex := content.Extract(e.editor.Snapshot())
	pruned := e.registry.Retain(ex.Cited)
	res := SyncResult{Pruned: pruned, NextNumber: e.registry.NextNumber()}

	if len(pruned) > 0 {
		metrics.CitationSyncs.WithLabelValues("pruned").Inc()
		metrics.CitationEntriesPruned.Add(float64(len(pruned)))
		e.logger.Info("pruned uncited bibliography entries",
			zap.Ints("numbers", pruned),
			zap.Int("next_number", res.NextNumber),
		)
	} else {
		metrics.CitationSyncs.WithLabelValues("unchanged").Inc()
	}
	return res
}

// Bibliography renders the registry's entries.
func (e *Engine) Bibliography() string {
	return RenderBibliography(e.registry.Entries())
}

// Close cancels any pending debounced sync.
func (e *Engine) Close() {
	e.debouncer.Cancel()
}
